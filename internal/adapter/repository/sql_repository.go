package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// NewSQLRepositories backs every store with db. The schema comes from
// database.Connect.
func NewSQLRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Listings: NewSQLListingRepository(db),
		Likes:    NewSQLLikeRepository(db),
		Chats:    NewSQLChatRepository(db),
		Users:    NewSQLUserRepository(db),
	}
}

// The zero time is stored as 0; UnixNano is undefined that far back.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func exists(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (bool, error) {
	var one int
	err := sqlx.GetContext(ctx, q, &one, query, args...)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
