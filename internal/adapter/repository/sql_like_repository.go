package repository

import (
	"context"
	"time"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type likeRow struct {
	UserID    string `db:"user_id"`
	ProductID string `db:"product_id"`
	CreatedAt int64  `db:"created_at"`
}

type sqlLikeRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLLikeRepository(db *sqlx.DB) repository.LikeRepository {
	return &sqlLikeRepository{db: db, now: time.Now}
}

func (r *sqlLikeRepository) Add(ctx context.Context, userID, productID string) (*entity.Like, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Internal("Failed to like product", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, tx.Rebind(`SELECT 1 FROM likes WHERE user_id = ? AND product_id = ?`), userID, productID)
	if err != nil {
		return nil, errors.Internal("Failed to like product", err)
	}
	if found {
		return nil, errors.Conflict("Product already liked")
	}

	like := entity.Like{UserID: userID, ProductID: productID, CreatedAt: r.now()}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO likes (user_id, product_id, created_at) VALUES (?, ?, ?)`),
		userID, productID, toNanos(like.CreatedAt)); err != nil {
		return nil, errors.Internal("Failed to like product", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Internal("Failed to like product", err)
	}
	return &like, nil
}

func (r *sqlLikeRepository) Remove(ctx context.Context, userID, productID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM likes WHERE user_id = ? AND product_id = ?`), userID, productID)
	if err != nil {
		return errors.Internal("Failed to unlike product", err)
	}
	if ok, err := affected(res); err != nil {
		return errors.Internal("Failed to unlike product", err)
	} else if !ok {
		return errors.NotFound("Like", nil)
	}
	return nil
}

func (r *sqlLikeRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	found, err := exists(ctx, r.db, r.db.Rebind(`SELECT 1 FROM likes WHERE user_id = ? AND product_id = ?`), userID, productID)
	if err != nil {
		return false, errors.Internal("Failed to check like", err)
	}
	return found, nil
}

func (r *sqlLikeRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Like, error) {
	var rows []likeRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT user_id, product_id, created_at FROM likes
		WHERE user_id = ? ORDER BY created_at DESC, product_id DESC`), userID)
	if err != nil {
		return nil, errors.Internal("Failed to list likes", err)
	}

	out := make([]*entity.Like, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Like{
			UserID:    row.UserID,
			ProductID: row.ProductID,
			CreatedAt: fromNanos(row.CreatedAt),
		})
	}
	return out, nil
}

func (r *sqlLikeRepository) RemoveByProduct(ctx context.Context, productID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM likes WHERE product_id = ?`), productID); err != nil {
		return errors.Internal("Failed to remove likes", err)
	}
	return nil
}
