// Package database opens the SQL store used by the reference backend when
// STORE_DRIVER selects one. SQLite runs in-process; Postgres is reached
// through lib/pq.
package database

import (
	"context"
	"fmt"

	"secondhand/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Connect opens driver at dsn, verifies the connection and applies the
// schema.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("store driver %s needs a DSN", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared and serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// Timestamps are stored as unix nanoseconds and JSON columns as TEXT so the
// same statements run on both drivers.
func migrate(ctx context.Context, db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			nickname TEXT NOT NULL,
			profile_image_url TEXT NOT NULL DEFAULT '',
			manner_temperature DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price BIGINT NOT NULL,
			category_id INTEGER NOT NULL,
			category_name TEXT NOT NULL,
			seller_id TEXT NOT NULL,
			seller_nickname TEXT NOT NULL,
			image_urls TEXT NOT NULL,
			status TEXT NOT NULL,
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_seq ON listings(seq DESC);`,
		// listing ids come from here so a deleted id is never handed out again
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value BIGINT NOT NULL
		);`,
		`INSERT INTO counters (name, value) VALUES ('listings', 0) ON CONFLICT (name) DO NOTHING;`,
		`UPDATE counters SET value = (SELECT COALESCE(MAX(seq), 0) FROM listings)
			WHERE name = 'listings' AND value < (SELECT COALESCE(MAX(seq), 0) FROM listings);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category_id);`,
		`CREATE TABLE IF NOT EXISTS likes (
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (user_id, product_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_likes_product ON likes(product_id);`,
		`CREATE TABLE IF NOT EXISTS chat_rooms (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			seller_id TEXT NOT NULL,
			buyer_id TEXT NOT NULL,
			seller_nickname TEXT NOT NULL,
			buyer_nickname TEXT NOT NULL,
			last_message TEXT NOT NULL DEFAULT '',
			last_message_at BIGINT NOT NULL DEFAULT 0,
			unread TEXT NOT NULL DEFAULT '{}',
			created_at BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_product_buyer ON chat_rooms(product_id, buyer_id);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
			sender_id TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_room ON chat_messages(room_id, created_at);`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	logger.Debug("database migrations applied")
	return nil
}
