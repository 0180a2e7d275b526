package repository

import (
	"context"
	"database/sql"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type sqlUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) repository.UserRepository {
	return &sqlUserRepository{db: db}
}

func (r *sqlUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`SELECT id, nickname, profile_image_url, manner_temperature
		FROM users WHERE id = ?`), id).
		Scan(&user.ID, &user.Nickname, &user.ProfileImageURL, &user.MannerTemperature)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get user", err)
	}
	return &user, nil
}

func (r *sqlUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return errors.BadRequest("user id is required", nil)
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO users (id, nickname, profile_image_url, manner_temperature)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			nickname = excluded.nickname,
			profile_image_url = excluded.profile_image_url,
			manner_temperature = excluded.manner_temperature`),
		user.ID, user.Nickname, user.ProfileImageURL, user.MannerTemperature)
	if err != nil {
		return errors.Internal("Failed to save user", err)
	}
	return nil
}
