package repository

import (
	"context"

	"secondhand/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// Upsert creates the user or replaces the stored record.
	Upsert(ctx context.Context, user *entity.User) error
}
