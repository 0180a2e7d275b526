package repository

import (
	"context"

	"secondhand/internal/domain/entity"
)

type LikeRepository interface {
	// Add fails with CONFLICT when the like already exists.
	Add(ctx context.Context, userID, productID string) (*entity.Like, error)

	// Remove fails with NOT_FOUND when there is nothing to remove.
	Remove(ctx context.Context, userID, productID string) error

	Exists(ctx context.Context, userID, productID string) (bool, error)

	// ListByUser returns the user's likes, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Like, error)

	RemoveByProduct(ctx context.Context, productID string) error
}
