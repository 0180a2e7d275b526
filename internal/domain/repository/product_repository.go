package repository

import (
	"context"

	"secondhand/internal/domain/entity"
)

// ListingFilter narrows List; zero values match everything.
type ListingFilter struct {
	CategoryID int
	Keyword    string
	SellerID   string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	// Update stores the listing's fields except LikeCount, which only
	// AdjustLikeCount changes.
	Update(ctx context.Context, listing *entity.Listing) error
	// AdjustLikeCount adds delta to the like counter in one step, clamping at
	// zero, and returns the stored value.
	AdjustLikeCount(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id string) error
}
