package service

import (
	"context"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/logger"
)

type LikeService struct {
	likes    repository.LikeRepository
	listings repository.ListingRepository
}

func NewLikeService(likes repository.LikeRepository, listings repository.ListingRepository) *LikeService {
	return &LikeService{likes: likes, listings: listings}
}

// Like records the like and bumps the listing's counter. The counter moves
// only after the like row exists, so concurrent likers each count once.
func (s *LikeService) Like(ctx context.Context, userID, productID string) error {
	if _, err := s.listings.GetByID(ctx, productID); err != nil {
		return err
	}
	if _, err := s.likes.Add(ctx, userID, productID); err != nil {
		return err
	}
	if _, err := s.listings.AdjustLikeCount(ctx, productID, 1); err != nil {
		if rmErr := s.likes.Remove(ctx, userID, productID); rmErr != nil {
			logger.Error("like %s/%s kept without counter: %v", userID, productID, rmErr)
		}
		return err
	}
	return nil
}

func (s *LikeService) Unlike(ctx context.Context, userID, productID string) error {
	if _, err := s.listings.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := s.likes.Remove(ctx, userID, productID); err != nil {
		return err
	}
	_, err := s.listings.AdjustLikeCount(ctx, productID, -1)
	return err
}

// UserLikes lists the user's liked products that still exist.
func (s *LikeService) UserLikes(ctx context.Context, userID string) ([]entity.LikedProduct, error) {
	likes, err := s.likes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LikedProduct, 0, len(likes))
	for _, like := range likes {
		listing, err := s.listings.GetByID(ctx, like.ProductID)
		if err != nil {
			continue
		}
		item := entity.LikedProduct{
			ProductID: listing.ID,
			Title:     listing.Title,
			Price:     listing.Price,
			Status:    listing.Status,
			LikeCount: listing.LikeCount,
		}
		if len(listing.ImageURLs) > 0 {
			item.ImageURL = listing.ImageURLs[0]
		}
		out = append(out, item)
	}
	return out, nil
}
