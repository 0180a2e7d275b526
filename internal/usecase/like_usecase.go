package usecase

import (
	"context"
	"fmt"

	"secondhand/internal/domain/entity"
	"secondhand/internal/state/optimistic"
	"secondhand/pkg/errors"
)

// LikeUseCase toggles the viewer's like on a product. It is shared by every
// page so toggles of one product are serialized no matter where they start.
type LikeUseCase struct {
	api      MarketAPI
	notifier Notifier
	mutator  *optimistic.Mutator
}

func NewLikeUseCase(api MarketAPI, notifier Notifier) *LikeUseCase {
	return &LikeUseCase{
		api:      api,
		notifier: notifier,
		mutator:  optimistic.New("likes"),
	}
}

func (u *LikeUseCase) Phase(productID string) optimistic.Phase {
	return u.mutator.Phase(productID)
}

// Toggle flips IsWishlisted and moves LikeCount by one, then commits. On
// failure the exact previous pair is restored and the user is notified.
func (u *LikeUseCase) Toggle(ctx context.Context, list *ProductList, productID string) error {
	if _, ok := list.Get(productID); !ok {
		return errors.NotFound("product", nil)
	}

	var (
		prevLiked bool
		prevCount int
		nowLiked  bool
		found     bool
	)
	err := u.mutator.Mutate(ctx, productID, optimistic.Change{
		Apply: func() {
			found = list.Update(productID, func(p *entity.Product) {
				prevLiked, prevCount = p.IsWishlisted, p.LikeCount
				nowLiked = !p.IsWishlisted
				p.IsWishlisted = nowLiked
				if nowLiked {
					p.LikeCount++
				} else if p.LikeCount > 0 {
					p.LikeCount--
				}
			})
		},
		Commit: func(ctx context.Context) error {
			if !found {
				return errors.NotFound("product", nil)
			}
			if nowLiked {
				return u.api.Like(ctx, productID)
			}
			return u.api.Unlike(ctx, productID)
		},
		Rollback: func(error) {
			list.Update(productID, func(p *entity.Product) {
				p.IsWishlisted, p.LikeCount = prevLiked, prevCount
			})
			u.notifier.Notify(NoticeWishlistFailed)
		},
	})
	if err != nil {
		return fmt.Errorf("toggle like on %s: %w", productID, err)
	}
	return nil
}
