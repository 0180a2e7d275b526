package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
)

type HomeView struct {
	Recommended         []entity.Product
	Liked               []entity.Product
	RecommendedFallback bool
	LikedFallback       bool
}

// HomeUseCase drives the main page: recommended products and the viewer's
// liked list, each with its own fallback.
type HomeUseCase struct {
	api         MarketAPI
	catalog     *mockdata.Catalog
	norm        *normalizer.Normalizer
	likes       *LikeUseCase
	recommended *loader.Resource[[]entity.Product]
	liked       *loader.Resource[[]entity.Product]

	recommendedList *ProductList
	likedList       *ProductList
}

func NewHomeUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, likes *LikeUseCase) *HomeUseCase {
	return &HomeUseCase{
		api:             api,
		catalog:         catalog,
		norm:            norm,
		likes:           likes,
		recommended:     loader.NewResource[[]entity.Product]("home.recommended"),
		liked:           loader.NewResource[[]entity.Product]("home.liked"),
		recommendedList: NewProductList(),
		likedList:       NewProductList(),
	}
}

// Load fetches both lists concurrently.
func (u *HomeUseCase) Load(ctx context.Context) HomeView {
	var view HomeView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res := u.recommended.Load(gctx, loader.Source[[]entity.Product]{
			Remote: func(ctx context.Context) (any, error) {
				return u.api.ListProducts(ctx, 0, 0)
			},
			Mock: func() (any, error) {
				return u.catalog.Products(), nil
			},
			Normalize: u.norm.Products,
			Apply: func(items []entity.Product, _ bool) {
				u.recommendedList.Replace(items)
			},
		})
		if !res.Superseded {
			view.RecommendedFallback = res.UsedFallback
		}
		return nil
	})
	g.Go(func() error {
		res := u.liked.Load(gctx, loader.Source[[]entity.Product]{
			Remote: u.api.UserLikes,
			Mock: func() (any, error) {
				return u.catalog.WishlistedProducts(mockdata.WishlistLimit), nil
			},
			Normalize: u.norm.LikedProducts,
			Apply: func(items []entity.Product, _ bool) {
				u.likedList.Replace(items)
			},
		})
		if !res.Superseded {
			view.LikedFallback = res.UsedFallback
		}
		return nil
	})
	g.Wait()

	view.Recommended = u.recommendedList.Items()
	view.Liked = u.likedList.Items()
	return view
}

func (u *HomeUseCase) ToggleRecommended(ctx context.Context, productID string) error {
	return u.likes.Toggle(ctx, u.recommendedList, productID)
}

func (u *HomeUseCase) ToggleLiked(ctx context.Context, productID string) error {
	return u.likes.Toggle(ctx, u.likedList, productID)
}
