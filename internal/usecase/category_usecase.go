package usecase

import (
	"context"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
)

type ListView struct {
	Items        []entity.Product
	UsedFallback bool
	Superseded   bool
}

type CategoryView struct {
	Category entity.Category
	ListView
}

type CategoryUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	likes    *LikeUseCase
	resource *loader.Resource[[]entity.Product]
	list     *ProductList

	mu           sync.Mutex
	category     entity.Category
	sort         SortMode
	usedFallback bool
}

func NewCategoryUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, likes *LikeUseCase) *CategoryUseCase {
	return &CategoryUseCase{
		api:      api,
		catalog:  catalog,
		norm:     norm,
		likes:    likes,
		resource: loader.NewResource[[]entity.Product]("category"),
		list:     NewProductList(),
		category: entity.ResolveCategory(""),
		sort:     SortPopular,
	}
}

// Load resolves the route parameter and loads its products. When the
// backend fails the mock catalog is filtered by the category label.
func (u *CategoryUseCase) Load(ctx context.Context, param string) CategoryView {
	category := entity.ResolveCategory(param)

	res := u.resource.Load(ctx, loader.Source[[]entity.Product]{
		Remote: func(ctx context.Context) (any, error) {
			return u.api.ListByCategory(ctx, category.ID)
		},
		Mock: func() (any, error) {
			return u.catalog.ProductsInCategory(category.Label), nil
		},
		Normalize: u.norm.Products,
		Apply: func(items []entity.Product, usedFallback bool) {
			u.list.Replace(items)
			u.mu.Lock()
			u.category = category
			u.usedFallback = usedFallback
			u.mu.Unlock()
		},
	})
	if res.Superseded {
		return CategoryView{Category: category, ListView: ListView{Superseded: true}}
	}
	return u.View()
}

func (u *CategoryUseCase) SetSort(mode SortMode) CategoryView {
	u.mu.Lock()
	u.sort = mode
	u.mu.Unlock()
	return u.View()
}

// View renders the current collection in the selected sort mode.
func (u *CategoryUseCase) View() CategoryView {
	u.mu.Lock()
	category, mode, fallback := u.category, u.sort, u.usedFallback
	u.mu.Unlock()
	return CategoryView{
		Category: category,
		ListView: ListView{Items: ApplySort(u.list.Items(), mode), UsedFallback: fallback},
	}
}

func (u *CategoryUseCase) Loading() bool {
	return u.resource.Loading()
}

func (u *CategoryUseCase) ToggleLike(ctx context.Context, productID string) error {
	return u.likes.Toggle(ctx, u.list, productID)
}
