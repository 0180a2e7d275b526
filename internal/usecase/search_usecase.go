package usecase

import (
	"context"
	"strings"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
)

const maxRecentKeywords = 3

type SearchView struct {
	Keyword string
	Recent  []string
	ListView
}

type SearchUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	likes    *LikeUseCase
	resource *loader.Resource[[]entity.Product]
	list     *ProductList

	mu           sync.Mutex
	keyword      string
	recent       []string
	sort         SortMode
	usedFallback bool
}

func NewSearchUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, likes *LikeUseCase) *SearchUseCase {
	return &SearchUseCase{
		api:      api,
		catalog:  catalog,
		norm:     norm,
		likes:    likes,
		resource: loader.NewResource[[]entity.Product]("search"),
		list:     NewProductList(),
		sort:     SortPopular,
	}
}

// Search runs a keyword search. Blank keywords are ignored. A search that is
// overtaken by a newer one returns a Superseded view and changes nothing.
func (u *SearchUseCase) Search(ctx context.Context, keyword string) SearchView {
	q := strings.TrimSpace(keyword)
	if q == "" {
		return u.View()
	}
	u.remember(q)

	res := u.resource.Load(ctx, loader.Source[[]entity.Product]{
		Remote: func(ctx context.Context) (any, error) {
			return u.api.Search(ctx, q)
		},
		Mock: func() (any, error) {
			return u.catalog.SearchProducts(q), nil
		},
		Normalize: u.norm.Products,
		Apply: func(items []entity.Product, usedFallback bool) {
			u.list.Replace(items)
			u.mu.Lock()
			u.keyword = q
			u.usedFallback = usedFallback
			u.mu.Unlock()
		},
	})
	if res.Superseded {
		return SearchView{Keyword: q, Recent: u.Recent(), ListView: ListView{Superseded: true}}
	}
	return u.View()
}

func (u *SearchUseCase) remember(q string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	next := []string{q}
	for _, w := range u.recent {
		if w != q {
			next = append(next, w)
		}
	}
	if len(next) > maxRecentKeywords {
		next = next[:maxRecentKeywords]
	}
	u.recent = next
}

// Recent returns the last keywords, most recent first.
func (u *SearchUseCase) Recent() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.recent...)
}

func (u *SearchUseCase) SetSort(mode SortMode) SearchView {
	u.mu.Lock()
	u.sort = mode
	u.mu.Unlock()
	return u.View()
}

func (u *SearchUseCase) View() SearchView {
	u.mu.Lock()
	keyword, mode, fallback := u.keyword, u.sort, u.usedFallback
	recent := append([]string(nil), u.recent...)
	u.mu.Unlock()
	return SearchView{
		Keyword:  keyword,
		Recent:   recent,
		ListView: ListView{Items: ApplySort(u.list.Items(), mode), UsedFallback: fallback},
	}
}

func (u *SearchUseCase) ToggleLike(ctx context.Context, productID string) error {
	return u.likes.Toggle(ctx, u.list, productID)
}
