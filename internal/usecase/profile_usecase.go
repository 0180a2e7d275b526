package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
	"secondhand/pkg/errors"
)

type ProfileTab string

const (
	TabMine     ProfileTab = "my"
	TabWishlist ProfileTab = "wish"
)

// ParseProfileTab accepts the tab names and their on-screen labels.
func ParseProfileTab(s string) (ProfileTab, bool) {
	switch s {
	case string(TabMine), "내 상품":
		return TabMine, true
	case string(TabWishlist), "찜":
		return TabWishlist, true
	}
	return TabMine, false
}

// ParseStatusFilter accepts the status codes and their Korean labels.
func ParseStatusFilter(s string) (entity.ProductStatus, error) {
	switch s {
	case string(entity.StatusOnSale), "판매중":
		return entity.StatusOnSale, nil
	case string(entity.StatusReserved), "예약중":
		return entity.StatusReserved, nil
	case string(entity.StatusSoldOut), "판매완료":
		return entity.StatusSoldOut, nil
	}
	return "", errors.BadRequest(fmt.Sprintf("unknown status %q", s), nil)
}

type ProfileView struct {
	Tab    ProfileTab
	Status entity.ProductStatus
	Items  []entity.Product

	// counts ignore the status filter
	MineCount     int
	WishlistCount int

	UsedFallback bool
}

// ProfileUseCase drives the viewer's own page: the products they sell and
// the ones they liked, each narrowed to one status at a time.
type ProfileUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	likes    *LikeUseCase
	mine     *loader.Resource[[]entity.Product]
	wishlist *loader.Resource[[]entity.Product]

	mineList     *ProductList
	wishlistList *ProductList

	mu               sync.Mutex
	tab              ProfileTab
	status           entity.ProductStatus
	mineFallback     bool
	wishlistFallback bool
}

func NewProfileUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, likes *LikeUseCase) *ProfileUseCase {
	return &ProfileUseCase{
		api:          api,
		catalog:      catalog,
		norm:         norm,
		likes:        likes,
		mine:         loader.NewResource[[]entity.Product]("profile.mine"),
		wishlist:     loader.NewResource[[]entity.Product]("profile.wishlist"),
		mineList:     NewProductList(),
		wishlistList: NewProductList(),
		tab:          TabMine,
		status:       entity.StatusOnSale,
	}
}

// Load fetches both tabs concurrently.
func (u *ProfileUseCase) Load(ctx context.Context) ProfileView {
	userID := u.api.UserID()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u.mine.Load(gctx, loader.Source[[]entity.Product]{
			Remote: func(ctx context.Context) (any, error) {
				return u.api.SellerProducts(ctx, userID)
			},
			Mock: func() (any, error) {
				return u.catalog.ProductsBySeller(userID), nil
			},
			Normalize: u.norm.Products,
			Apply: func(items []entity.Product, usedFallback bool) {
				u.mineList.Replace(items)
				u.mu.Lock()
				u.mineFallback = usedFallback
				u.mu.Unlock()
			},
		})
		return nil
	})
	g.Go(func() error {
		u.wishlist.Load(gctx, loader.Source[[]entity.Product]{
			Remote: u.api.UserLikes,
			Mock: func() (any, error) {
				return u.catalog.WishlistedProducts(0), nil
			},
			Normalize: u.norm.LikedProducts,
			Apply: func(items []entity.Product, usedFallback bool) {
				u.wishlistList.Replace(items)
				u.mu.Lock()
				u.wishlistFallback = usedFallback
				u.mu.Unlock()
			},
		})
		return nil
	})
	g.Wait()

	return u.View()
}

func (u *ProfileUseCase) SetTab(tab ProfileTab) ProfileView {
	u.mu.Lock()
	u.tab = tab
	u.mu.Unlock()
	return u.View()
}

func (u *ProfileUseCase) SetStatus(status entity.ProductStatus) ProfileView {
	u.mu.Lock()
	u.status = status
	u.mu.Unlock()
	return u.View()
}

// View lists the active tab in the selected status. Products unliked since
// the last load drop out of the wishlist tab at once.
func (u *ProfileUseCase) View() ProfileView {
	u.mu.Lock()
	tab, status := u.tab, u.status
	fallback := u.mineFallback
	if tab == TabWishlist {
		fallback = u.wishlistFallback
	}
	u.mu.Unlock()

	mine := u.mineList.Items()
	wished := likedOnly(u.wishlistList.Items())
	source := mine
	if tab == TabWishlist {
		source = wished
	}

	items := make([]entity.Product, 0, len(source))
	for _, p := range source {
		if p.Status == status {
			items = append(items, p)
		}
	}
	return ProfileView{
		Tab:           tab,
		Status:        status,
		Items:         items,
		MineCount:     len(mine),
		WishlistCount: len(wished),
		UsedFallback:  fallback,
	}
}

func likedOnly(items []entity.Product) []entity.Product {
	out := items[:0]
	for _, p := range items {
		if p.IsWishlisted {
			out = append(out, p)
		}
	}
	return out
}

// ToggleLike toggles productID on the active tab and mirrors the outcome into
// the other tab when it shows the same product.
func (u *ProfileUseCase) ToggleLike(ctx context.Context, productID string) error {
	u.mu.Lock()
	tab := u.tab
	u.mu.Unlock()

	list, other := u.mineList, u.wishlistList
	if tab == TabWishlist {
		list, other = u.wishlistList, u.mineList
	}
	err := u.likes.Toggle(ctx, list, productID)
	if p, ok := list.Get(productID); ok {
		other.Update(productID, func(o *entity.Product) {
			o.IsWishlisted = p.IsWishlisted
			o.LikeCount = p.LikeCount
		})
	}
	return err
}
