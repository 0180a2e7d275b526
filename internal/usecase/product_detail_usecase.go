package usecase

import (
	"context"
	"fmt"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/state/loader"
	"secondhand/pkg/errors"
)

type DetailView struct {
	Detail       entity.ProductDetail
	UsedFallback bool
	Superseded   bool
}

type ProductDetailUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	likes    *LikeUseCase
	notifier Notifier
	resource *loader.Resource[*entity.ProductDetail]

	// holds the single product on screen so like toggles reuse ProductList
	list *ProductList

	mu     sync.Mutex
	detail *entity.ProductDetail
}

func NewProductDetailUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, likes *LikeUseCase, notifier Notifier) *ProductDetailUseCase {
	return &ProductDetailUseCase{
		api:      api,
		catalog:  catalog,
		norm:     norm,
		likes:    likes,
		notifier: notifier,
		resource: loader.NewResource[*entity.ProductDetail]("product.detail"),
		list:     NewProductList(),
	}
}

// Load fetches a product, falling back to the mock catalog. A product found
// in neither yields a NOT_FOUND error.
func (u *ProductDetailUseCase) Load(ctx context.Context, id string) (DetailView, error) {
	res := u.resource.Load(ctx, loader.Source[*entity.ProductDetail]{
		Remote: func(ctx context.Context) (any, error) {
			return u.api.GetProduct(ctx, id)
		},
		Mock: func() (any, error) {
			return u.catalog.Product(id), nil
		},
		Normalize: u.norm.ProductDetail,
		Apply: func(detail *entity.ProductDetail, _ bool) {
			if detail == nil {
				return
			}
			u.mu.Lock()
			u.detail = detail
			u.mu.Unlock()
			u.list.Replace([]entity.Product{detail.Product})
		},
	})
	if res.Superseded {
		return DetailView{Superseded: true}, nil
	}
	if res.Data == nil {
		return DetailView{UsedFallback: res.UsedFallback}, errors.NotFound("product", res.RemoteErr)
	}
	return DetailView{Detail: *res.Data, UsedFallback: res.UsedFallback}, nil
}

// Current returns the loaded product with its latest like state.
func (u *ProductDetailUseCase) Current() (entity.ProductDetail, bool) {
	u.mu.Lock()
	detail := u.detail
	u.mu.Unlock()
	if detail == nil {
		return entity.ProductDetail{}, false
	}
	out := *detail
	if p, ok := u.list.Get(detail.Product.ID); ok {
		out.Product = p
	}
	return out, true
}

func (u *ProductDetailUseCase) currentID() (string, error) {
	d, ok := u.Current()
	if !ok {
		return "", errors.BadRequest("no product loaded", nil)
	}
	return d.Product.ID, nil
}

func (u *ProductDetailUseCase) ToggleWish(ctx context.Context) error {
	id, err := u.currentID()
	if err != nil {
		return err
	}
	return u.likes.Toggle(ctx, u.list, id)
}

// StartChat opens a chat room about the loaded product and returns its id.
func (u *ProductDetailUseCase) StartChat(ctx context.Context) (string, error) {
	id, err := u.currentID()
	if err != nil {
		return "", err
	}
	raw, err := u.api.CreateChatRoom(ctx, id)
	if err != nil {
		u.notifier.Notify(NoticeChatFailed)
		return "", fmt.Errorf("create chat room for %s: %w", id, err)
	}
	roomID := u.norm.RoomID(raw)
	if roomID == "" {
		u.notifier.Notify(NoticeChatFailed)
		return "", errors.Internal("chat room response carried no id", nil)
	}
	return roomID, nil
}

func (u *ProductDetailUseCase) Delete(ctx context.Context) error {
	id, err := u.currentID()
	if err != nil {
		return err
	}
	if err := u.api.DeleteProduct(ctx, id); err != nil {
		u.notifier.Notify(NoticeDeleteFailed)
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	u.mu.Lock()
	u.detail = nil
	u.mu.Unlock()
	u.list.Replace(nil)
	return nil
}
