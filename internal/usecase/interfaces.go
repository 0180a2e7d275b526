package usecase

import (
	"context"

	"secondhand/internal/adapter/marketapi"
	"secondhand/pkg/logger"
)

// MarketAPI is the backend as the pages see it; *marketapi.API implements it.
type MarketAPI interface {
	UserID() string

	ListProducts(ctx context.Context, page, size int) (any, error)
	SellerProducts(ctx context.Context, sellerID string) (any, error)
	ListByCategory(ctx context.Context, categoryID int) (any, error)
	Search(ctx context.Context, keyword string) (any, error)
	GetProduct(ctx context.Context, id string) (any, error)
	CreateProduct(ctx context.Context, p marketapi.NewProduct) (any, error)
	UpdateProduct(ctx context.Context, id string, u marketapi.ProductUpdate) (any, error)
	DeleteProduct(ctx context.Context, id string) error

	Like(ctx context.Context, productID string) error
	Unlike(ctx context.Context, productID string) error
	UserLikes(ctx context.Context) (any, error)

	ChatRooms(ctx context.Context) (any, error)
	CreateChatRoom(ctx context.Context, productID string) (any, error)
	RoomMessages(ctx context.Context, roomID string) (any, error)
	SendMessage(ctx context.Context, roomID, msgType, content string) (any, error)
}

// Notifier surfaces a blocking, user-visible failure notice.
type Notifier interface {
	Notify(message string)
}

type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	logger.Warn("notice: %s", message)
}

const (
	NoticeWishlistFailed = "Failed to update wishlist. Please try again later."
	NoticeChatFailed     = "Failed to start chat. Please try again later."
	NoticeSendFailed     = "Failed to send message."
	NoticeDeleteFailed   = "Failed to delete product. Please try again later."
	NoticeSaveFailed     = "Failed to save product. Please try again later."
)
