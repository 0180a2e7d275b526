package repository

import (
	"context"

	"secondhand/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, room *entity.ChatRoom) error
	GetByID(ctx context.Context, id string) (*entity.ChatRoom, error)
	FindByProductAndBuyer(ctx context.Context, productID, buyerID string) (*entity.ChatRoom, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error)
	Update(ctx context.Context, room *entity.ChatRoom) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)
}
