package usecase

import (
	"context"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/observability"
	"secondhand/internal/state/loader"
	"secondhand/internal/state/unread"
)

type ChatListView struct {
	Chats        []entity.ChatSummary
	UnreadTotal  int
	UsedFallback bool
	Superseded   bool
}

// ChatListUseCase is the only writer of the unread store.
type ChatListUseCase struct {
	api      MarketAPI
	catalog  *mockdata.Catalog
	norm     *normalizer.Normalizer
	store    *unread.Store
	resource *loader.Resource[[]entity.ChatSummary]
}

func NewChatListUseCase(api MarketAPI, catalog *mockdata.Catalog, norm *normalizer.Normalizer, store *unread.Store) *ChatListUseCase {
	return &ChatListUseCase{
		api:      api,
		catalog:  catalog,
		norm:     norm,
		store:    store,
		resource: loader.NewResource[[]entity.ChatSummary]("chat.list"),
	}
}

// Load fetches the rooms and overwrites the unread total with their sum.
// The total is stored while the load is still the latest one, so unread
// store subscribers must not reload the chat list synchronously.
func (u *ChatListUseCase) Load(ctx context.Context) ChatListView {
	total := 0
	res := u.resource.Load(ctx, loader.Source[[]entity.ChatSummary]{
		Remote: u.api.ChatRooms,
		Mock: func() (any, error) {
			return u.catalog.ChatRooms(), nil
		},
		Normalize: u.norm.ChatSummaries,
		Apply: func(chats []entity.ChatSummary, _ bool) {
			for _, c := range chats {
				total += c.UnreadCount
			}
			u.store.Set(total)
			observability.SetUnread(total)
		},
	})
	if res.Superseded {
		return ChatListView{Superseded: true}
	}
	return ChatListView{Chats: res.Data, UnreadTotal: total, UsedFallback: res.UsedFallback}
}
