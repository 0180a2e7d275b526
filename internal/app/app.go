// Package app wires configuration, transport and the page use cases into one
// client session.
package app

import (
	"fmt"

	"secondhand/internal/adapter/marketapi"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/infrastructure/restclient"
	"secondhand/internal/state/unread"
	"secondhand/internal/usecase"
	"secondhand/pkg/config"
)

const userHeader = "X-User-Id"

type App struct {
	Config     *config.Config
	Client     *restclient.Client
	API        *marketapi.API
	Catalog    *mockdata.Catalog
	Normalizer *normalizer.Normalizer
	Unread     *unread.Store
	Notifier   usecase.Notifier

	Likes    *usecase.LikeUseCase
	Home     *usecase.HomeUseCase
	Category *usecase.CategoryUseCase
	Search   *usecase.SearchUseCase
	Detail   *usecase.ProductDetailUseCase
	Post     *usecase.ProductPostUseCase
	ChatList *usecase.ChatListUseCase
	ChatRoom *usecase.ChatRoomUseCase
	Profile  *usecase.ProfileUseCase
	Badge    *usecase.NavBadge
}

type Option func(*options)

type options struct {
	notifier      usecase.Notifier
	clientOptions []restclient.Option
}

func WithNotifier(n usecase.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

func WithClientOptions(opts ...restclient.Option) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{notifier: usecase.LogNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := mockdata.LoadFile(cfg.MockDataPath)
	if err != nil {
		return nil, fmt.Errorf("load mock data: %w", err)
	}

	clientOpts := append([]restclient.Option{restclient.WithHeader(userHeader, cfg.UserID)}, o.clientOptions...)
	client := restclient.New(cfg.BaseURL, clientOpts...)
	api := marketapi.New(client, cfg.UserID)
	norm := normalizer.New(cfg.BaseURL, cfg.UserID)
	store := unread.NewStore()
	likes := usecase.NewLikeUseCase(api, o.notifier)

	return &App{
		Config:     cfg,
		Client:     client,
		API:        api,
		Catalog:    catalog,
		Normalizer: norm,
		Unread:     store,
		Notifier:   o.notifier,

		Likes:    likes,
		Home:     usecase.NewHomeUseCase(api, catalog, norm, likes),
		Category: usecase.NewCategoryUseCase(api, catalog, norm, likes),
		Search:   usecase.NewSearchUseCase(api, catalog, norm, likes),
		Detail:   usecase.NewProductDetailUseCase(api, catalog, norm, likes, o.notifier),
		Post:     usecase.NewProductPostUseCase(api, norm, o.notifier),
		ChatList: usecase.NewChatListUseCase(api, catalog, norm, store),
		ChatRoom: usecase.NewChatRoomUseCase(api, catalog, norm, o.notifier),
		Profile:  usecase.NewProfileUseCase(api, catalog, norm, likes),
		Badge:    usecase.NewNavBadge(store),
	}, nil
}

func (a *App) Close() {
	a.Badge.Close()
}
