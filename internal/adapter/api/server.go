// Package api hosts the reference marketplace backend: the REST surface the
// client talks to, backed by in-memory or SQL repositories seeded from the
// mock catalog.
package api

import (
	"context"
	"fmt"

	"secondhand/internal/adapter/api/handler"
	"secondhand/internal/adapter/api/router"
	"secondhand/internal/adapter/repository"
	"secondhand/internal/domain/service"
	"secondhand/internal/infrastructure/database"
	"secondhand/internal/infrastructure/mockdata"
	"secondhand/internal/infrastructure/ratelimit"
	"secondhand/internal/infrastructure/storage"
	"secondhand/internal/observability"
	"secondhand/pkg/config"
	"secondhand/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New builds the echo server with every route registered. catalog may be
// nil for an empty store.
func New(cfg *config.Config, catalog *mockdata.Catalog) (*echo.Echo, error) {
	ctx := context.Background()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		empty, err := repository.IsEmpty(ctx, repos)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("inspect store: %w", err)
		}
		if empty {
			if err := repository.SeedFromCatalog(ctx, catalog, cfg.UserID, repos); err != nil {
				closeStore()
				return nil, fmt.Errorf("seed repositories: %w", err)
			}
		}
	}

	fileStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		closeStore()
		return nil, err
	}

	catalogService := service.NewCatalogService(repos.Listings, repos.Likes, repos.Users, fileStorage)
	likeService := service.NewLikeService(repos.Likes, repos.Listings)
	chatService := service.NewChatService(repos.Chats, repos.Listings, repos.Users)

	handler.Setup(catalogService, likeService, chatService)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger.Std()
	e.Server.RegisterOnShutdown(closeStore)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(observability.HTTPMetricsMiddleware())

	e.Validator = NewValidator()

	router.Setup(e, ratelimit.NewLimiter(cfg.WriteRatePerMinute))

	e.Static("/uploads", cfg.UploadDir)

	logger.Info("reference backend ready (seed user %s, uploads in %s)", cfg.UserID, cfg.UploadDir)
	return e, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.Repositories, func(), error) {
	if cfg.StoreDriver == "" || cfg.StoreDriver == database.DriverMemory {
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using %s store", cfg.StoreDriver)
	return repository.NewSQLRepositories(db), func() {
		if err := db.Close(); err != nil {
			logger.Warn("close store: %v", err)
		}
	}, nil
}
