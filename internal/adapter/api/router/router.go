package router

import (
	"secondhand/internal/adapter/api/middleware"
	"secondhand/internal/infrastructure/ratelimit"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, limiter *ratelimit.Limiter) {
	api := e.Group("/api")
	api.Use(middleware.Identify)
	api.Use(middleware.WriteRateLimit(limiter))

	SetupProductRouter(api)
	SetupLikeRouter(api)
	SetupChatRouter(api)
	SetupHealthRouter(e)
}
