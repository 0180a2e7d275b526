package router

import (
	"secondhand/internal/adapter/api/handler"
	"secondhand/internal/observability"

	"github.com/labstack/echo/v4"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))
}
