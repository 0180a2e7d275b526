package router

import (
	"secondhand/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupLikeRouter(api *echo.Group) {
	likeHandler := handler.GetLikeHandler()

	likes := api.Group("/likes")
	likes.POST("", likeHandler.Like)                     // POST /api/likes - like a product
	likes.DELETE("", likeHandler.Unlike)                 // DELETE /api/likes - remove a like
	likes.GET("/user/:userId", likeHandler.GetUserLikes) // GET /api/likes/user/:userId - liked products
}
