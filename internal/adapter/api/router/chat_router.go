package router

import (
	"secondhand/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupChatRouter(api *echo.Group) {
	chatHandler := handler.GetChatHandler()

	rooms := api.Group("/chatrooms")
	rooms.POST("", chatHandler.CreateRoom)                      // POST /api/chatrooms - open or reuse a room
	rooms.GET("/user/:userId", chatHandler.GetUserRooms)        // GET /api/chatrooms/user/:userId - room list
	rooms.GET("/:roomId/messages", chatHandler.GetRoomMessages) // GET /api/chatrooms/:roomId/messages - history
	rooms.POST("/:roomId/messages", chatHandler.SendMessage)    // POST /api/chatrooms/:roomId/messages - send
}
