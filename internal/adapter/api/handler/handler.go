package handler

import (
	"secondhand/internal/domain/service"
)

var (
	productHandler *ProductHandler
	likeHandler    *LikeHandler
	chatHandler    *ChatHandler
	healthHandler  *HealthHandler
)

func Setup(
	catalogService *service.CatalogService,
	likeService *service.LikeService,
	chatService *service.ChatService,
) {
	productHandler = NewProductHandler(catalogService)
	likeHandler = NewLikeHandler(likeService)
	chatHandler = NewChatHandler(chatService)
	healthHandler = NewHealthHandler()
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetLikeHandler() *LikeHandler {
	return likeHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
