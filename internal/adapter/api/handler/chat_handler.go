package handler

import (
	"secondhand/internal/adapter/api/middleware"
	"secondhand/internal/domain/service"
	"secondhand/pkg/errors"
	"secondhand/pkg/response"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type createRoomRequest struct {
	ProductID FlexibleID `json:"productId" validate:"required"`
	BuyerID   FlexibleID `json:"buyerId"`
}

type sendMessageRequest struct {
	SenderID FlexibleID `json:"senderId"`
	Type     string     `json:"type" validate:"omitempty,oneof=text image video"`
	Content  string     `json:"content" validate:"required"`
}

type createRoomResponse struct {
	RoomID    string `json:"roomId"`
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Created   bool   `json:"created"`
}

// CreateRoom opens or reuses the buyer's room about a product
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := req.BuyerID.String()
	if buyerID == "" {
		buyerID = middleware.UserID(c)
	}
	if buyerID == "" {
		return response.Error(c, errors.BadRequest("buyerid is required", nil))
	}

	room, created, err := h.chatService.CreateRoom(c.Request().Context(), req.ProductID.String(), buyerID)
	if err != nil {
		return response.Error(c, err)
	}

	body := createRoomResponse{RoomID: room.ID, ID: room.ID, ProductID: room.ProductID, Created: created}
	if created {
		return response.Created(c, body)
	}
	return response.Success(c, body)
}

func (h *ChatHandler) GetUserRooms(c echo.Context) error {
	rooms, err := h.chatService.ListRooms(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rooms)
}

func (h *ChatHandler) GetRoomMessages(c echo.Context) error {
	messages, err := h.chatService.Messages(c.Request().Context(), c.Param("roomId"), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	senderID := req.SenderID.String()
	if senderID == "" {
		senderID = middleware.UserID(c)
	}
	if senderID == "" {
		return response.Error(c, errors.BadRequest("senderid is required", nil))
	}
	if req.Type == "" {
		req.Type = "text"
	}

	msg, err := h.chatService.SendMessage(c.Request().Context(), c.Param("roomId"), senderID, req.Type, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}
