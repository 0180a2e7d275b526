package handler

import (
	"secondhand/internal/adapter/api/middleware"
	"secondhand/internal/domain/service"
	"secondhand/pkg/errors"
	"secondhand/pkg/response"

	"github.com/labstack/echo/v4"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

type likeRequest struct {
	UserID    FlexibleID `json:"userId"`
	ProductID FlexibleID `json:"productId" validate:"required"`
}

func (h *LikeHandler) bind(c echo.Context) (string, string, error) {
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return "", "", errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return "", "", err
	}

	userID := req.UserID.String()
	if userID == "" {
		userID = middleware.UserID(c)
	}
	if userID == "" {
		return "", "", errors.BadRequest("userid is required", nil)
	}
	return userID, req.ProductID.String(), nil
}

func (h *LikeHandler) Like(c echo.Context) error {
	userID, productID, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.likeService.Like(c.Request().Context(), userID, productID); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"userId":    userID,
		"productId": productID,
	})
}

func (h *LikeHandler) Unlike(c echo.Context) error {
	userID, productID, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.likeService.Unlike(c.Request().Context(), userID, productID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

func (h *LikeHandler) GetUserLikes(c echo.Context) error {
	items, err := h.likeService.UserLikes(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}
