package handler

import (
	"mime/multipart"
	"strconv"

	"secondhand/internal/adapter/api/middleware"
	"secondhand/internal/domain/service"
	"secondhand/pkg/errors"
	"secondhand/pkg/logger"
	"secondhand/pkg/response"
	"secondhand/pkg/utils"

	"github.com/labstack/echo/v4"
)

const maxUploadImages = 5

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

type createProductRequest struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"max=2000"`
	Price       int64  `form:"price" validate:"gte=0"`
	CategoryID  int    `form:"categoryId" validate:"required,min=1"`
	SellerID    string `form:"sellerId"`
}

type updateProductRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"gte=0"`
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	if sellerID := c.QueryParam("sellerId"); sellerID != "" {
		items, err := h.catalogService.ListBySeller(c.Request().Context(), middleware.UserID(c), sellerID)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, items)
	}

	pagination := utils.GetPaginationParams(c)

	items, _, err := h.catalogService.ListProducts(
		c.Request().Context(),
		middleware.UserID(c),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ProductHandler) ListByCategory(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid category ID", err))
	}

	items, err := h.catalogService.ListByCategory(c.Request().Context(), middleware.UserID(c), categoryID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	items, err := h.catalogService.Search(c.Request().Context(), middleware.UserID(c), c.QueryParam("keyword"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	detail, err := h.catalogService.GetProduct(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ProductHandler) CreateProductWithUpload(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid form data", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if uid := middleware.UserID(c); uid != "" {
		req.SellerID = uid
	}
	if req.SellerID == "" {
		return response.Error(c, errors.BadRequest("sellerid is required", nil))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}
	files := form.File["images"]
	if len(files) == 0 {
		return response.Error(c, errors.BadRequest("images is required", nil))
	}
	if len(files) > maxUploadImages {
		return response.Error(c, errors.BadRequest("images must be at most "+strconv.Itoa(maxUploadImages), nil))
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll(uploads)
			return response.Error(c, errors.BadRequest("Unreadable image "+fh.Filename, err))
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Content: f})
	}
	defer closeAll(uploads)

	listing, err := h.catalogService.CreateProduct(c.Request().Context(), service.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SellerID:    req.SellerID,
		Images:      uploads,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func closeAll(uploads []service.Upload) {
	for _, u := range uploads {
		if f, ok := u.Content.(multipart.File); ok {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close upload %s: %v", u.Filename, err)
			}
		}
	}
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id := c.Param("id")

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.catalogService.UpdateProduct(
		c.Request().Context(),
		middleware.UserID(c),
		id,
		service.UpdateListingInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
		},
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalogService.DeleteProduct(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
