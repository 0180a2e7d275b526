package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"secondhand/internal/adapter/marketapi"
	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/infrastructure/restclient"
	"secondhand/pkg/errors"
	"secondhand/pkg/response"
)

const MaxProductImages = 5

type ProductForm struct {
	Title        string            `validate:"required,max=100"`
	Price        int64             `validate:"gte=0"`
	Description  string            `validate:"max=2000"`
	CategoryCode string            `validate:"required,oneof=clothes books appliances helper"`
	Images       []restclient.File `validate:"required,min=1,max=5"`
}

type ProductPostUseCase struct {
	api      MarketAPI
	norm     *normalizer.Normalizer
	notifier Notifier
	validate *validator.Validate
}

func NewProductPostUseCase(api MarketAPI, norm *normalizer.Normalizer, notifier Notifier) *ProductPostUseCase {
	return &ProductPostUseCase{
		api:      api,
		norm:     norm,
		notifier: notifier,
		validate: validator.New(),
	}
}

func (u *ProductPostUseCase) check(err error) error {
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		return errors.BadRequest(response.ValidationMessage(verrs), err)
	}
	return errors.BadRequest("invalid product form", err)
}

// Create uploads a new listing with its images.
func (u *ProductPostUseCase) Create(ctx context.Context, form ProductForm) (entity.Product, error) {
	if err := u.check(u.validate.Struct(form)); err != nil {
		return entity.Product{}, err
	}
	category, _ := entity.CategoryByCode(form.CategoryCode)

	raw, err := u.api.CreateProduct(ctx, marketapi.NewProduct{
		Title:       form.Title,
		Price:       form.Price,
		Description: form.Description,
		CategoryID:  category.ID,
		Images:      form.Images,
	})
	if err != nil {
		u.notifier.Notify(NoticeSaveFailed)
		return entity.Product{}, fmt.Errorf("create product: %w", err)
	}
	return u.norm.Product(raw), nil
}

// LoadForEdit fetches the product to edit. There is no mock fallback: editing
// mock data would be meaningless.
func (u *ProductPostUseCase) LoadForEdit(ctx context.Context, id string) (ProductForm, error) {
	raw, err := u.api.GetProduct(ctx, id)
	if err != nil {
		return ProductForm{}, fmt.Errorf("load product %s: %w", id, err)
	}
	p := u.norm.Product(raw)
	if p.ID == "" {
		return ProductForm{}, errors.NotFound("product", nil)
	}
	form := ProductForm{
		Title:        p.Title,
		Price:        p.Price,
		Description:  p.Description,
		CategoryCode: entity.DefaultCategoryCode,
	}
	if c, ok := entity.CategoryByLabel(p.Category); ok {
		form.CategoryCode = c.Code
	}
	return form, nil
}

// Update saves title, description and price; images are not editable.
func (u *ProductPostUseCase) Update(ctx context.Context, id string, form ProductForm) (entity.Product, error) {
	if err := u.check(u.validate.StructExcept(form, "Images")); err != nil {
		return entity.Product{}, err
	}
	raw, err := u.api.UpdateProduct(ctx, id, marketapi.ProductUpdate{
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
	})
	if err != nil {
		u.notifier.Notify(NoticeSaveFailed)
		return entity.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return u.norm.Product(raw), nil
}
