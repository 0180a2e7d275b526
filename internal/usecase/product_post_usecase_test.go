package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondhand/internal/adapter/marketapi"
	"secondhand/internal/infrastructure/restclient"
	apperrors "secondhand/pkg/errors"
)

func validForm() ProductForm {
	return ProductForm{
		Title:        "coat",
		Price:        25000,
		Description:  "warm",
		CategoryCode: "clothes",
		Images:       []restclient.File{{Name: "a.jpg", Content: []byte("a")}},
	}
}

func TestProductPost_CreateValidation(t *testing.T) {
	uc := NewProductPostUseCase(new(MockMarketAPI), testNormalizer(), &recordingNotifier{})

	tests := []struct {
		name   string
		mutate func(f *ProductForm)
	}{
		{"missing title", func(f *ProductForm) { f.Title = "" }},
		{"negative price", func(f *ProductForm) { f.Price = -1 }},
		{"unknown category", func(f *ProductForm) { f.CategoryCode = "cars" }},
		{"no images", func(f *ProductForm) { f.Images = nil }},
		{"too many images", func(f *ProductForm) { f.Images = make([]restclient.File, MaxProductImages+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := uc.Create(context.Background(), form)

			assert.True(t, apperrors.Is(err, "BAD_REQUEST"), "got %v", err)
		})
	}
}

func TestProductPost_Create(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewProductPostUseCase(api, testNormalizer(), &recordingNotifier{})
	form := validForm()
	api.On("CreateProduct", mock.Anything, marketapi.NewProduct{
		Title: "coat", Price: 25000, Description: "warm", CategoryID: 1, Images: form.Images,
	}).Return(map[string]any{"id": "77", "title": "coat", "imageUrls": []any{"/uploads/x.jpg"}}, nil)

	p, err := uc.Create(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "77", p.ID)
	assert.Equal(t, testBaseURL+"/uploads/x.jpg", p.Thumbnail())
}

func TestProductPost_CreateFailureNotifies(t *testing.T) {
	api := new(MockMarketAPI)
	notifier := &recordingNotifier{}
	uc := NewProductPostUseCase(api, testNormalizer(), notifier)
	api.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, errors.New("413"))

	_, err := uc.Create(context.Background(), validForm())

	require.Error(t, err)
	assert.Equal(t, []string{NoticeSaveFailed}, notifier.all())
}

func TestProductPost_EditFlow(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewProductPostUseCase(api, testNormalizer(), &recordingNotifier{})
	api.On("GetProduct", mock.Anything, "4").Return(map[string]any{
		"id": "4", "title": "book", "price": 12000, "categoryName": "도서 / 문구", "description": "used",
	}, nil)

	form, err := uc.LoadForEdit(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "books", form.CategoryCode)
	assert.Equal(t, int64(12000), form.Price)
	assert.Nil(t, form.Images)

	form.Price = 10000
	api.On("UpdateProduct", mock.Anything, "4", marketapi.ProductUpdate{Title: "book", Description: "used", Price: 10000}).
		Return(map[string]any{"id": "4", "title": "book", "price": 10000}, nil)

	p, err := uc.Update(context.Background(), "4", form)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), p.Price)
}

func TestProductPost_EditHasNoFallback(t *testing.T) {
	api := new(MockMarketAPI)
	uc := NewProductPostUseCase(api, testNormalizer(), &recordingNotifier{})
	api.On("GetProduct", mock.Anything, "4").Return(nil, &restclient.FetchError{Message: "refused"})

	_, err := uc.LoadForEdit(context.Background(), "4")

	var fe *restclient.FetchError
	assert.True(t, errors.As(err, &fe))
}
