package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondhand/internal/domain/entity"
	"secondhand/internal/state/loader"
	apperrors "secondhand/pkg/errors"
)

func newDetail(api *MockMarketAPI, notifier Notifier) *ProductDetailUseCase {
	return NewProductDetailUseCase(api, testCatalog(), testNormalizer(), NewLikeUseCase(api, notifier), notifier)
}

func TestDetailLoad_Remote(t *testing.T) {
	api := new(MockMarketAPI)
	uc := newDetail(api, &recordingNotifier{})
	api.On("GetProduct", mock.Anything, "5").Return(map[string]any{
		"id": "5", "title": "pen", "sellerId": "6", "sellerNickname": "writer", "status": "RESERVED",
	}, nil)

	view, err := uc.Load(context.Background(), "5")

	require.NoError(t, err)
	assert.False(t, view.UsedFallback)
	assert.Equal(t, "pen", view.Detail.Product.Title)
	assert.Equal(t, "writer", view.Detail.Seller.Nickname)
	assert.Equal(t, "mid", view.Detail.Seller.MannerLevel())
}

func TestDetailLoad_FallbackAndNotFound(t *testing.T) {
	api := new(MockMarketAPI)
	uc := newDetail(api, &recordingNotifier{})
	api.On("GetProduct", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	view, err := uc.Load(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, view.UsedFallback)
	assert.Equal(t, "만년필 세트", view.Detail.Product.Title)
	assert.Equal(t, 62.5, view.Detail.Seller.MannerTemperature)

	_, err = uc.Load(context.Background(), "999")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}

func TestDetailStartChat(t *testing.T) {
	api := new(MockMarketAPI)
	notifier := &recordingNotifier{}
	uc := newDetail(api, notifier)
	api.On("GetProduct", mock.Anything, "5").Return(map[string]any{"id": "5"}, nil)
	_, err := uc.Load(context.Background(), "5")
	require.NoError(t, err)

	api.On("CreateChatRoom", mock.Anything, "5").Return(map[string]any{"id": "r9"}, nil).Once()
	roomID, err := uc.StartChat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r9", roomID)

	api.On("CreateChatRoom", mock.Anything, "5").Return(nil, errors.New("conflict")).Once()
	_, err = uc.StartChat(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{NoticeChatFailed}, notifier.all())
}

func TestDetailToggleWishAndDelete(t *testing.T) {
	api := new(MockMarketAPI)
	notifier := &recordingNotifier{}
	uc := newDetail(api, notifier)
	api.On("GetProduct", mock.Anything, "5").Return(map[string]any{"id": "5", "likeCount": 2}, nil)
	api.On("Like", mock.Anything, "5").Return(nil)
	_, err := uc.Load(context.Background(), "5")
	require.NoError(t, err)

	require.NoError(t, uc.ToggleWish(context.Background()))
	current, ok := uc.Current()
	require.True(t, ok)
	assert.True(t, current.Product.IsWishlisted)
	assert.Equal(t, 3, current.Product.LikeCount)

	api.On("DeleteProduct", mock.Anything, "5").Return(errors.New("forbidden")).Once()
	require.Error(t, uc.Delete(context.Background()))
	assert.Equal(t, []string{NoticeDeleteFailed}, notifier.all())

	api.On("DeleteProduct", mock.Anything, "5").Return(nil).Once()
	require.NoError(t, uc.Delete(context.Background()))
	_, ok = uc.Current()
	assert.False(t, ok)
	assert.Error(t, uc.ToggleWish(context.Background()))
}

func TestDetailLoad_LoadStartedWhilePublishingWins(t *testing.T) {
	api := new(MockMarketAPI)
	uc := newDetail(api, &recordingNotifier{})
	api.On("GetProduct", mock.Anything, "5").Return(map[string]any{"id": "5", "title": "pen"}, nil)
	api.On("GetProduct", mock.Anything, "6").Return(map[string]any{"id": "6", "title": "lamp"}, nil)

	reloaded := false
	unsubscribe := uc.resource.Subscribe(func(s loader.Snapshot[*entity.ProductDetail]) {
		if !reloaded && s.Loaded && s.Data != nil && s.Data.Product.ID == "5" {
			reloaded = true
			_, err := uc.Load(context.Background(), "6")
			assert.NoError(t, err)
		}
	})
	defer unsubscribe()

	_, err := uc.Load(context.Background(), "5")
	require.NoError(t, err)

	require.True(t, reloaded)
	current, ok := uc.Current()
	require.True(t, ok)
	assert.Equal(t, "6", current.Product.ID)
	assert.Equal(t, "lamp", current.Product.Title)
}
