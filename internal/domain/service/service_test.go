package service_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondhand/internal/adapter/repository"
	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/service"
	apperrors "secondhand/pkg/errors"
)

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	args := m.Called(ctx, filename, content)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

type fixture struct {
	repos   *repository.Repositories
	files   *MockFileStorage
	catalog *service.CatalogService
	likes   *service.LikeService
	chats   *service.ChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	require.NoError(t, repos.Users.Upsert(ctx, &entity.User{ID: "1", Nickname: "buyer"}))
	require.NoError(t, repos.Users.Upsert(ctx, &entity.User{ID: "2", Nickname: "seller", MannerTemperature: 55}))
	require.NoError(t, repos.Listings.Create(ctx, &entity.Listing{
		ID: "1", Title: "cardigan", CategoryID: 1, CategoryName: "의류",
		SellerID: "2", SellerNickname: "seller", Status: "ON_SALE", LikeCount: 3,
		ImageURLs: []string{"/uploads/a.jpg"},
	}))
	require.NoError(t, repos.Listings.Create(ctx, &entity.Listing{
		ID: "2", Title: "notes", CategoryID: 2, CategoryName: "도서 / 문구",
		SellerID: "1", SellerNickname: "buyer", Status: "ON_SALE",
	}))

	files := new(MockFileStorage)
	return &fixture{
		repos:   repos,
		files:   files,
		catalog: service.NewCatalogService(repos.Listings, repos.Likes, repos.Users, files),
		likes:   service.NewLikeService(repos.Likes, repos.Listings),
		chats:   service.NewChatService(repos.Chats, repos.Listings, repos.Users),
	}
}

func TestLikeService_LikeUnlikeAdjustsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.likes.Like(ctx, "1", "1"))
	l, _ := f.repos.Listings.GetByID(ctx, "1")
	assert.Equal(t, 4, l.LikeCount)

	err := f.likes.Like(ctx, "1", "1")
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	items, err := f.likes.UserLikes(ctx, "1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.LikedProduct{ProductID: "1", Title: "cardigan", ImageURL: "/uploads/a.jpg", Status: "ON_SALE", LikeCount: 4}, items[0])

	require.NoError(t, f.likes.Unlike(ctx, "1", "1"))
	l, _ = f.repos.Listings.GetByID(ctx, "1")
	assert.Equal(t, 3, l.LikeCount)

	assert.True(t, apperrors.Is(f.likes.Unlike(ctx, "1", "1"), "NOT_FOUND"))
	assert.True(t, apperrors.Is(f.likes.Like(ctx, "1", "404"), "NOT_FOUND"))
}

func TestCatalogService_WishlistIsPerViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.likes.Like(ctx, "1", "1"))

	items, total, err := f.catalog.ListProducts(ctx, "1", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "2", items[0].ID)
	assert.True(t, items[1].IsWishlisted)

	items, _, _ = f.catalog.ListProducts(ctx, "2", 0, 0)
	assert.False(t, items[1].IsWishlisted)

	detail, err := f.catalog.GetProduct(ctx, "1", "1")
	require.NoError(t, err)
	assert.True(t, detail.IsWishlisted)
	assert.Equal(t, "seller", detail.Seller.Nickname)
	assert.Equal(t, 55.0, detail.MannerTemperature)
}

func TestCatalogService_CategoryAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	items, err := f.catalog.ListByCategory(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "notes", items[0].Title)

	_, err = f.catalog.ListByCategory(ctx, "", 99)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	found, err := f.catalog.Search(ctx, "", "CARDI")
	require.NoError(t, err)
	require.Len(t, found, 1)

	blank, err := f.catalog.Search(ctx, "", "   ")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestCatalogService_ListBySeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.likes.Like(ctx, "1", "1"))

	mine, err := f.catalog.ListBySeller(ctx, "1", "1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "notes", mine[0].Title)

	theirs, err := f.catalog.ListBySeller(ctx, "1", "2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.True(t, theirs[0].IsWishlisted)

	none, err := f.catalog.ListBySeller(ctx, "1", "404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogService_CreateStoresImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.files.On("Save", mock.Anything, "a.png", mock.Anything).Return("/uploads/x.png", nil)
	f.files.On("Save", mock.Anything, "b.png", mock.Anything).Return("/uploads/y.png", nil)

	listing, err := f.catalog.CreateProduct(ctx, service.CreateListingInput{
		Title: "lamp", Price: 1000, CategoryID: 3, SellerID: "1",
		Images: []service.Upload{
			{Filename: "a.png", Content: strings.NewReader("a")},
			{Filename: "b.png", Content: strings.NewReader("b")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "3", listing.ID)
	assert.Equal(t, "가전 / 주방", listing.CategoryName)
	assert.Equal(t, "buyer", listing.SellerNickname)
	assert.Equal(t, []string{"/uploads/x.png", "/uploads/y.png"}, listing.ImageURLs)
	assert.Equal(t, "ON_SALE", listing.Status)
	f.files.AssertExpectations(t)
}

func TestCatalogService_CreateCleansUpOnStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.files.On("Save", mock.Anything, "a.png", mock.Anything).Return("/uploads/x.png", nil)
	f.files.On("Save", mock.Anything, "b.png", mock.Anything).Return("", assert.AnError)
	f.files.On("Delete", mock.Anything, "/uploads/x.png").Return(nil)

	_, err := f.catalog.CreateProduct(ctx, service.CreateListingInput{
		Title: "lamp", CategoryID: 3, SellerID: "1",
		Images: []service.Upload{
			{Filename: "a.png", Content: strings.NewReader("a")},
			{Filename: "b.png", Content: strings.NewReader("b")},
		},
	})
	assert.True(t, apperrors.Is(err, "INTERNAL_ERROR"))
	f.files.AssertExpectations(t)

	_, err = f.catalog.CreateProduct(ctx, service.CreateListingInput{Title: "x", CategoryID: 42})
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
}

func TestLikeService_ConcurrentLikesCountOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const users = 300
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			assert.NoError(t, f.likes.Like(ctx, uid, "1"))
		}(fmt.Sprintf("user-%d", i))
	}
	wg.Wait()

	l, err := f.repos.Listings.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 3+users, l.LikeCount)

	for i := 0; i < users; i += 2 {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			assert.NoError(t, f.likes.Unlike(ctx, uid, "1"))
		}(fmt.Sprintf("user-%d", i))
	}
	wg.Wait()

	l, _ = f.repos.Listings.GetByID(ctx, "1")
	assert.Equal(t, 3+users/2, l.LikeCount)
}

func TestCatalogService_OnlySellerModifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.UpdateProduct(ctx, "1", "1", service.UpdateListingInput{Title: "mine now"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	_, err = f.catalog.UpdateProduct(ctx, "", "1", service.UpdateListingInput{Title: "anonymous"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	err = f.catalog.DeleteProduct(ctx, "", "1")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	_, err = f.repos.Listings.GetByID(ctx, "1")
	require.NoError(t, err, "an anonymous delete must leave the listing in place")

	updated, err := f.catalog.UpdateProduct(ctx, "2", "1", service.UpdateListingInput{Title: "wool cardigan", Price: 15000})
	require.NoError(t, err)
	assert.Equal(t, "wool cardigan", updated.Title)
	assert.EqualValues(t, 15000, updated.Price)

	require.NoError(t, f.likes.Like(ctx, "1", "1"))
	f.files.On("Delete", mock.Anything, "/uploads/a.jpg").Return(nil)
	require.NoError(t, f.catalog.DeleteProduct(ctx, "2", "1"))
	_, err = f.repos.Listings.GetByID(ctx, "1")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
	liked, _ := f.repos.Likes.Exists(ctx, "1", "1")
	assert.False(t, liked)
	f.files.AssertExpectations(t)
}

func TestChatService_RoomLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, created, err := f.chats.CreateRoom(ctx, "1", "1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2", room.SellerID)
	assert.Equal(t, "buyer", room.BuyerNickname)

	again, created, err := f.chats.CreateRoom(ctx, "1", "1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, room.ID, again.ID)

	_, _, err = f.chats.CreateRoom(ctx, "2", "1")
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"), "sellers cannot chat about their own listing")

	_, err = f.chats.SendMessage(ctx, room.ID, "1", "text", "  still available?  ")
	require.NoError(t, err)
	_, err = f.chats.SendMessage(ctx, room.ID, "1", "image", "/uploads/p.jpg")
	require.NoError(t, err)
	_, err = f.chats.SendMessage(ctx, room.ID, "stranger", "text", "hi")
	assert.Error(t, err)

	sellerRooms, err := f.chats.ListRooms(ctx, "2")
	require.NoError(t, err)
	require.Len(t, sellerRooms, 1)
	assert.Equal(t, "buyer", sellerRooms[0].OtherNickname)
	assert.Equal(t, "사진", sellerRooms[0].LastMessage)
	assert.Equal(t, 2, sellerRooms[0].UnreadCount)

	msgs, err := f.chats.Messages(ctx, room.ID, "2")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "  still available?  ", msgs[0].Content)

	sellerRooms, _ = f.chats.ListRooms(ctx, "2")
	assert.Zero(t, sellerRooms[0].UnreadCount)

	buyerRooms, _ := f.chats.ListRooms(ctx, "1")
	assert.Equal(t, "seller", buyerRooms[0].OtherNickname)
	assert.Zero(t, buyerRooms[0].UnreadCount)
}
