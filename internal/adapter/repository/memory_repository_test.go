package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

func TestListingRepository_CreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository()

	require.NoError(t, repo.Create(ctx, &entity.Listing{ID: "7", Title: "seeded"}))
	l := &entity.Listing{Title: "new"}
	require.NoError(t, repo.Create(ctx, l))
	assert.Equal(t, "8", l.ID)

	err := repo.Create(ctx, &entity.Listing{ID: "7"})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestListingRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository()
	for _, l := range []*entity.Listing{
		{ID: "1", Title: "Wool Cardigan", CategoryID: 1, SellerID: "a"},
		{ID: "2", Title: "cardigan oversized", CategoryID: 1, SellerID: "b"},
		{ID: "10", Title: "kettle", CategoryID: 3, SellerID: "a", Description: "barely used CARDIGAN-colored"},
	} {
		require.NoError(t, repo.Create(ctx, l))
	}

	all, total, err := repo.List(ctx, repository.ListingFilter{}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"10", "2", "1"}, ids(all))

	byCat, _, _ := repo.List(ctx, repository.ListingFilter{CategoryID: 1}, 0, 0)
	assert.Equal(t, []string{"2", "1"}, ids(byCat))

	found, _, _ := repo.List(ctx, repository.ListingFilter{Keyword: "cardigan"}, 0, 0)
	assert.Equal(t, []string{"10", "2", "1"}, ids(found))

	page, total, _ := repo.List(ctx, repository.ListingFilter{SellerID: "a"}, 1, 1)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"1"}, ids(page))

	empty, _, _ := repo.List(ctx, repository.ListingFilter{}, 5, 50)
	assert.Empty(t, empty)
}

func TestListingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository()
	require.NoError(t, repo.Create(ctx, &entity.Listing{ID: "1", ImageURLs: []string{"/a.jpg"}}))

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	got.ImageURLs[0] = "/changed.jpg"
	got.LikeCount = 99

	again, _ := repo.GetByID(ctx, "1")
	assert.Equal(t, "/a.jpg", again.ImageURLs[0])
	assert.Equal(t, 0, again.LikeCount)

	assert.True(t, errors.Is(repo.Update(ctx, &entity.Listing{ID: "2"}), "NOT_FOUND"))
	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.GetByID(ctx, "1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListingRepository_DeletedIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository()

	require.NoError(t, repo.Create(ctx, &entity.Listing{Title: "first"}))
	newest := &entity.Listing{Title: "newest"}
	require.NoError(t, repo.Create(ctx, newest))
	require.NoError(t, repo.Delete(ctx, newest.ID))

	next := &entity.Listing{Title: "next"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, "3", next.ID)
}

func TestListingRepository_AdjustLikeCount(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryListingRepository()
	require.NoError(t, repo.Create(ctx, &entity.Listing{ID: "1", Title: "popular", LikeCount: 3}))

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustLikeCount(ctx, "1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := repo.GetByID(ctx, "1")
	assert.Equal(t, 503, got.LikeCount)

	count, err := repo.AdjustLikeCount(ctx, "1", -1000)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	got.LikeCount = 42
	got.Title = "renamed"
	require.NoError(t, repo.Update(ctx, got))
	again, _ := repo.GetByID(ctx, "1")
	assert.Equal(t, "renamed", again.Title)
	assert.Equal(t, 0, again.LikeCount)

	_, err = repo.AdjustLikeCount(ctx, "404", 1)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestLikeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLikeRepository().(*memoryLikeRepository)
	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	_, err := repo.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", "p2")
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u2", "p1")
	require.NoError(t, err)

	_, err = repo.Add(ctx, "u1", "p1")
	assert.True(t, errors.Is(err, "CONFLICT"))

	likes, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, "p2", likes[0].ProductID)

	require.NoError(t, repo.RemoveByProduct(ctx, "p1"))
	ok, _ := repo.Exists(ctx, "u2", "p1")
	assert.False(t, ok)

	assert.True(t, errors.Is(repo.Remove(ctx, "u1", "p1"), "NOT_FOUND"))
	require.NoError(t, repo.Remove(ctx, "u1", "p2"))
}

func TestChatRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	t0 := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.ChatRoom{ID: "r1", ProductID: "1", SellerID: "s", BuyerID: "b", LastMessageAt: t0}))
	require.NoError(t, repo.Create(ctx, &entity.ChatRoom{ID: "r2", ProductID: "2", SellerID: "b", BuyerID: "x", LastMessageAt: t0.Add(time.Hour)}))

	rooms, err := repo.ListByUserID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "r2", rooms[0].ID)
	assert.Equal(t, "r1", rooms[1].ID)

	room, err := repo.FindByProductAndBuyer(ctx, "1", "b")
	require.NoError(t, err)
	assert.Equal(t, "r1", room.ID)
	_, err = repo.FindByProductAndBuyer(ctx, "1", "s")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	room.UnreadCount["s"] = 3
	fresh, _ := repo.GetByID(ctx, "r1")
	assert.Zero(t, fresh.UnreadCount["s"], "stored room must not alias the returned copy")

	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{ID: "m2", RoomID: "r1", CreatedAt: t0.Add(2 * time.Minute)}))
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{ID: "m1", RoomID: "r1", CreatedAt: t0.Add(time.Minute)}))
	msgs, err := repo.GetMessagesByChat(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "m1", msgs[0].ID)

	assert.True(t, errors.Is(repo.CreateMessage(ctx, &entity.Message{RoomID: "nope"}), "NOT_FOUND"))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	assert.True(t, errors.Is(repo.Upsert(ctx, &entity.User{}), "BAD_REQUEST"))
	require.NoError(t, repo.Upsert(ctx, &entity.User{ID: "1", Nickname: "a"}))
	require.NoError(t, repo.Upsert(ctx, &entity.User{ID: "1", Nickname: "b"}))
	u, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "b", u.Nickname)
}

func ids(items []*entity.Listing) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ID)
	}
	return out
}
