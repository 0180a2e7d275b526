package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

type likeKey struct {
	userID    string
	productID string
}

type memoryLikeRepository struct {
	mu    sync.RWMutex
	likes map[likeKey]entity.Like
	now   func() time.Time
}

func NewMemoryLikeRepository() repository.LikeRepository {
	return &memoryLikeRepository{
		likes: make(map[likeKey]entity.Like),
		now:   time.Now,
	}
}

func (r *memoryLikeRepository) Add(ctx context.Context, userID, productID string) (*entity.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{userID, productID}
	if _, exists := r.likes[key]; exists {
		return nil, errors.Conflict("Product already liked")
	}
	like := entity.Like{UserID: userID, ProductID: productID, CreatedAt: r.now()}
	r.likes[key] = like
	return &like, nil
}

func (r *memoryLikeRepository) Remove(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{userID, productID}
	if _, exists := r.likes[key]; !exists {
		return errors.NotFound("Like", nil)
	}
	delete(r.likes, key)
	return nil
}

func (r *memoryLikeRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.likes[likeKey{userID, productID}]
	return exists, nil
}

func (r *memoryLikeRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Like, error) {
	r.mu.RLock()
	out := make([]*entity.Like, 0)
	for key, like := range r.likes {
		if key.userID != userID {
			continue
		}
		cp := like
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ProductID > out[j].ProductID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryLikeRepository) RemoveByProduct(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.likes {
		if key.productID == productID {
			delete(r.likes, key)
		}
	}
	return nil
}
