package repository

import (
	"context"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{users: make(map[string]entity.User)}
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &user, nil
}

func (r *memoryUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		return errors.BadRequest("user id is required", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = *user
	return nil
}
