package repository

import (
	"context"
	"sort"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

type memoryChatRepository struct {
	mu       sync.RWMutex
	rooms    map[string]*entity.ChatRoom
	messages map[string][]*entity.Message
}

func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{
		rooms:    make(map[string]*entity.ChatRoom),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *memoryChatRepository) Create(ctx context.Context, room *entity.ChatRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; exists {
		return errors.Conflict("chat room " + room.ID + " already exists")
	}
	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	return cloneRoom(room), nil
}

func (r *memoryChatRepository) FindByProductAndBuyer(ctx context.Context, productID, buyerID string) (*entity.ChatRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.ProductID == productID && room.BuyerID == buyerID {
			return cloneRoom(room), nil
		}
	}
	return nil, errors.NotFound("Chat room", nil)
}

// ListByUserID returns the user's rooms, most recent activity first.
func (r *memoryChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	r.mu.RLock()
	out := make([]*entity.ChatRoom, 0)
	for _, room := range r.rooms {
		if room.HasParticipant(userID) {
			out = append(out, cloneRoom(room))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (r *memoryChatRepository) Update(ctx context.Context, room *entity.ChatRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; !ok {
		return errors.NotFound("Chat room", nil)
	}
	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *memoryChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[message.RoomID]; !ok {
		return errors.NotFound("Chat room", nil)
	}
	cp := *message
	r.messages[message.RoomID] = append(r.messages[message.RoomID], &cp)
	return nil
}

// GetMessagesByChat returns the history oldest first.
func (r *memoryChatRepository) GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rooms[chatID]; !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	stored := r.messages[chatID]
	out := make([]*entity.Message, 0, len(stored))
	for _, m := range stored {
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRoom(room *entity.ChatRoom) *entity.ChatRoom {
	cp := *room
	cp.UnreadCount = make(map[string]int, len(room.UnreadCount))
	for k, v := range room.UnreadCount {
		cp.UnreadCount[k] = v
	}
	return &cp
}
