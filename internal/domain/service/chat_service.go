package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

// RoomSummary is one row of GET /api/chatrooms/user/{userId}.
type RoomSummary struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	OtherUserID   string    `json:"otherUserId"`
	OtherNickname string    `json:"otherNickname"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

type ChatService struct {
	chats    repository.ChatRepository
	listings repository.ListingRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewChatService(chats repository.ChatRepository, listings repository.ListingRepository, users repository.UserRepository) *ChatService {
	return &ChatService{chats: chats, listings: listings, users: users, now: time.Now}
}

// CreateRoom opens a conversation between the buyer and the listing's
// seller, reusing an existing room for the same pair. created reports
// whether a new room was made.
func (s *ChatService) CreateRoom(ctx context.Context, productID, buyerID string) (*entity.ChatRoom, bool, error) {
	listing, err := s.listings.GetByID(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if listing.SellerID == buyerID {
		return nil, false, errors.BadRequest("cannot open a chat about your own listing", nil)
	}

	if room, err := s.chats.FindByProductAndBuyer(ctx, productID, buyerID); err == nil {
		return room, false, nil
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, false, err
	}

	now := s.now()
	room := &entity.ChatRoom{
		ID:             uuid.NewString(),
		ProductID:      productID,
		SellerID:       listing.SellerID,
		SellerNickname: listing.SellerNickname,
		BuyerID:        buyerID,
		BuyerNickname:  s.nickname(ctx, buyerID),
		LastMessageAt:  now,
		UnreadCount:    map[string]int{},
		CreatedAt:      now,
	}
	if err := s.chats.Create(ctx, room); err != nil {
		return nil, false, err
	}
	return room, true, nil
}

func (s *ChatService) ListRooms(ctx context.Context, userID string) ([]RoomSummary, error) {
	rooms, err := s.chats.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		otherID, otherNickname := room.PeerOf(userID)
		out = append(out, RoomSummary{
			ID:            room.ID,
			ProductID:     room.ProductID,
			OtherUserID:   otherID,
			OtherNickname: otherNickname,
			LastMessage:   room.LastMessage,
			LastMessageAt: room.LastMessageAt,
			UnreadCount:   room.UnreadCount[userID],
		})
	}
	return out, nil
}

// Messages returns the room history and marks it read for viewerID.
func (s *ChatService) Messages(ctx context.Context, roomID, viewerID string) ([]*entity.Message, error) {
	room, err := s.chats.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.chats.GetMessagesByChat(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if viewerID != "" && room.UnreadCount[viewerID] > 0 {
		room.UnreadCount[viewerID] = 0
		if err := s.chats.Update(ctx, room); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID, msgType, content string) (*entity.Message, error) {
	room, err := s.chats.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(senderID) {
		return nil, errors.New("FORBIDDEN", "sender is not a participant of this room", http.StatusForbidden, nil)
	}

	msg := &entity.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		SenderID:  senderID,
		Type:      msgType,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	room.LastMessage = preview(msg)
	room.LastMessageAt = msg.CreatedAt
	otherID, _ := room.PeerOf(senderID)
	if room.UnreadCount == nil {
		room.UnreadCount = map[string]int{}
	}
	room.UnreadCount[otherID]++
	if err := s.chats.Update(ctx, room); err != nil {
		return nil, err
	}
	return msg, nil
}

func preview(msg *entity.Message) string {
	switch entity.MessageType(msg.Type) {
	case entity.MessageImage:
		return "사진"
	case entity.MessageVideo:
		return "동영상"
	}
	return strings.TrimSpace(msg.Content)
}

func (s *ChatService) nickname(ctx context.Context, userID string) string {
	if u, err := s.users.GetByID(ctx, userID); err == nil && u.Nickname != "" {
		return u.Nickname
	}
	return "익명"
}
