package repository

import (
	"context"
	"fmt"
	"time"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/normalizer"
	"secondhand/internal/domain/repository"
	"secondhand/internal/infrastructure/mockdata"
)

// Repositories groups the stores backing the reference server.
type Repositories struct {
	Listings repository.ListingRepository
	Likes    repository.LikeRepository
	Chats    repository.ChatRepository
	Users    repository.UserRepository
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Listings: NewMemoryListingRepository(),
		Likes:    NewMemoryLikeRepository(),
		Chats:    NewMemoryChatRepository(),
		Users:    NewMemoryUserRepository(),
	}
}

// IsEmpty reports whether no listing has been stored yet. A persistent store
// is only seeded on its first start.
func IsEmpty(ctx context.Context, repos *Repositories) (bool, error) {
	_, total, err := repos.Listings.List(ctx, repository.ListingFilter{}, 1, 0)
	if err != nil {
		return false, err
	}
	return total == 0, nil
}

// SeedFromCatalog loads the mock catalog into repos so the server starts
// with the same data the client falls back to. Chats are owned by userID,
// and the catalog's wishlisted products become userID's likes.
func SeedFromCatalog(ctx context.Context, catalog *mockdata.Catalog, userID string, repos *Repositories) error {
	norm := normalizer.New("", "")

	if err := repos.Users.Upsert(ctx, &entity.User{
		ID:                userID,
		Nickname:          "나",
		MannerTemperature: entity.DefaultMannerTemperature,
	}); err != nil {
		return err
	}

	for _, raw := range catalog.Products() {
		detail := norm.ProductDetail(raw)
		if detail == nil {
			continue
		}
		p := detail.Product

		if _, err := repos.Users.GetByID(ctx, p.SellerID); err != nil && p.SellerID != "" {
			seller := detail.Seller
			if err := repos.Users.Upsert(ctx, &seller); err != nil {
				return fmt.Errorf("seed seller %s: %w", p.SellerID, err)
			}
		}

		listing := &entity.Listing{
			ID:             p.ID,
			Title:          p.Title,
			Description:    p.Description,
			Price:          p.Price,
			CategoryName:   p.Category,
			SellerID:       p.SellerID,
			SellerNickname: p.SellerNickname,
			ImageURLs:      p.ImageURLs,
			Status:         string(p.Status),
			LikeCount:      p.LikeCount,
		}
		if c, ok := entity.CategoryByLabel(p.Category); ok {
			listing.CategoryID = c.ID
		}
		if p.CreatedAt != nil {
			listing.CreatedAt = *p.CreatedAt
			listing.UpdatedAt = *p.CreatedAt
		}
		if err := repos.Listings.Create(ctx, listing); err != nil {
			return fmt.Errorf("seed listing %s: %w", p.ID, err)
		}

		if p.IsWishlisted {
			if _, err := repos.Likes.Add(ctx, userID, p.ID); err != nil {
				return fmt.Errorf("seed like %s: %w", p.ID, err)
			}
		}
	}

	for i, raw := range catalog.ChatRooms() {
		summary := norm.ChatSummary(raw)
		peerID := fmt.Sprintf("peer-%d", i+1)
		room := &entity.ChatRoom{
			ID:             summary.ID,
			SellerID:       peerID,
			SellerNickname: summary.PeerNickname,
			BuyerID:        userID,
			BuyerNickname:  "나",
			LastMessage:    summary.LastMessage,
			UnreadCount:    map[string]int{userID: summary.UnreadCount},
		}
		if summary.LastMessageAt != nil {
			room.LastMessageAt = *summary.LastMessageAt
			room.CreatedAt = *summary.LastMessageAt
		}
		if err := repos.Chats.Create(ctx, room); err != nil {
			return fmt.Errorf("seed chat %s: %w", room.ID, err)
		}

		for _, msg := range norm.ChatMessages(catalog.RoomMessages(room.ID)) {
			sender := msg.SenderID
			if msg.IsMine() {
				sender = userID
			}
			createdAt := msg.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			if err := repos.Chats.CreateMessage(ctx, &entity.Message{
				ID:        msg.ID,
				RoomID:    room.ID,
				SenderID:  sender,
				Type:      string(msg.Type),
				Content:   msg.Content(),
				CreatedAt: createdAt,
			}); err != nil {
				return fmt.Errorf("seed message %s: %w", msg.ID, err)
			}
		}
	}
	return nil
}
