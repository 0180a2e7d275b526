package entity

import "time"

// ChatSummary is one row of the chat list.
type ChatSummary struct {
	ID            string     `json:"id"`
	PeerNickname  string     `json:"peerNickname"`
	LastMessage   string     `json:"lastMessage"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	UnreadCount   int        `json:"unreadCount"`
}

// IsRead drives the dimmed "read" rendering of a room.
func (c ChatSummary) IsRead() bool {
	return c.UnreadCount == 0
}

// ChatRoom is the backend record of a conversation about one product.
type ChatRoom struct {
	ID             string         `json:"id"`
	ProductID      string         `json:"productId"`
	SellerID       string         `json:"sellerId"`
	BuyerID        string         `json:"buyerId"`
	SellerNickname string         `json:"sellerNickname"`
	BuyerNickname  string         `json:"buyerNickname"`
	LastMessage    string         `json:"lastMessage"`
	LastMessageAt  time.Time      `json:"lastMessageAt"`
	UnreadCount    map[string]int `json:"-"` // userID -> unread
	CreatedAt      time.Time      `json:"createdAt"`
}

func (r *ChatRoom) HasParticipant(userID string) bool {
	return r.SellerID == userID || r.BuyerID == userID
}

// PeerOf returns the id and nickname of the other participant.
func (r *ChatRoom) PeerOf(userID string) (string, string) {
	if r.SellerID == userID {
		return r.BuyerID, r.BuyerNickname
	}
	return r.SellerID, r.SellerNickname
}
