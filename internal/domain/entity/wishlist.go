package entity

import (
	"time"
)

type Like struct {
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedProduct is one row of GET /api/likes/user/{userId}.
type LikedProduct struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	Status    string `json:"status"`
	LikeCount int    `json:"likeCount"`
}
