package entity

import "time"

// Listing is a product as the backend stores and serves it.
type Listing struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	CategoryID     int       `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	SellerID       string    `json:"sellerId"`
	SellerNickname string    `json:"sellerNickname"`
	ImageURLs      []string  `json:"imageUrls"`
	Status         string    `json:"status"`
	LikeCount      int       `json:"likeCount"`
	IsWishlisted   bool      `json:"isWishlisted"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
