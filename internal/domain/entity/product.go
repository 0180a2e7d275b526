package entity

import (
	"time"
)

type ProductStatus string

const (
	StatusOnSale   ProductStatus = "ON_SALE"
	StatusReserved ProductStatus = "RESERVED"
	StatusSoldOut  ProductStatus = "SOLD_OUT"
)

// Product is the canonical listing every page renders, whatever shape the
// backend or the mock catalog delivered it in.
type Product struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Price          int64         `json:"price"`
	Category       string        `json:"category"`
	SellerNickname string        `json:"sellerNickname"`
	ImageURLs      []string      `json:"imageUrls"`
	Status         ProductStatus `json:"status"`
	LikeCount      int           `json:"likeCount"`
	IsWishlisted   bool          `json:"isWishlisted"`

	Description string     `json:"description,omitempty"`
	SellerID    string     `json:"sellerId,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Thumbnail is the primary image, or "" when the product has none.
func (p Product) Thumbnail() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

func (p Product) Available() bool {
	return p.Status == StatusOnSale
}

// ProductDetail is what the detail page needs on top of the product itself.
type ProductDetail struct {
	Product Product `json:"product"`
	Seller  User    `json:"seller"`
}
