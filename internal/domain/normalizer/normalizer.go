// Package normalizer maps the payload shapes served by the backend, its
// older variants and the bundled mock catalog onto the canonical entities.
// Every function is total: unknown or malformed input degrades to defaults.
package normalizer

import (
	"strings"

	"secondhand/internal/domain/entity"
)

const AnonymousNickname = "익명"

var koreanStatus = map[string]entity.ProductStatus{
	"판매중":  entity.StatusOnSale,
	"예약중":  entity.StatusReserved,
	"판매완료": entity.StatusSoldOut,
}

type Normalizer struct {
	baseURL string
	selfID  string
}

// New creates a normalizer resolving relative image paths against baseURL
// and rewriting senderId selfID to the "me" sentinel.
func New(baseURL, selfID string) *Normalizer {
	return &Normalizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		selfID:  selfID,
	}
}

func (n *Normalizer) BaseURL() string {
	return n.baseURL
}

func NormalizeStatus(v any) entity.ProductStatus {
	s := asString(v)
	switch entity.ProductStatus(s) {
	case entity.StatusOnSale, entity.StatusReserved, entity.StatusSoldOut:
		return entity.ProductStatus(s)
	}
	if st, ok := koreanStatus[s]; ok {
		return st
	}
	return entity.StatusOnSale
}

// ResolveImageURL leaves absolute URLs alone and prefixes anything else with
// the base URL. With an empty base URL paths are kept root-relative.
func (n *Normalizer) ResolveImageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	for _, prefix := range []string{"http://", "https://", "//", "data:", "blob:"} {
		if strings.HasPrefix(lower, prefix) {
			return path
		}
	}
	return n.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (n *Normalizer) images(m map[string]any) []string {
	out := []string{}
	v, ok := first(m, "imageUrls", "images", "imageUrl", "thumbnail", "img")
	if !ok {
		return out
	}
	items := asSlice(v)
	if items == nil {
		items = []any{v}
	}
	for _, item := range items {
		raw := asString(item)
		if raw == "" {
			raw = firstString(asMap(item), "url", "imageUrl", "path")
		}
		if url := n.ResolveImageURL(raw); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func categoryLabel(m map[string]any) string {
	if label := firstString(m, "categoryName", "category.name", "category.label", "category", "categoryLabel"); label != "" {
		return label
	}
	if id, ok := firstInt(m, "categoryId", "category.id"); ok {
		if c, ok := entity.CategoryByID(int(id)); ok {
			return c.Label
		}
	}
	return ""
}

func (n *Normalizer) Product(raw any) entity.Product {
	m := asMap(raw)
	p := entity.Product{
		ID:             firstString(m, "id", "productId", "product_id"),
		Title:          firstString(m, "title", "name", "productName"),
		Category:       categoryLabel(m),
		SellerNickname: firstString(m, "sellerNickname", "seller.nickname", "seller", "nickname"),
		ImageURLs:      n.images(m),
		Description:    firstString(m, "description", "content"),
		SellerID:       firstString(m, "sellerId", "seller.id", "seller_id"),
	}
	if p.SellerNickname == "" {
		p.SellerNickname = AnonymousNickname
	}

	status, _ := first(m, "status", "saleStatus")
	p.Status = NormalizeStatus(status)

	if price, ok := firstInt(m, "price"); ok {
		p.Price = clampNonNegative(price)
	}
	if likes, ok := firstInt(m, "likeCount", "likes", "wishCount", "likesCount"); ok {
		p.LikeCount = int(clampNonNegative(likes))
	}
	if liked, ok := first(m, "isWishlisted", "liked", "isLiked", "wishlisted"); ok {
		p.IsWishlisted = asBool(liked)
	}
	if v, ok := first(m, "createdAt", "created_at"); ok {
		p.CreatedAt = asTime(v)
	}
	return p
}

func (n *Normalizer) Products(raw any) []entity.Product {
	items := listOf(raw)
	out := make([]entity.Product, 0, len(items))
	for _, item := range items {
		out = append(out, n.Product(item))
	}
	return out
}

// LikedProduct maps a row of the user's likes. Older backends send no status
// there, which reads as on sale. The row is wishlisted by definition.
func (n *Normalizer) LikedProduct(raw any) entity.Product {
	p := n.Product(raw)
	p.IsWishlisted = true
	return p
}

func (n *Normalizer) LikedProducts(raw any) []entity.Product {
	items := listOf(raw)
	out := make([]entity.Product, 0, len(items))
	for _, item := range items {
		out = append(out, n.LikedProduct(item))
	}
	return out
}

// ProductDetail returns nil when raw is not an object, which callers treat as
// "not found".
func (n *Normalizer) ProductDetail(raw any) *entity.ProductDetail {
	m := asMap(raw)
	if m == nil {
		return nil
	}
	product := n.Product(m)

	var seller entity.User
	if sm := asMap(m["seller"]); sm != nil {
		seller = n.User(sm)
	} else {
		seller = n.User(map[string]any{
			"id":                m["sellerId"],
			"nickname":          m["sellerNickname"],
			"profileImageUrl":   m["sellerProfileImageUrl"],
			"mannerTemperature": m["mannerTemperature"],
		})
	}
	if seller.ID == "" {
		seller.ID = product.SellerID
	}
	if seller.Nickname == AnonymousNickname && product.SellerNickname != AnonymousNickname {
		seller.Nickname = product.SellerNickname
	}
	return &entity.ProductDetail{Product: product, Seller: seller}
}

func (n *Normalizer) User(raw any) entity.User {
	m := asMap(raw)
	u := entity.User{
		ID:                firstString(m, "id", "userId", "user_id"),
		Nickname:          firstString(m, "nickname", "name", "sellerNickname"),
		ProfileImageURL:   n.ResolveImageURL(firstString(m, "profileImageUrl", "profileImage", "avatar")),
		MannerTemperature: entity.DefaultMannerTemperature,
	}
	if u.Nickname == "" {
		u.Nickname = AnonymousNickname
	}
	if v, ok := first(m, "mannerTemperature", "manner", "temperature"); ok {
		if t, ok := asFloat(v); ok {
			u.MannerTemperature = clampTemperature(t)
		}
	}
	return u
}

func clampTemperature(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 100:
		return 100
	}
	return t
}

// listOf accepts a bare array or a paged envelope.
func listOf(raw any) []any {
	if items := asSlice(raw); items != nil {
		return items
	}
	if m := asMap(raw); m != nil {
		if v, ok := first(m, "content", "items", "data"); ok {
			return asSlice(v)
		}
	}
	return nil
}
