// Package mockdata serves the bundled catalog used when the backend cannot
// be reached, and to seed the reference backend. Values are returned in the
// raw shape the normalizer accepts.
package mockdata

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// WishlistLimit caps the wishlisted products shown on the home page.
const WishlistLimit = 4

type Catalog struct {
	products []map[string]any
	chats    []map[string]any
	messages map[string][]map[string]any
}

type document struct {
	Products []map[string]any            `yaml:"products"`
	Chats    []map[string]any            `yaml:"chats"`
	Messages map[string][]map[string]any `yaml:"messages"`
}

func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from disk, falling back to the bundled one when
// path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mock catalog: %w", err)
	}
	if doc.Messages == nil {
		doc.Messages = map[string][]map[string]any{}
	}
	return &Catalog{products: doc.Products, chats: doc.Chats, messages: doc.Messages}, nil
}

func toAny(items []map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (c *Catalog) Products() []any {
	return toAny(c.products)
}

// ProductsInCategory filters by the category label, e.g. "의류".
func (c *Catalog) ProductsInCategory(label string) []any {
	var out []map[string]any
	for _, p := range c.products {
		if str(p["category"]) == label {
			out = append(out, p)
		}
	}
	return toAny(out)
}

// ProductsBySeller matches the seller id given flat ("sellerId") or nested
// under "seller".
func (c *Catalog) ProductsBySeller(sellerID string) []any {
	var out []map[string]any
	for _, p := range c.products {
		id := str(p["sellerId"])
		if seller, ok := p["seller"].(map[string]any); ok && id == "" {
			id = str(seller["id"])
		}
		if id != "" && id == sellerID {
			out = append(out, p)
		}
	}
	return toAny(out)
}

// SearchProducts matches titles containing keyword, ignoring case.
func (c *Catalog) SearchProducts(keyword string) []any {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	var out []map[string]any
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(str(p["title"])), kw) {
			out = append(out, p)
		}
	}
	return toAny(out)
}

// Product returns nil when no product has the given id.
func (c *Catalog) Product(id string) any {
	for _, p := range c.products {
		if str(p["id"]) == id {
			return p
		}
	}
	return nil
}

func (c *Catalog) WishlistedProducts(limit int) []any {
	var out []map[string]any
	for _, p := range c.products {
		if liked, _ := p["isWishlisted"].(bool); liked {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return toAny(out)
}

func (c *Catalog) ChatRooms() []any {
	return toAny(c.chats)
}

func (c *Catalog) RoomMessages(roomID string) []any {
	return toAny(c.messages[roomID])
}
