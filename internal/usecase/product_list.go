package usecase

import (
	"sync"

	"secondhand/internal/domain/entity"
)

// ProductList is a page-owned collection that like toggles mutate in place.
type ProductList struct {
	mu    sync.RWMutex
	items []entity.Product
}

func NewProductList(items ...entity.Product) *ProductList {
	l := &ProductList{}
	l.Replace(items)
	return l
}

func (l *ProductList) Replace(items []entity.Product) {
	cp := make([]entity.Product, len(items))
	copy(cp, items)
	l.mu.Lock()
	l.items = cp
	l.mu.Unlock()
}

func (l *ProductList) Items() []entity.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entity.Product, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ProductList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *ProductList) Get(id string) (entity.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.items {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Update applies fn to every entry with the given id and reports whether one
// was found.
func (l *ProductList) Update(id string, fn func(p *entity.Product)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for i := range l.items {
		if l.items[i].ID == id {
			fn(&l.items[i])
			found = true
		}
	}
	return found
}
