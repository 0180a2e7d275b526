package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
)

type memoryListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*entity.Listing
	lastID   int
}

func NewMemoryListingRepository() repository.ListingRepository {
	return &memoryListingRepository{listings: make(map[string]*entity.Listing)}
}

// Create assigns the next numeric id when listing.ID is empty.
func (r *memoryListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		r.lastID++
		listing.ID = strconv.Itoa(r.lastID)
	} else if n, err := strconv.Atoi(listing.ID); err == nil && n > r.lastID {
		r.lastID = n
	}
	if _, exists := r.listings[listing.ID]; exists {
		return errors.Conflict("listing " + listing.ID + " already exists")
	}

	r.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return cloneListing(listing), nil
}

// List returns matches newest first. A non-positive limit returns everything.
func (r *memoryListingRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.mu.RLock()
	matched := make([]*entity.Listing, 0, len(r.listings))
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	for _, l := range r.listings {
		if filter.CategoryID != 0 && l.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SellerID != "" && l.SellerID != filter.SellerID {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(l.Title), keyword) &&
			!strings.Contains(strings.ToLower(l.Description), keyword) {
			continue
		}
		matched = append(matched, cloneListing(l))
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return numericID(matched[i].ID) > numericID(matched[j].ID)
	})

	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	if offset < 0 {
		offset = 0
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *memoryListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[listing.ID]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	cp := cloneListing(listing)
	cp.LikeCount = stored.LikeCount
	r.listings[listing.ID] = cp
	return nil
}

func (r *memoryListingRepository) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[id]
	if !ok {
		return 0, errors.NotFound("Product", nil)
	}
	stored.LikeCount += delta
	if stored.LikeCount < 0 {
		stored.LikeCount = 0
	}
	return stored.LikeCount, nil
}

func (r *memoryListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return errors.NotFound("Product", nil)
	}
	delete(r.listings, id)
	return nil
}

func cloneListing(l *entity.Listing) *entity.Listing {
	cp := *l
	cp.ImageURLs = append([]string(nil), l.ImageURLs...)
	return &cp
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return -1
	}
	return n
}
