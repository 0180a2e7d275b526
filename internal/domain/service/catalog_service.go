package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"
	"secondhand/pkg/logger"
)

// ListingDetail is a listing with its seller, as served by GET /api/products/{id}.
type ListingDetail struct {
	*entity.Listing
	Seller            *entity.User `json:"seller"`
	MannerTemperature float64      `json:"mannerTemperature"`
}

type Upload struct {
	Filename string
	Content  io.Reader
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       int64
	CategoryID  int
	SellerID    string
	Images      []Upload
}

type UpdateListingInput struct {
	Title       string
	Description string
	Price       int64
}

type CatalogService struct {
	listings repository.ListingRepository
	likes    repository.LikeRepository
	users    repository.UserRepository
	files    FileStorage
	now      func() time.Time
}

func NewCatalogService(
	listings repository.ListingRepository,
	likes repository.LikeRepository,
	users repository.UserRepository,
	files FileStorage,
) *CatalogService {
	return &CatalogService{
		listings: listings,
		likes:    likes,
		users:    users,
		files:    files,
		now:      time.Now,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, viewerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	items, total, err := s.listings.List(ctx, repository.ListingFilter{}, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.decorate(ctx, viewerID, items), total, nil
}

// ListBySeller returns every listing of sellerID, newest first.
func (s *CatalogService) ListBySeller(ctx context.Context, viewerID, sellerID string) ([]*entity.Listing, error) {
	items, _, err := s.listings.List(ctx, repository.ListingFilter{SellerID: sellerID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, items), nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, viewerID string, categoryID int) ([]*entity.Listing, error) {
	if _, ok := entity.CategoryByID(categoryID); !ok {
		return nil, errors.NotFound("category", nil)
	}
	items, _, err := s.listings.List(ctx, repository.ListingFilter{CategoryID: categoryID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, items), nil
}

func (s *CatalogService) Search(ctx context.Context, viewerID, keyword string) ([]*entity.Listing, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*entity.Listing{}, nil
	}
	items, _, err := s.listings.List(ctx, repository.ListingFilter{Keyword: keyword}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, items), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, viewerID, id string) (*ListingDetail, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing = s.decorate(ctx, viewerID, []*entity.Listing{listing})[0]

	seller, err := s.users.GetByID(ctx, listing.SellerID)
	if err != nil {
		seller = &entity.User{
			ID:                listing.SellerID,
			Nickname:          listing.SellerNickname,
			MannerTemperature: entity.DefaultMannerTemperature,
		}
	}
	return &ListingDetail{Listing: listing, Seller: seller, MannerTemperature: seller.MannerTemperature}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input CreateListingInput) (*entity.Listing, error) {
	category, ok := entity.CategoryByID(input.CategoryID)
	if !ok {
		return nil, errors.BadRequest("unknown category", nil)
	}

	urls := make([]string, 0, len(input.Images))
	for _, img := range input.Images {
		url, err := s.files.Save(ctx, img.Filename, img.Content)
		if err != nil {
			s.discard(ctx, urls)
			return nil, errors.Internal("failed to store image", err)
		}
		urls = append(urls, url)
	}

	nickname := input.SellerID
	if seller, err := s.users.GetByID(ctx, input.SellerID); err == nil {
		nickname = seller.Nickname
	}

	now := s.now()
	listing := &entity.Listing{
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		CategoryID:     category.ID,
		CategoryName:   category.Label,
		SellerID:       input.SellerID,
		SellerNickname: nickname,
		ImageURLs:      urls,
		Status:         string(entity.StatusOnSale),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		s.discard(ctx, urls)
		return nil, err
	}
	logger.Info("listing %s created by seller %s with %d images", listing.ID, listing.SellerID, len(urls))
	return listing, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, viewerID, id string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := s.owned(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	listing.UpdatedAt = s.now()
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, []*entity.Listing{listing})[0], nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, viewerID, id string) error {
	listing, err := s.owned(ctx, viewerID, id)
	if err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.likes.RemoveByProduct(ctx, id); err != nil {
		logger.Warn("failed to drop likes of deleted listing %s: %v", id, err)
	}
	s.discard(ctx, listing.ImageURLs)
	return nil
}

func (s *CatalogService) owned(ctx context.Context, viewerID, id string) (*entity.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// anonymous requests never own a listing
	if viewerID == "" || listing.SellerID != viewerID {
		return nil, errors.New("FORBIDDEN", "only the seller can modify this listing", http.StatusForbidden, nil)
	}
	return listing, nil
}

func (s *CatalogService) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if !strings.HasPrefix(url, "/uploads/") {
			continue
		}
		if err := s.files.Delete(ctx, url); err != nil {
			logger.Warn("failed to delete %s: %v", url, err)
		}
	}
}

// decorate sets the viewer-relative IsWishlisted flag on copies of items.
func (s *CatalogService) decorate(ctx context.Context, viewerID string, items []*entity.Listing) []*entity.Listing {
	out := make([]*entity.Listing, 0, len(items))
	for _, item := range items {
		cp := *item
		cp.IsWishlisted = false
		if viewerID != "" {
			liked, err := s.likes.Exists(ctx, viewerID, item.ID)
			if err != nil {
				logger.Warn("like lookup for %s failed: %v", item.ID, err)
			}
			cp.IsWishlisted = liked
		}
		out = append(out, &cp)
	}
	return out
}
