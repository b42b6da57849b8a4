package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Service exposes catalog browsing.
type Service interface {
	Browse(ctx context.Context, input BrowseInput) ([]ProductDTO, error)
	ProductImages(ctx context.Context, productIDs []string) ([]ProductImageDTO, error)
}

// BrowseInput filters a catalog listing.
type BrowseInput struct {
	Query           string
	IncludeInactive bool
}

type productReader interface {
	FetchProducts(ctx context.Context, opts FetchOptions) ([]models.Product, error)
	FetchProductImages(ctx context.Context, productIDs []string) ([]models.ProductImage, error)
}

type service struct {
	repo productReader
}

// NewService constructs a catalog service.
func NewService(repo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, input BrowseInput) ([]ProductDTO, error) {
	products, err := s.repo.FetchProducts(ctx, FetchOptions{IncludeInactive: input.IncludeInactive})
	if err != nil {
		return nil, err
	}

	matched := make([]models.Product, 0, len(products))
	ids := make([]string, 0, len(products))
	for _, product := range products {
		if !MatchesProductQuery(product, input.Query) {
			continue
		}
		matched = append(matched, product)
		ids = append(ids, product.ID)
	}

	images, err := s.repo.FetchProductImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	primary := primaryImages(images)

	out := make([]ProductDTO, 0, len(matched))
	for _, product := range matched {
		var url *string
		if u, ok := primary[product.ID]; ok {
			url = &u
		}
		out = append(out, toProductDTO(product, url))
	}
	return out, nil
}

func (s *service) ProductImages(ctx context.Context, productIDs []string) ([]ProductImageDTO, error) {
	images, err := s.repo.FetchProductImages(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	out := make([]ProductImageDTO, 0, len(images))
	for _, image := range images {
		out = append(out, toProductImageDTO(image))
	}
	return out, nil
}

// primaryImages keeps the first image per product; images arrive sorted by sort order.
func primaryImages(images []models.ProductImage) map[string]string {
	out := make(map[string]string, len(images))
	for _, image := range images {
		if _, ok := out[image.ProductID]; ok {
			continue
		}
		out[image.ProductID] = image.URL
	}
	return out
}
