package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// FetchOptions narrows a product listing.
type FetchOptions struct {
	// IncludeInactive returns every status, for administrative views.
	IncludeInactive bool
}

// Repository reads products and their images.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchProducts lists products by sort order, nulls last, then name.
// Unless opts.IncludeInactive is set, the query only returns active products.
func (r *Repository) FetchProducts(ctx context.Context, opts FetchOptions) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if !opts.IncludeInactive {
		query = query.Where("LOWER(status) = ?", string(enums.ProductStatusActive))
	}

	var products []models.Product
	err := query.
		Order("sort_order ASC NULLS LAST").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch products")
	}
	return products, nil
}

// FetchActiveProducts lists only active products.
func (r *Repository) FetchActiveProducts(ctx context.Context) ([]models.Product, error) {
	return r.FetchProducts(ctx, FetchOptions{})
}

// FindByID loads a single product regardless of status.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

// FetchProductImages returns the images of the given products ordered by product then sort order.
// Empty input returns an empty slice without querying.
func (r *Repository) FetchProductImages(ctx context.Context, productIDs []string) ([]models.ProductImage, error) {
	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return []models.ProductImage{}, nil
	}

	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id ASC").
		Order("sort_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch product images")
	}
	return images, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
