package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

type stubProductReader struct {
	products   []models.Product
	images     []models.ProductImage
	fetchErr   error
	lastOpts   FetchOptions
	imageCalls [][]string
}

func (s *stubProductReader) FetchProducts(_ context.Context, opts FetchOptions) ([]models.Product, error) {
	s.lastOpts = opts
	return s.products, s.fetchErr
}

func (s *stubProductReader) FetchProductImages(_ context.Context, ids []string) ([]models.ProductImage, error) {
	s.imageCalls = append(s.imageCalls, ids)
	var out []models.ProductImage
	for _, image := range s.images {
		for _, id := range ids {
			if image.ProductID == id {
				out = append(out, image)
			}
		}
	}
	return out, nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestBrowseFiltersAndAttachesPrimaryImage(t *testing.T) {
	repo := &stubProductReader{
		products: []models.Product{
			{ID: "p1", Name: "Whole milk", Status: "Active", QtyAvailable: 3,
				SellingPrice: decimal.NewNullDecimal(decimal.NewFromInt(95))},
			{ID: "p2", Name: "Sourdough", Status: "active", UnlimitedStock: true},
		},
		images: []models.ProductImage{
			{ProductID: "p1", URL: "https://cdn/milk-front.png", SortOrder: 0},
			{ProductID: "p1", URL: "https://cdn/milk-back.png", SortOrder: 1},
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	products, err := svc.Browse(context.Background(), BrowseInput{Query: "MILK"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "active", products[0].Status)
	require.NotNil(t, products[0].PrimaryImage)
	assert.Equal(t, "https://cdn/milk-front.png", *products[0].PrimaryImage)
	require.NotNil(t, products[0].SellingPrice)
	assert.True(t, products[0].SellingPrice.Equal(decimal.NewFromInt(95)))
	assert.False(t, products[0].OutOfStock)
	assert.Equal(t, [][]string{{"p1"}}, repo.imageCalls)
	assert.False(t, repo.lastOpts.IncludeInactive)
}

func TestBrowseIncludeInactivePassesThrough(t *testing.T) {
	repo := &stubProductReader{products: []models.Product{{ID: "p1", Name: "Ham", Status: "Archived"}}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	products, err := svc.Browse(context.Background(), BrowseInput{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, repo.lastOpts.IncludeInactive)
	assert.Nil(t, products[0].PrimaryImage)
	assert.Nil(t, products[0].SellingPrice)
	assert.True(t, products[0].OutOfStock)
}

func TestBrowsePropagatesFetchError(t *testing.T) {
	svc, err := NewService(&stubProductReader{fetchErr: errors.New("db down")})
	require.NoError(t, err)

	products, err := svc.Browse(context.Background(), BrowseInput{})
	require.Error(t, err)
	assert.Nil(t, products)
}
