package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
)

// ProductDTO is the storefront view of a catalog product.
type ProductDTO struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	LongName       *string          `json:"long_name,omitempty"`
	Type           *string          `json:"type,omitempty"`
	Cut            *string          `json:"cut,omitempty"`
	State          *string          `json:"state,omitempty"`
	Size           *string          `json:"size,omitempty"`
	Temperature    *string          `json:"temperature,omitempty"`
	Country        *string          `json:"country,omitempty"`
	SellingPrice   *decimal.Decimal `json:"selling_price"`
	UnlimitedStock bool             `json:"unlimited_stock"`
	QtyAvailable   int              `json:"qty_available"`
	OutOfStock     bool             `json:"out_of_stock"`
	Status         string           `json:"status"`
	SortOrder      *int             `json:"sort_order,omitempty"`
	PrimaryImage   *string          `json:"primary_image_url,omitempty"`
}

// ProductImageDTO is one ordered product image.
type ProductImageDTO struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	URL       string  `json:"url"`
	AltText   *string `json:"alt_text,omitempty"`
	SortOrder int     `json:"sort_order"`
}

// NormalizeStatus folds stored status variants (Active, ACTIVE) into the canonical value.
func NormalizeStatus(status string) enums.ProductStatus {
	return enums.NormalizeProductStatus(status)
}

// OutOfStock reports whether a product cannot currently be fulfilled.
func OutOfStock(product models.Product) bool {
	return !product.UnlimitedStock && product.QtyAvailable <= 0
}

func toProductDTO(product models.Product, primaryImage *string) ProductDTO {
	dto := ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		LongName:       product.LongName,
		Type:           product.Type,
		Cut:            product.Cut,
		State:          product.State,
		Size:           product.Size,
		Temperature:    product.Temperature,
		Country:        product.Country,
		UnlimitedStock: product.UnlimitedStock,
		QtyAvailable:   product.QtyAvailable,
		OutOfStock:     OutOfStock(product),
		Status:         string(NormalizeStatus(product.Status)),
		SortOrder:      product.SortOrder,
		PrimaryImage:   primaryImage,
	}
	if product.SellingPrice.Valid {
		price := product.SellingPrice.Decimal
		dto.SellingPrice = &price
	}
	return dto
}

func toProductImageDTO(image models.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:        image.ID,
		ProductID: image.ProductID,
		URL:       image.URL,
		AltText:   image.AltText,
		SortOrder: image.SortOrder,
	}
}
