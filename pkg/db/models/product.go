package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. A null SellingPrice means the product is not for sale yet.
type Product struct {
	ID             string              `gorm:"column:id;primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	LongName       *string             `gorm:"column:long_name"`
	Type           *string             `gorm:"column:type"`
	Cut            *string             `gorm:"column:cut"`
	State          *string             `gorm:"column:state"`
	Size           *string             `gorm:"column:size"`
	Temperature    *string             `gorm:"column:temperature"`
	Country        *string             `gorm:"column:country"`
	Keywords       *string             `gorm:"column:keywords"`
	SellingPrice   decimal.NullDecimal `gorm:"column:selling_price;type:numeric(12,2)"`
	UnlimitedStock bool                `gorm:"column:unlimited_stock;not null;default:false"`
	QtyAvailable   int                 `gorm:"column:qty_available;not null;default:0"`
	Status         string              `gorm:"column:status;not null;default:'active'"`
	SortOrder      *int                `gorm:"column:sort_order"`
	Images         []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductImage is one ordered image of a product; the lowest sort order is primary.
type ProductImage struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ProductID string    `gorm:"column:product_id;not null"`
	URL       string    `gorm:"column:url;not null"`
	AltText   *string   `gorm:"column:alt_text"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductImage) TableName() string { return "product_images" }
