package models

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// BrandingAsset maps a display mode to the logo served for it.
type BrandingAsset struct {
	Mode      enums.DisplayMode `gorm:"column:mode;primaryKey"`
	LogoURL   string            `gorm:"column:logo_url;not null"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (BrandingAsset) TableName() string { return "branding_assets" }
