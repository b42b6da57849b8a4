package branding

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Repository reads logo URLs from branding_assets.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindLogo returns "" when no row exists for the mode.
func (r *Repository) FindLogo(ctx context.Context, mode enums.DisplayMode) (string, error) {
	var asset models.BrandingAsset
	err := r.db.WithContext(ctx).Where("mode = ?", mode).Take(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load branding asset")
	}
	return asset.LogoURL, nil
}

// Upsert stores the logo for a mode.
func (r *Repository) Upsert(ctx context.Context, mode enums.DisplayMode, logoURL string) error {
	asset := models.BrandingAsset{Mode: mode, LogoURL: logoURL}
	err := r.db.WithContext(ctx).Save(&asset).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save branding asset")
	}
	return nil
}
