package cart

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const cartRowsQuery = `
SELECT ci.product_id,
       p.name,
       p.country,
       p.type,
       p.size,
       p.temperature,
       (SELECT pi.url
          FROM product_images pi
         WHERE pi.product_id = p.id
         ORDER BY pi.sort_order ASC
         LIMIT 1) AS thumbnail_url,
       p.unlimited_stock,
       p.qty_available,
       CASE WHEN p.unlimited_stock THEN FALSE
            WHEN p.qty_available <= 0 THEN TRUE
            ELSE FALSE END AS out_of_stock,
       CASE WHEN LOWER(p.status) <> 'active' OR p.selling_price IS NULL THEN TRUE
            ELSE FALSE END AS unavailable,
       p.selling_price AS price,
       ci.qty,
       p.selling_price * ci.qty AS line_total
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.session_id = ?
ORDER BY ci.created_at ASC, ci.product_id ASC
`

// Repository persists per-session cart quantities.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SetQuantity upserts the quantity for a product. A non-positive qty removes the line.
// Concurrent writers for the same line resolve as last-writer-wins.
func (r *Repository) SetQuantity(ctx context.Context, sessionID, productID string, qty int) error {
	if qty <= 0 {
		return r.Delete(ctx, sessionID, productID)
	}

	item := models.CartItem{
		SessionID: sessionID,
		ProductID: productID,
		Qty:       qty,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qty", "updated_at"}),
		}).
		Create(&item).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	return nil
}

// Delete removes a single product line.
func (r *Repository) Delete(ctx context.Context, sessionID, productID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}

// Clear removes every line of the session cart.
func (r *Repository) Clear(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// ListRows returns the raw cart projection joined with product data. Values keep the
// driver's native types; BuildCartItems normalizes them.
func (r *Repository) ListRows(ctx context.Context, sessionID string) ([]map[string]any, error) {
	rows, err := r.db.WithContext(ctx).Raw(cartRowsQuery, sessionID).Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart rows")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart rows")
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan cart row")
		}
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart rows")
	}
	return out, nil
}
