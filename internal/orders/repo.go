package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository on the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// Create inserts the order and then its lines. Callers wanting atomicity run it inside WithTx.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	conn := r.db.WithContext(ctx)
	if err := conn.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Lines) == 0 {
		return nil
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	return conn.Create(&order.Lines).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repository) FindBySessionAndID(ctx context.Context, sessionID string, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ? AND session_id = ?", id, sessionID))
}

func (r *repository) findOne(_ context.Context, query *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return &order, nil
}

// UpdateStatus moves the order to `to` only while it is still in `from`.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").
			WithDetails(map[string]any{"expected": from.String()})
	}
	return nil
}
