package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem stores the requested quantity of one product in a session cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	SessionID string    `gorm:"column:session_id;not null;uniqueIndex:idx_cart_items_session_product"`
	ProductID string    `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_session_product"`
	Qty       int       `gorm:"column:qty;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }

// BeforeCreate assigns an id when the caller did not.
func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
