package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Order is a placed checkout with its pricing breakdown and customer snapshot.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:text;primaryKey"`
	OrderNumber      *string           `gorm:"column:order_number"`
	SessionID        string            `gorm:"column:session_id;not null"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:'draft'"`
	Customer         types.Customer    `gorm:"column:customer;type:text;serializer:json;not null"`
	Subtotal         decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee      decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	ExpressSurcharge decimal.Decimal   `gorm:"column:express_surcharge;type:numeric(12,2);not null"`
	ThermalBagFee    decimal.Decimal   `gorm:"column:thermal_bag_fee;type:numeric(12,2);not null"`
	Total            decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Lines            []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// BeforeCreate assigns an id when the caller did not.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderLine is an immutable price and attribute snapshot of a cart item.
type OrderLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:text;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:text;not null"`
	Position  int             `gorm:"column:position;not null"`
	ProductID string          `gorm:"column:product_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	Size      string          `gorm:"column:size;not null;default:''"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Qty       int             `gorm:"column:qty;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}

func (OrderLine) TableName() string { return "order_lines" }

// BeforeCreate assigns an id when the caller did not.
func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
