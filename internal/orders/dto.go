package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/types"
)

// OrderDTO is the customer-facing view of an order.
type OrderDTO struct {
	ID          uuid.UUID      `json:"id"`
	OrderNumber *string        `json:"order_number,omitempty"`
	Status      string         `json:"status"`
	Customer    types.Customer `json:"customer"`
	Pricing     types.Pricing  `json:"pricing"`
	Lines       []OrderLineDTO `json:"lines"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OrderLineDTO is a snapshot line of an order.
type OrderLineDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ToDTO maps a persisted order into its response shape.
func ToDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.String(),
		Customer:    order.Customer,
		Pricing: types.Pricing{
			Subtotal:         order.Subtotal,
			DeliveryFee:      order.DeliveryFee,
			ExpressSurcharge: order.ExpressSurcharge,
			ThermalBagFee:    order.ThermalBagFee,
			Total:            order.Total,
		},
		Lines:     make([]OrderLineDTO, 0, len(order.Lines)),
		CreatedAt: order.CreatedAt,
	}
	for _, line := range order.Lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Price:     line.Price,
			Qty:       line.Qty,
			LineTotal: line.LineTotal,
		})
	}
	return dto
}
