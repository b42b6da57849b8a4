package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

// NewOrderInput carries a finalized cart and customer draft.
type NewOrderInput struct {
	SessionID string
	Customer  types.Customer
	Items     []cart.CartItem
	Pricing   types.Pricing
	Now       time.Time
}

// transitions lists the statuses reachable from each non-terminal status.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusDraft:     {enums.OrderStatusSubmitted, enums.OrderStatusCancelled},
	enums.OrderStatusSubmitted: {enums.OrderStatusPaid, enums.OrderStatusCancelled},
}

// New builds a draft order whose lines are copies of the cart items at this moment.
func New(input NewOrderInput) (*models.Order, error) {
	if !session.IsValid(input.SessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid session id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	order := &models.Order{
		ID:               uuid.New(),
		SessionID:        input.SessionID,
		Status:           enums.OrderStatusDraft,
		Customer:         input.Customer,
		Subtotal:         input.Pricing.Subtotal,
		DeliveryFee:      input.Pricing.DeliveryFee,
		ExpressSurcharge: input.Pricing.ExpressSurcharge,
		ThermalBagFee:    input.Pricing.ThermalBagFee,
		Total:            input.Pricing.Total,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
		Lines:            make([]models.OrderLine, 0, len(input.Items)),
	}
	for i, item := range input.Items {
		order.Lines = append(order.Lines, models.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Position:  i + 1,
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Price:     item.Price,
			Qty:       item.Qty,
			LineTotal: item.LineTotal,
		})
	}
	return order, nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition parses the requested status and checks it is reachable from current.
func ValidateTransition(current enums.OrderStatus, requested string) (enums.OrderStatus, error) {
	next, err := enums.ParseOrderStatus(requested)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status").
			WithDetails(map[string]any{"status": requested})
	}
	if !CanTransition(current, next) {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", current, next)).
			WithDetails(map[string]any{"from": current.String(), "to": next.String()})
	}
	return next, nil
}

// FormatOrderNumber renders the human-readable order number for a sequence value.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("SF-%06d", seq)
}
