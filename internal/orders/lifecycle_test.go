package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

const testSession = "5d0f3a4e-2f51-4c1c-8f9e-1b6f7c2a9e01"

func sampleInput() NewOrderInput {
	return NewOrderInput{
		SessionID: testSession,
		Customer:  types.Customer{Name: "Ana Cruz", Email: "ana@example.com"},
		Items: []cart.CartItem{
			{ProductID: "p1", Name: "Whole milk", Size: "1L", Price: decimal.NewFromInt(100), Qty: 2, LineTotal: decimal.NewFromInt(200)},
			{ProductID: "p2", Name: "Sourdough", Price: decimal.RequireFromString("45.5"), Qty: 1, LineTotal: decimal.RequireFromString("45.5")},
		},
		Pricing: types.Pricing{
			Subtotal:      decimal.RequireFromString("245.5"),
			DeliveryFee:   decimal.NewFromInt(150),
			ThermalBagFee: decimal.Zero,
			Total:         decimal.RequireFromString("395.5"),
		},
		Now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewBuildsDraftSnapshot(t *testing.T) {
	input := sampleInput()

	order, err := New(input)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusDraft, order.Status)
	assert.Equal(t, testSession, order.SessionID)
	assert.Equal(t, input.Now, order.CreatedAt)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("395.5")))
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 1, order.Lines[0].Position)
	assert.Equal(t, order.ID, order.Lines[1].OrderID)

	input.Items[0].Name = "Skim milk"
	input.Items[0].Price = decimal.NewFromInt(1)
	input.Items[0].Size = "2L"

	assert.Equal(t, "Whole milk", order.Lines[0].Name)
	assert.Equal(t, "1L", order.Lines[0].Size)
	assert.True(t, order.Lines[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestNewRejectsInvalidInput(t *testing.T) {
	input := sampleInput()
	input.SessionID = session.ServerSentinel
	_, err := New(input)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = sampleInput()
	input.Items = nil
	_, err = New(input)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestTransitionMatrix(t *testing.T) {
	all := []enums.OrderStatus{enums.OrderStatusDraft, enums.OrderStatusSubmitted, enums.OrderStatusPaid, enums.OrderStatusCancelled}
	legal := map[[2]enums.OrderStatus]bool{
		{enums.OrderStatusDraft, enums.OrderStatusSubmitted}:     true,
		{enums.OrderStatusDraft, enums.OrderStatusCancelled}:     true,
		{enums.OrderStatusSubmitted, enums.OrderStatusPaid}:      true,
		{enums.OrderStatusSubmitted, enums.OrderStatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[[2]enums.OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	next, err := ValidateTransition(enums.OrderStatusDraft, "submitted")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusSubmitted, next)

	_, err = ValidateTransition(enums.OrderStatusDraft, "shipped")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ValidateTransition(enums.OrderStatusPaid, "cancelled")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "SF-000123", FormatOrderNumber(123))
	assert.Equal(t, "SF-1234567", FormatOrderNumber(1234567))
}
