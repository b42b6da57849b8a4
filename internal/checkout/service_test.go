package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/notifications"
	"github.com/angelmondragon/storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const testSession = "5c1f0a52-3c1b-4b8e-9a43-9f0f5f3c2d10"

type stubCarts struct {
	view       *cart.View
	fresh      *cart.View
	viewErr    error
	clearErr   error
	cleared    []string
	freshCalls int
}

func (s *stubCarts) View(context.Context, string) (*cart.View, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return s.view, nil
}

func (s *stubCarts) Fresh(context.Context, string) (*cart.View, error) {
	s.freshCalls++
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	if s.fresh != nil {
		return s.fresh, nil
	}
	return s.view, nil
}

func (s *stubCarts) Clear(_ context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return s.clearErr
}

type stubPlacer struct {
	input  *orders.NewOrderInput
	number *string
	err    error
}

func (s *stubPlacer) Place(_ context.Context, input orders.NewOrderInput) (*orders.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = &input
	return &orders.OrderDTO{
		ID:          uuid.New(),
		OrderNumber: s.number,
		Status:      "draft",
		Customer:    input.Customer,
		Pricing:     input.Pricing,
	}, nil
}

type stubNotifier struct {
	requests []notifications.Request
	err      error
}

func (s *stubNotifier) SendOrderConfirmation(_ context.Context, req notifications.Request) error {
	s.requests = append(s.requests, req)
	return s.err
}

func sampleView() *cart.View {
	return &cart.View{
		SessionID: testSession,
		Items: []cart.CartItem{
			{ProductID: "p-1", Name: "Ribeye", Price: dec("450"), Qty: 2, LineTotal: dec("900")},
			{ProductID: "p-2", Name: "Brisket", Price: dec("120.25"), Qty: 1, LineTotal: dec("120.25")},
		},
		Totals: cart.Totals{TotalUnits: 3, Subtotal: dec("1020.25")},
	}
}

type fixture struct {
	svc      Service
	carts    *stubCarts
	placer   *stubPlacer
	notifier *stubNotifier
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		carts:    &stubCarts{view: sampleView()},
		placer:   &stubPlacer{},
		notifier: &stubNotifier{},
		registry: prometheus.NewRegistry(),
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	svc, err := NewService(newTestEngine(t, testRules()), f.carts, f.placer, f.notifier, metrics.NewStorefront(f.registry), logg)
	require.NoError(t, err)
	svc.(*service).dispatch = func(fn func()) { fn() }
	f.svc = svc
	return f
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{Output: io.Discard})
	_, err := NewService(nil, &stubCarts{}, &stubPlacer{}, nil, nil, logg)
	require.Error(t, err)

	engine, err := NewEngine(testRules())
	require.NoError(t, err)
	_, err = NewService(engine, nil, &stubPlacer{}, nil, nil, logg)
	require.Error(t, err)
	_, err = NewService(engine, &stubCarts{}, &stubPlacer{}, nil, nil, logg)
	require.NoError(t, err)
}

func TestQuotePricesCart(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.Quote(context.Background(), testSession, CustomerDraft{PostalCode: "1234", AddReferBag: true})
	require.NoError(t, err)
	assert.Len(t, quote.Items, 2)
	assert.True(t, quote.Pricing.Subtotal.Equal(dec("1020.25")))
	assert.True(t, quote.Pricing.DeliveryFee.Equal(dec("60")))
	assert.True(t, quote.Pricing.Total.Equal(dec("1125.75")))
	assert.Empty(t, f.carts.cleared)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newFixture(t)
	number := "SF-000042"
	f.placer.number = &number

	order, err := f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "https://shop.example.com")
	require.NoError(t, err)
	require.NotNil(t, f.placer.input)

	assert.Equal(t, testSession, f.placer.input.SessionID)
	assert.Len(t, f.placer.input.Items, 2)
	assert.True(t, order.Pricing.Total.Equal(dec("1180.25")))
	assert.Equal(t, []string{testSession}, f.carts.cleared)

	require.Len(t, f.notifier.requests, 1)
	req := f.notifier.requests[0]
	assert.Equal(t, "juan@example.com", req.Email)
	assert.Equal(t, order.ID.String(), req.OrderID)
	assert.Equal(t, "Maria", req.Name)
	assert.Equal(t, number, req.OrderNumber)
	assert.Equal(t, "https://shop.example.com", req.Origin)
}

func TestPlaceOrderRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t)
	draft := validDraft()
	draft.Email = ""

	_, err := f.svc.PlaceOrder(context.Background(), testSession, draft, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Nil(t, f.placer.input)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.carts.view = &cart.View{SessionID: testSession, Items: []cart.CartItem{}}

	_, err := f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Nil(t, f.placer.input)
	assert.Empty(t, f.notifier.requests)
}

func TestPlaceOrderPropagatesPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.placer.err = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "persist order")

	_, err := f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Empty(t, f.carts.cleared)
	assert.Empty(t, f.notifier.requests)
}

func TestPlaceOrderSurvivesNotificationAndClearFailures(t *testing.T) {
	f := newFixture(t)
	f.carts.clearErr = errors.New("clear failed")
	f.notifier.err = pkgerrors.New(pkgerrors.CodeUpstream, "email provider rejected the message")

	order, err := f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "")
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, f.notifier.requests, 1)
}

func TestPlaceOrderDispatchedContextOutlivesRequest(t *testing.T) {
	f := newFixture(t)
	var sendErr error
	f.svc.(*service).notifier = notifierFunc(func(ctx context.Context, _ notifications.Request) error {
		sendErr = ctx.Err()
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(notificationTimeout), deadline, 5*time.Second)
		return nil
	})
	var pending func()
	f.svc.(*service).dispatch = func(fn func()) { pending = fn }

	ctx, cancel := context.WithCancel(context.Background())
	_, err := f.svc.PlaceOrder(ctx, testSession, validDraft(), "")
	require.NoError(t, err)
	cancel()

	pending()
	assert.NoError(t, sendErr)
}

type notifierFunc func(ctx context.Context, req notifications.Request) error

func (f notifierFunc) SendOrderConfirmation(ctx context.Context, req notifications.Request) error {
	return f(ctx, req)
}

func TestPlaceOrderCountsNotificationOutcomes(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = pkgerrors.New(pkgerrors.CodeConfiguration, "email provider is not configured")

	_, err := f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "")
	require.NoError(t, err)

	f.notifier.err = errors.New("smtp exploded")
	_, err = f.svc.PlaceOrder(context.Background(), testSession, validDraft(), "")
	require.NoError(t, err)

	mfs, err := f.registry.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "storefront_order_notifications_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					outcomes[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{metrics.OutcomeSkipped: 1, metrics.OutcomeFailure: 1}, outcomes)
}
