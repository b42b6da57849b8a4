package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/notifications"
	"github.com/angelmondragon/storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
)

const notificationTimeout = 15 * time.Second

// Quote is the priced cart for a draft that has not been placed yet.
type Quote struct {
	Items   []cart.CartItem `json:"items"`
	Totals  cart.Totals     `json:"totals"`
	Pricing types.Pricing   `json:"pricing"`
}

// Service prices carts and turns them into orders.
type Service interface {
	Quote(ctx context.Context, sessionID string, draft CustomerDraft) (*Quote, error)
	PlaceOrder(ctx context.Context, sessionID string, draft CustomerDraft, origin string) (*orders.OrderDTO, error)
}

type cartService interface {
	View(ctx context.Context, sessionID string) (*cart.View, error)
	Fresh(ctx context.Context, sessionID string) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderPlacer interface {
	Place(ctx context.Context, input orders.NewOrderInput) (*orders.OrderDTO, error)
}

type notifier interface {
	SendOrderConfirmation(ctx context.Context, req notifications.Request) error
}

type service struct {
	engine   *Engine
	carts    cartService
	orders   orderPlacer
	notifier notifier
	metrics  *metrics.Storefront
	logg     *logger.Logger
	dispatch func(func())
	now      func() time.Time
}

// NewService wires checkout. The notifier is optional; without it orders are placed silently.
func NewService(engine *Engine, carts cartService, placer orderPlacer, notify notifier, m *metrics.Storefront, logg *logger.Logger) (Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		engine:   engine,
		carts:    carts,
		orders:   placer,
		notifier: notify,
		metrics:  m,
		logg:     logg,
		dispatch: func(fn func()) { go fn() },
		now:      time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, sessionID string, draft CustomerDraft) (*Quote, error) {
	view, err := s.carts.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:   view.Items,
		Totals:  view.Totals,
		Pricing: s.engine.Price(view.Totals.Subtotal, draft.Selection()),
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, sessionID string, draft CustomerDraft, origin string) (order *orders.OrderDTO, err error) {
	started := s.now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.ObserveCheckout(outcome, s.now().Sub(started))
	}()

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	view, err := s.carts.Fresh(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if unavailable := cart.UnavailableProducts(view.Items); len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains products that are no longer for sale").
			WithDetails(map[string]any{"unavailable_products": unavailable})
	}

	pricing := s.engine.Price(view.Totals.Subtotal, draft.Selection())
	order, err = s.orders.Place(ctx, orders.NewOrderInput{
		SessionID: sessionID,
		Customer:  draft.Snapshot(),
		Items:     view.Items,
		Pricing:   pricing,
		Now:       started,
	})
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "failed to clear cart after checkout", err)
	}

	s.notify(ctx, order, origin)
	return order, nil
}

func (s *service) notify(ctx context.Context, order *orders.OrderDTO, origin string) {
	if s.notifier == nil {
		s.metrics.IncNotification(metrics.OutcomeSkipped)
		return
	}
	req := notifications.Request{
		Email:   order.Customer.Email,
		OrderID: order.ID.String(),
		Name:    order.Customer.Recipient(),
		Origin:  origin,
	}
	if order.OrderNumber != nil {
		req.OrderNumber = *order.OrderNumber
	}

	detached := context.WithoutCancel(ctx)
	s.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(detached, notificationTimeout)
		defer cancel()

		err := s.notifier.SendOrderConfirmation(sendCtx, req)
		switch {
		case err == nil:
			s.metrics.IncNotification(metrics.OutcomeSuccess)
			s.logg.Info(detached, "order confirmation sent")
		case isCode(err, pkgerrors.CodeConfiguration):
			s.metrics.IncNotification(metrics.OutcomeSkipped)
			s.logg.Warn(detached, "order confirmation skipped: email provider not configured")
		default:
			s.metrics.IncNotification(metrics.OutcomeFailure)
			s.logg.Error(detached, "order confirmation failed", err)
		}
	})
}

func isCode(err error, code pkgerrors.Code) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == code
}
