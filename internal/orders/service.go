package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const orderNumberSequence = "order_number"

// Service exposes order placement and lifecycle operations.
type Service interface {
	Place(ctx context.Context, input NewOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, sessionID string, id uuid.UUID) (*OrderDTO, error)
	Transition(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequencer interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	sequence sequencer
	metrics  *metrics.Storefront
	logg     *logger.Logger
}

// NewService builds the order service. The sequencer is optional; without it orders have
// no human-readable number.
func NewService(repo Repository, tx txRunner, sequence sequencer, m *metrics.Storefront, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, sequence: sequence, metrics: m, logg: logg}, nil
}

func (s *service) Place(ctx context.Context, input NewOrderInput) (*OrderDTO, error) {
	order, err := New(input)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithOrderID(s.logg.WithSessionID(ctx, input.SessionID), order.ID.String())
	order.OrderNumber = s.nextOrderNumber(ctx)

	err = s.create(ctx, order)
	if err != nil && order.OrderNumber != nil && db.IsUniqueViolation(err, "") {
		s.logg.Warn(s.logg.WithField(ctx, "order_number", *order.OrderNumber), "order number already taken, placing without one")
		order.OrderNumber = nil
		err = s.create(ctx, order)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	s.metrics.IncOrdersPlaced()
	s.logg.Info(ctx, "order placed")
	return ToDTO(order), nil
}

func (s *service) create(ctx context.Context, order *models.Order) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
}

func (s *service) nextOrderNumber(ctx context.Context) *string {
	if s.sequence == nil {
		return nil
	}
	seq, err := s.sequence.NextSequence(ctx, orderNumberSequence)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order number unavailable")
		return nil
	}
	number := FormatOrderNumber(seq)
	return &number
}

func (s *service) Get(ctx context.Context, sessionID string, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindBySessionAndID(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	return ToDTO(order), nil
}

func (s *service) Transition(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error) {
	ctx = s.logg.WithOrderID(ctx, id.String())
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := ValidateTransition(order.Status, status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, next); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"from": order.Status.String(), "to": next.String()}), "order status changed")
	order.Status = next
	return ToDTO(order), nil
}
