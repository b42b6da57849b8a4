package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

// MaxLineQty caps the quantity of a single cart line.
const MaxLineQty = 999

// View is the priced cart of one session.
type View struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Totals    Totals     `json:"totals"`
}

// IsEmpty reports whether the cart has no lines.
func (v *View) IsEmpty() bool {
	return v == nil || len(v.Items) == 0
}

// Service exposes the session cart.
type Service interface {
	View(ctx context.Context, sessionID string) (*View, error)
	Fresh(ctx context.Context, sessionID string) (*View, error)
	SetItem(ctx context.Context, sessionID, productID string, qty int) (*View, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartRepository interface {
	SetQuantity(ctx context.Context, sessionID, productID string, qty int) error
	Delete(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
	ListRows(ctx context.Context, sessionID string) ([]map[string]any, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type service struct {
	repo     cartRepository
	products productLoader
	cache    ViewCache
	logg     *logger.Logger
}

// NewService builds a cart service. The cache is optional.
func NewService(repo cartRepository, products productLoader, cache ViewCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, cache: cache, logg: logg}, nil
}

func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	if s.cache != nil {
		view, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return view, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart cache read failed")
		}
	}
	return s.load(ctx, sessionID)
}

// Fresh reads the cart from the database, bypassing the cached view, and refreshes the cache.
func (s *service) Fresh(ctx context.Context, sessionID string) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	return s.load(s.logg.WithSessionID(ctx, sessionID), sessionID)
}

// load reads the cart from the database and refreshes the cache.
func (s *service) load(ctx context.Context, sessionID string) (*View, error) {
	rows, err := s.repo.ListRows(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items := BuildCartItems(rows)
	view := &View{SessionID: sessionID, Items: items, Totals: CartTotals(items)}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sessionID, view); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart cache write failed")
		}
	}
	return view, nil
}

func (s *service) SetItem(ctx context.Context, sessionID, productID string, qty int) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 0 || qty > MaxLineQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 0 and %d", MaxLineQty))
	}

	if qty > 0 {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !enums.ProductStatus(product.Status).IsActive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
		}
		if !product.SellingPrice.Valid {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not for sale yet")
		}
	}

	if err := s.repo.SetQuantity(ctx, sessionID, productID, qty); err != nil {
		return nil, err
	}
	s.invalidate(ctx, sessionID)
	return s.load(s.logg.WithSessionID(ctx, sessionID), sessionID)
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, sessionID, strings.TrimSpace(productID)); err != nil {
		return nil, err
	}
	s.invalidate(ctx, sessionID)
	return s.load(s.logg.WithSessionID(ctx, sessionID), sessionID)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.invalidate(ctx, sessionID)
	return nil
}

func (s *service) invalidate(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(s.logg.WithSessionID(ctx, sessionID), "error", err.Error()), "cart cache invalidation failed")
	}
}

func validateSession(sessionID string) error {
	if !session.IsValid(sessionID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid session id is required")
	}
	return nil
}
