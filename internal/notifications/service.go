package notifications

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// Service sends order notifications.
type Service interface {
	SendOrderConfirmation(ctx context.Context, req Request) error
}

type service struct {
	provider EmailProvider
	logg     *logger.Logger
}

// NewService wires the notification service. A nil provider means email is not configured and
// every send fails with a configuration error.
func NewService(provider EmailProvider, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{provider: provider, logg: logg}, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, req Request) error {
	req = req.normalized()
	missing := map[string]string{}
	if req.Email == "" {
		missing["email"] = "required"
	}
	if req.OrderID == "" {
		missing["orderId"] = "required"
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and orderId are required").WithDetails(missing)
	}
	if err := validate.Struct(req); err != nil {
		return invalidRequest(err)
	}
	if s.provider == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "email provider is not configured")
	}

	ctx = s.logg.WithOrderID(ctx, req.OrderID)
	if err := s.provider.Send(ctx, renderConfirmation(req)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "email provider rejected the message").
			WithDetails(map[string]string{"provider_error": providerDetail(err)})
	}
	s.logg.Debug(ctx, "order confirmation delivered to provider")
	return nil
}

func invalidRequest(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification request")
	}
	details := map[string]string{}
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification request").WithDetails(details)
}

func providerDetail(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.Body != "" {
		return providerErr.Body
	}
	return err.Error()
}
