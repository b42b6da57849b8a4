package checkout

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
)

// CustomerDraft holds the recipient and delivery details entered at checkout.
type CustomerDraft struct {
	Name            string  `json:"name" validate:"required,max=120"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,max=32"`
	AddressLine1    string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2    *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	Barangay        *string `json:"barangay,omitempty" validate:"omitempty,max=120"`
	City            string  `json:"city" validate:"required,max=120"`
	Province        string  `json:"province" validate:"required,max=120"`
	PostalCode      string  `json:"postal_code" validate:"required,max=12"`
	Country         string  `json:"country" validate:"required,max=64"`
	DeliveryDate    string  `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliverySlot    string  `json:"delivery_slot" validate:"omitempty,max=64"`
	ExpressDelivery bool    `json:"express_delivery"`
	AddReferBag     bool    `json:"add_refer_bag"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	AttentionTo     *string `json:"attention_to,omitempty" validate:"omitempty,max=120"`
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate checks the draft and reports failing fields by their JSON name.
func (d CustomerDraft) Validate() error {
	err := draftValidator.Struct(d)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer details").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer details")
}

// Selection extracts the pricing-relevant delivery options.
func (d CustomerDraft) Selection() DeliverySelection {
	return DeliverySelection{
		PostalCode: d.PostalCode,
		Express:    d.ExpressDelivery,
		ThermalBag: d.AddReferBag,
	}
}

// Snapshot converts the draft into the customer record stored on an order.
func (d CustomerDraft) Snapshot() types.Customer {
	return types.Customer{
		Name:  strings.TrimSpace(d.Name),
		Email: strings.TrimSpace(d.Email),
		Phone: strings.TrimSpace(d.Phone),
		Address: types.Address{
			Line1:      strings.TrimSpace(d.AddressLine1),
			Line2:      d.AddressLine2,
			Barangay:   d.Barangay,
			City:       strings.TrimSpace(d.City),
			Province:   strings.TrimSpace(d.Province),
			PostalCode: strings.TrimSpace(d.PostalCode),
			Country:    strings.TrimSpace(d.Country),
		},
		DeliveryDate:    d.DeliveryDate,
		DeliverySlot:    d.DeliverySlot,
		ExpressDelivery: d.ExpressDelivery,
		AddReferBag:     d.AddReferBag,
		Notes:           d.Notes,
		AttentionTo:     d.AttentionTo,
	}
}
