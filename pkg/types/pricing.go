package types

import "github.com/shopspring/decimal"

// Pricing is a checkout price breakdown. DeliveryFee already includes ExpressSurcharge;
// Total is always Subtotal + DeliveryFee + ThermalBagFee.
type Pricing struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	ExpressSurcharge decimal.Decimal `json:"express_surcharge"`
	ThermalBagFee    decimal.Decimal `json:"thermal_bag_fee"`
	Total            decimal.Decimal `json:"total"`
}
