package types

import "strings"

// Address is a delivery address broken into the fields the checkout form collects.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	Barangay   *string `json:"barangay,omitempty"`
	City       string  `json:"city"`
	Province   string  `json:"province"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// Customer is the recipient snapshot stored on an order.
type Customer struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Address         Address `json:"address"`
	DeliveryDate    string  `json:"delivery_date"`
	DeliverySlot    string  `json:"delivery_slot"`
	ExpressDelivery bool    `json:"express_delivery"`
	AddReferBag     bool    `json:"add_refer_bag"`
	Notes           *string `json:"notes,omitempty"`
	AttentionTo     *string `json:"attention_to,omitempty"`
}

// Recipient returns the attention-to name when present, otherwise the customer name.
func (c Customer) Recipient() string {
	if c.AttentionTo != nil && strings.TrimSpace(*c.AttentionTo) != "" {
		return strings.TrimSpace(*c.AttentionTo)
	}
	return c.Name
}
