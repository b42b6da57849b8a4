package checkout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/types"
)

// DeliverySelection is what the customer picked that affects pricing.
type DeliverySelection struct {
	PostalCode string
	Express    bool
	ThermalBag bool
}

// PostalTier overrides the base delivery fee for postal codes starting with Prefix.
type PostalTier struct {
	Prefix string
	Fee    decimal.Decimal
}

// PricingRules is the delivery fee policy.
type PricingRules struct {
	BaseDeliveryFee  decimal.Decimal
	PostalTiers      []PostalTier
	ExpressSurcharge decimal.Decimal
	ThermalBagFee    decimal.Decimal
	// FreeDeliveryThreshold waives the base fee once the subtotal reaches it. Zero disables it.
	FreeDeliveryThreshold decimal.Decimal
}

// RulesFromConfig parses the configured pricing policy.
func RulesFromConfig(cfg config.PricingConfig) (PricingRules, error) {
	rules := PricingRules{
		BaseDeliveryFee:       cfg.BaseDeliveryFee,
		ExpressSurcharge:      cfg.ExpressSurcharge,
		ThermalBagFee:         cfg.ThermalBagFee,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
	}
	for prefix, raw := range cfg.PostalTiers {
		prefix = normalizePostalCode(prefix)
		if prefix == "" {
			return PricingRules{}, fmt.Errorf("postal tier prefix is empty")
		}
		fee, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return PricingRules{}, fmt.Errorf("postal tier %q: %w", prefix, err)
		}
		rules.PostalTiers = append(rules.PostalTiers, PostalTier{Prefix: prefix, Fee: fee})
	}
	if err := rules.validate(); err != nil {
		return PricingRules{}, err
	}
	return rules, nil
}

func (r PricingRules) validate() error {
	amounts := map[string]decimal.Decimal{
		"base delivery fee":       r.BaseDeliveryFee,
		"express surcharge":       r.ExpressSurcharge,
		"thermal bag fee":         r.ThermalBagFee,
		"free delivery threshold": r.FreeDeliveryThreshold,
	}
	for name, amount := range amounts {
		if amount.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	for _, tier := range r.PostalTiers {
		if tier.Fee.IsNegative() {
			return fmt.Errorf("postal tier %q fee must not be negative", tier.Prefix)
		}
	}
	return nil
}

// Engine prices a cart subtotal against a fixed rule set. It holds no mutable state.
type Engine struct {
	rules PricingRules
}

// NewEngine validates the rules and orders postal tiers longest prefix first.
func NewEngine(rules PricingRules) (*Engine, error) {
	if err := rules.validate(); err != nil {
		return nil, err
	}
	tiers := make([]PostalTier, len(rules.PostalTiers))
	for i, tier := range rules.PostalTiers {
		tiers[i] = PostalTier{Prefix: normalizePostalCode(tier.Prefix), Fee: tier.Fee}
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		if len(tiers[i].Prefix) != len(tiers[j].Prefix) {
			return len(tiers[i].Prefix) > len(tiers[j].Prefix)
		}
		return tiers[i].Prefix < tiers[j].Prefix
	})
	rules.PostalTiers = tiers
	return &Engine{rules: rules}, nil
}

// Price computes the breakdown. Total is derived only from its parts.
func (e *Engine) Price(subtotal decimal.Decimal, selection DeliverySelection) types.Pricing {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	base := e.baseFee(selection.PostalCode)
	threshold := e.rules.FreeDeliveryThreshold
	if threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold) {
		base = decimal.Zero
	}

	express := decimal.Zero
	if selection.Express {
		express = e.rules.ExpressSurcharge
	}
	bag := decimal.Zero
	if selection.ThermalBag {
		bag = e.rules.ThermalBagFee
	}

	delivery := base.Add(express)
	return types.Pricing{
		Subtotal:         subtotal,
		DeliveryFee:      delivery,
		ExpressSurcharge: express,
		ThermalBagFee:    bag,
		Total:            subtotal.Add(delivery).Add(bag),
	}
}

func (e *Engine) baseFee(postalCode string) decimal.Decimal {
	code := normalizePostalCode(postalCode)
	if code != "" {
		for _, tier := range e.rules.PostalTiers {
			if strings.HasPrefix(code, tier.Prefix) {
				return tier.Fee
			}
		}
	}
	return e.rules.BaseDeliveryFee
}

func normalizePostalCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}
