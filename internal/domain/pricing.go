package domain

import "math"

// PricingConfig holds the monetary constants of the storefront. They
// are configuration, not literals, so deployments can tune them.
type PricingConfig struct {
	TaxRate               float64
	FreeShippingThreshold float64
	ShippingFee           float64
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:               0.18,
		FreeShippingThreshold: 1000,
		ShippingFee:           50,
	}
}

// LineItem is the minimal shape the pricing calculator needs.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the fully computed price breakdown of a cart or order.
// Every field is already rounded to currency scale.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	ShippingCost   float64 `json:"shipping_cost"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// ComputeTotals prices a set of line items with an already-resolved
// discount. Rounding happens once per output field, never on
// intermediates, so repeated percentages do not compound error.
// The total is floored at zero: a discount can never make an order
// negative.
func ComputeTotals(items []LineItem, discount float64, cfg PricingConfig) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}

	tax := subtotal * cfg.TaxRate

	shipping := cfg.ShippingFee
	if subtotal > cfg.FreeShippingThreshold {
		shipping = 0
	}

	total := subtotal + tax + shipping - discount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       Round2(subtotal),
		Tax:            Round2(tax),
		ShippingCost:   Round2(shipping),
		DiscountAmount: Round2(discount),
		Total:          Round2(total),
	}
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
