package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

func ParseDiscountType(s string) (DiscountType, bool) {
	switch DiscountType(s) {
	case DiscountPercentage, DiscountFixed:
		return DiscountType(s), true
	}
	return "", false
}

// Coupon policy rejections, in check order.
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponNotYetValid  = errors.New("coupon is not valid yet")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponUsageLimit   = errors.New("coupon usage limit reached")
	ErrBelowMinimumOrder  = errors.New("cart total is below the coupon minimum order amount")
	ErrCouponCodeConflict = errors.New("coupon code already exists")
)

// Coupon entitles a cart to a discount, subject to date, usage and
// minimum-order constraints. Codes are case-insensitive and stored
// uppercase. MaxDiscountAmount only applies to PERCENTAGE coupons.
type Coupon struct {
	ID                uuid.UUID    `json:"id"`
	Code              string       `json:"code"`
	Description       string       `json:"description,omitempty"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountValue     float64      `json:"discount_value"`
	MaxDiscountAmount *float64     `json:"max_discount_amount,omitempty"`
	MinOrderAmount    float64      `json:"min_order_amount"`
	StartDate         time.Time    `json:"start_date"`
	EndDate           *time.Time   `json:"end_date,omitempty"`
	UsageLimit        *int         `json:"usage_limit,omitempty"`
	UsedCount         int          `json:"used_count"`
	IsActive          bool         `json:"is_active"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NormalizeCouponCode folds a submitted code to its canonical form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate runs the redemption policy against a cart total at a given
// instant. It does not reserve usage; the used-count increment happens
// atomically at order placement, not here.
func (c *Coupon) Validate(cartTotal float64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.StartDate) {
		return ErrCouponNotYetValid
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponUsageLimit
	}
	if cartTotal < c.MinOrderAmount {
		return ErrBelowMinimumOrder
	}
	return nil
}

// DiscountFor computes the monetary discount for a cart total. The
// result is clamped to the cart total so a coupon can never drive an
// order negative.
func (c *Coupon) DiscountFor(cartTotal float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = cartTotal * c.DiscountValue / 100
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	}
	if discount > cartTotal {
		discount = cartTotal
	}
	return Round2(discount)
}
