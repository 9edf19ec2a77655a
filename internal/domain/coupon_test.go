package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrTime(v time.Time) *time.Time {
	return &v
}

func activeCoupon() *Coupon {
	return &Coupon{
		Code:          "WELCOME10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mutate    func(*Coupon)
		cartTotal float64
		wantErr   error
	}{
		{
			name:      "valid coupon passes",
			mutate:    func(c *Coupon) {},
			cartTotal: 100,
		},
		{
			name:      "inactive",
			mutate:    func(c *Coupon) { c.IsActive = false },
			cartTotal: 100,
			wantErr:   ErrCouponInactive,
		},
		{
			name:      "not yet valid",
			mutate:    func(c *Coupon) { c.StartDate = now.Add(time.Hour) },
			cartTotal: 100,
			wantErr:   ErrCouponNotYetValid,
		},
		{
			name:      "expired",
			mutate:    func(c *Coupon) { c.EndDate = ptrTime(now.Add(-time.Minute)) },
			cartTotal: 100,
			wantErr:   ErrCouponExpired,
		},
		{
			name: "usage limit reached",
			mutate: func(c *Coupon) {
				c.UsageLimit = ptrInt(5)
				c.UsedCount = 5
			},
			cartTotal: 100,
			wantErr:   ErrCouponUsageLimit,
		},
		{
			name:      "below minimum order",
			mutate:    func(c *Coupon) { c.MinOrderAmount = 200 },
			cartTotal: 100,
			wantErr:   ErrBelowMinimumOrder,
		},
		{
			name:      "minimum order boundary is inclusive",
			mutate:    func(c *Coupon) { c.MinOrderAmount = 100 },
			cartTotal: 100,
		},
		{
			name: "inactive outranks expiry",
			mutate: func(c *Coupon) {
				c.IsActive = false
				c.EndDate = ptrTime(now.Add(-time.Minute))
			},
			cartTotal: 100,
			wantErr:   ErrCouponInactive,
		},
		{
			name: "expiry outranks usage limit",
			mutate: func(c *Coupon) {
				c.EndDate = ptrTime(now.Add(-time.Minute))
				c.UsageLimit = ptrInt(1)
				c.UsedCount = 1
			},
			cartTotal: 100,
			wantErr:   ErrCouponExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := activeCoupon()
			tt.mutate(coupon)
			err := coupon.Validate(tt.cartTotal, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCouponDiscountFor(t *testing.T) {
	tests := []struct {
		name      string
		coupon    Coupon
		cartTotal float64
		want      float64
	}{
		{
			name:      "percentage",
			coupon:    Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			cartTotal: 500,
			want:      50,
		},
		{
			name: "percentage capped at max discount",
			coupon: Coupon{
				DiscountType:      DiscountPercentage,
				DiscountValue:     50,
				MaxDiscountAmount: ptrFloat(100),
			},
			cartTotal: 1000,
			want:      100,
		},
		{
			name: "cap above computed discount is inert",
			coupon: Coupon{
				DiscountType:      DiscountPercentage,
				DiscountValue:     10,
				MaxDiscountAmount: ptrFloat(500),
			},
			cartTotal: 200,
			want:      20,
		},
		{
			name:      "fixed amount",
			coupon:    Coupon{DiscountType: DiscountFixed, DiscountValue: 75},
			cartTotal: 500,
			want:      75,
		},
		{
			name:      "fixed amount clamped to cart total",
			coupon:    Coupon{DiscountType: DiscountFixed, DiscountValue: 75},
			cartTotal: 40,
			want:      40,
		},
		{
			name:      "hundred percent takes the whole cart",
			coupon:    Coupon{DiscountType: DiscountPercentage, DiscountValue: 100},
			cartTotal: 250,
			want:      250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.DiscountFor(tt.cartTotal))
		})
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", NormalizeCouponCode("  welcome10 "))
	assert.Equal(t, "SAVE50", NormalizeCouponCode("Save50"))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}

func TestParseDiscountType(t *testing.T) {
	dt, ok := ParseDiscountType("PERCENTAGE")
	assert.True(t, ok)
	assert.Equal(t, DiscountPercentage, dt)

	_, ok = ParseDiscountType("percentage")
	assert.False(t, ok)
}
