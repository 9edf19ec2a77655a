package service

import (
	"context"
	"testing"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponService() (*CouponService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewCouponService(store.Coupons()), store
}

func TestCouponServiceCreateAndValidate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCouponService()

	maxDiscount := 100.0
	created, err := svc.Create(ctx, CreateCouponInput{
		Code:              "  half50 ",
		Description:       "Half off, capped",
		DiscountType:      domain.DiscountPercentage,
		DiscountValue:     50,
		MaxDiscountAmount: &maxDiscount,
	})
	require.NoError(t, err)
	assert.Equal(t, "HALF50", created.Code)
	assert.True(t, created.IsActive)

	discount, err := svc.Validate(ctx, "HALF50", 1000)
	require.NoError(t, err)
	assert.Equal(t, 100.0, discount.DiscountAmount)
	assert.Equal(t, domain.DiscountPercentage, discount.DiscountType)
}

func TestCouponServiceCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCouponService()

	tests := []struct {
		name string
		in   CreateCouponInput
	}{
		{"empty code", CreateCouponInput{DiscountType: domain.DiscountFixed, DiscountValue: 10}},
		{"zero value", CreateCouponInput{Code: "X", DiscountType: domain.DiscountFixed}},
		{"percentage above 100", CreateCouponInput{Code: "X", DiscountType: domain.DiscountPercentage, DiscountValue: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCouponServiceCreate_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCouponService()

	in := CreateCouponInput{Code: "TWICE", DiscountType: domain.DiscountFixed, DiscountValue: 10}
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrCouponCodeConflict)

	// Case-insensitive collision.
	in.Code = "twice"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrCouponCodeConflict)
}

func TestCouponServiceValidate_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCouponService()

	_, err := svc.Validate(ctx, "MISSING", 100)
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)

	_, err = svc.Validate(ctx, "MISSING", -5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	future, err := svc.Create(ctx, CreateCouponInput{
		Code:         "SOON",
		DiscountType: domain.DiscountFixed, DiscountValue: 10,
		StartDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Validate(ctx, future.Code, 100)
	assert.ErrorIs(t, err, domain.ErrCouponNotYetValid)
}

func TestCouponServiceDeactivate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCouponService()

	_, err := svc.Create(ctx, CreateCouponInput{Code: "BYE", DiscountType: domain.DiscountFixed, DiscountValue: 10})
	require.NoError(t, err)

	coupon, err := svc.Deactivate(ctx, "bye")
	require.NoError(t, err)
	assert.False(t, coupon.IsActive)

	_, err = svc.Validate(ctx, "BYE", 100)
	assert.ErrorIs(t, err, domain.ErrCouponInactive)

	_, err = svc.Deactivate(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)
}
