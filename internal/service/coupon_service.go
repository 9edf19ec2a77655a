package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

type CouponService struct {
	coupons repository.CouponRepository
}

func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// CouponDiscount is the outcome of a successful validation. It is
// advisory: nothing is reserved until the order is placed.
type CouponDiscount struct {
	Code           string              `json:"code"`
	Description    string              `json:"description,omitempty"`
	DiscountType   domain.DiscountType `json:"discount_type"`
	DiscountValue  float64             `json:"discount_value"`
	DiscountAmount float64             `json:"discount_amount"`
}

// Validate runs the redemption policy for a submitted code against a
// cart total. Codes match case-insensitively.
func (s *CouponService) Validate(ctx context.Context, code string, cartTotal float64) (*CouponDiscount, error) {
	if cartTotal < 0 {
		return nil, fmt.Errorf("%w: negative cart total", ErrInvalidInput)
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("coupon lookup: %w", err)
	}

	if err := coupon.Validate(cartTotal, time.Now()); err != nil {
		return nil, err
	}

	return &CouponDiscount{
		Code:           coupon.Code,
		Description:    coupon.Description,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
		DiscountAmount: coupon.DiscountFor(cartTotal),
	}, nil
}

type CreateCouponInput struct {
	Code              string
	Description       string
	DiscountType      domain.DiscountType
	DiscountValue     float64
	MaxDiscountAmount *float64
	MinOrderAmount    float64
	StartDate         time.Time
	EndDate           *time.Time
	UsageLimit        *int
}

func (s *CouponService) Create(ctx context.Context, in CreateCouponInput) (*domain.Coupon, error) {
	code := domain.NormalizeCouponCode(in.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty coupon code", ErrInvalidInput)
	}
	if in.DiscountValue <= 0 {
		return nil, fmt.Errorf("%w: discount value must be positive", ErrInvalidInput)
	}
	if in.DiscountType == domain.DiscountPercentage && in.DiscountValue > 100 {
		return nil, fmt.Errorf("%w: percentage discount above 100", ErrInvalidInput)
	}

	now := time.Now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}

	coupon := &domain.Coupon{
		ID:                uuid.New(),
		Code:              code,
		Description:       in.Description,
		DiscountType:      in.DiscountType,
		DiscountValue:     in.DiscountValue,
		MaxDiscountAmount: in.MaxDiscountAmount,
		MinOrderAmount:    in.MinOrderAmount,
		StartDate:         start,
		EndDate:           in.EndDate,
		UsageLimit:        in.UsageLimit,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) Deactivate(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}

	coupon.IsActive = false
	coupon.UpdatedAt = time.Now()
	if err := s.coupons.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}
