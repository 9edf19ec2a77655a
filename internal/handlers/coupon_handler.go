package handlers

import (
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
)

type CouponHandler struct {
	couponService *service.CouponService
	validate      *validatorv10.Validate
}

func NewCouponHandler(couponService *service.CouponService, validate *validatorv10.Validate) *CouponHandler {
	return &CouponHandler{couponService: couponService, validate: validate}
}

// ValidateCoupon checks a code against a cart total. Nothing is
// reserved here; redemption happens at order placement.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req ValidateCouponRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	discount, err := h.couponService.Validate(c.Context(), req.Code, req.CartTotal)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Coupon is valid", discount)
}

func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req CreateCouponRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	discountType, _ := domain.ParseDiscountType(req.DiscountType)
	coupon, err := h.couponService.Create(c.Context(), service.CreateCouponInput{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      discountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		UsageLimit:        req.UsageLimit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return httpx.CreatedResponse(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.couponService.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Coupons retrieved successfully", coupons)
}

func (h *CouponHandler) DeactivateCoupon(c *fiber.Ctx) error {
	coupon, err := h.couponService.Deactivate(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Coupon deactivated successfully", coupon)
}
