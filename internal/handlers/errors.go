package handlers

import (
	"errors"
	"log"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
)

// respondError maps service and domain errors onto the response
// envelope: validation -> 400, absence/ownership -> 404, business
// conflicts (stock, coupon policy, state machine) -> 409, everything
// else -> 500. Conflict reasons are passed through verbatim so the
// caller sees the specific rule that failed.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return httpx.ConflictResponse(c, stockErr.Error(), map[string]interface{}{
			"product":   stockErr.ProductName,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyCart):
		return httpx.BadRequestResponse(c, err.Error(), nil)

	case errors.Is(err, service.ErrForbidden):
		return httpx.ForbiddenResponse(c, err.Error())

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrShipmentNotFound),
		errors.Is(err, repository.ErrNotFound):
		return httpx.NotFoundResponse(c, err.Error())

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrCouponInactive),
		errors.Is(err, domain.ErrCouponNotYetValid),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponUsageLimit),
		errors.Is(err, domain.ErrBelowMinimumOrder),
		errors.Is(err, domain.ErrCouponCodeConflict),
		errors.Is(err, service.ErrShipmentExists):
		return httpx.ConflictResponse(c, err.Error(), nil)
	}

	log.Printf("Internal error: %v", err)
	return httpx.InternalServerErrorResponse(c, "Internal server error", nil)
}

// parseBody binds the JSON body and runs struct validation. It writes
// the 400 itself and reports false so handlers can just return.
func parseBody(c *fiber.Ctx, v *validatorv10.Validate, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
		return false
	}
	if err := v.Struct(out); err != nil {
		httpx.BadRequestResponse(c, "Validation failed", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) map[string]interface{} {
	details := map[string]interface{}{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		details["error"] = err.Error()
	}
	return details
}
