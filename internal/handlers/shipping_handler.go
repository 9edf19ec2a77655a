package handlers

import (
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ShippingHandler struct {
	shippingService *service.ShippingService
	validate        *validatorv10.Validate
}

func NewShippingHandler(shippingService *service.ShippingService, validate *validatorv10.Validate) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService, validate: validate}
}

// ShipOrder hands the order to the carrier and moves it to SHIPPED.
func (h *ShippingHandler) ShipOrder(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	shipment, err := h.shippingService.ShipOrder(c.Context(), actor, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.CreatedResponse(c, "Shipment created successfully", shipment)
}

func (h *ShippingHandler) TrackOrder(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	shipment, tracking, err := h.shippingService.Track(c.Context(), actor, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Tracking retrieved successfully", fiber.Map{
		"shipment": shipment,
		"tracking": tracking,
	})
}

// CarrierWebhook receives status callbacks from the carrier. The
// carrier retries delivery, so unknown AWB numbers return 404 and
// malformed payloads 400; everything else acks with 200.
func (h *ShippingHandler) CarrierWebhook(c *fiber.Ctx) error {
	var req CarrierWebhookRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	if err := h.shippingService.HandleCarrierUpdate(c.Context(), req.AWBNumber, req.Status); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Shipment status updated", nil)
}
