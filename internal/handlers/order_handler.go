package handlers

import (
	"strconv"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService *service.OrderService
	validate     *validatorv10.Validate
}

func NewOrderHandler(orderService *service.OrderService, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{orderService: orderService, validate: validate}
}

// CreateOrder places an order from the caller's stored cart.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	actor := CurrentActor(c)
	order, err := h.orderService.Checkout(c.Context(), actor.UserID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress.ToAddress(),
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		return respondError(c, err)
	}

	return httpx.CreatedResponse(c, "Order created successfully", toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.GetOrder(c.Context(), CurrentActor(c), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Order retrieved successfully", toOrderResponse(order))
}

func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	page, limit := pagination(c)

	orders, err := h.orderService.ListForUser(c.Context(), CurrentActor(c).UserID, limit, (page-1)*limit)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Orders retrieved successfully", map[string]interface{}{
		"orders": toOrderResponses(orders),
		"pagination": map[string]interface{}{
			"page":  page,
			"limit": limit,
		},
	})
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.Cancel(c.Context(), CurrentActor(c), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Order cancelled successfully", toOrderResponse(order))
}

// ListOrders is the admin view with an optional status filter.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	page, limit := pagination(c)

	filter := repository.OrderFilter{Limit: limit, Offset: (page - 1) * limit}
	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := domain.ParseOrderStatus(statusStr)
		if !ok {
			return httpx.BadRequestResponse(c, "Invalid order status", map[string]interface{}{
				"status": statusStr,
			})
		}
		filter.Status = &status
	}

	orders, err := h.orderService.ListAll(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Orders retrieved successfully", map[string]interface{}{
		"orders": toOrderResponses(orders),
		"pagination": map[string]interface{}{
			"page":  page,
			"limit": limit,
		},
	})
}

// UpdateStatus applies an administrator-driven lifecycle transition.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	var req UpdateOrderStatusRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		return httpx.BadRequestResponse(c, "Invalid order status", map[string]interface{}{
			"status": req.Status,
		})
	}

	order, err := h.orderService.UpdateStatus(c.Context(), CurrentActor(c), orderID, status)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Order status updated successfully", toOrderResponse(order))
}

func pagination(c *fiber.Ctx) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
