package handlers

import (
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService     *service.CartService
	wishlistService *service.WishlistService
	validate        *validatorv10.Validate
}

func NewCartHandler(cartService *service.CartService, wishlistService *service.WishlistService, validate *validatorv10.Validate) *CartHandler {
	return &CartHandler{cartService: cartService, wishlistService: wishlistService, validate: validate}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	cart, err := h.cartService.GetCart(c.Context(), actor.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	var req CartItemRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	cart, err := h.cartService.AddItem(c.Context(), actor.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var req UpdateCartItemRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	cart, err := h.cartService.UpdateItem(c.Context(), actor.UserID, productID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Cart item updated", cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	cart, err := h.cartService.RemoveItem(c.Context(), actor.UserID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Item removed from cart", cart)
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	if err := h.cartService.Clear(c.Context(), actor.UserID); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Cart cleared", nil)
}

func (h *CartHandler) GetWishlist(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	entries, err := h.wishlistService.List(c.Context(), actor.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Wishlist retrieved successfully", entries)
}

func (h *CartHandler) AddToWishlist(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	var req WishlistRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	if err := h.wishlistService.Add(c.Context(), actor.UserID, req.ProductID); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Item added to wishlist", nil)
}

func (h *CartHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	if err := h.wishlistService.Remove(c.Context(), actor.UserID, productID); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Item removed from wishlist", nil)
}

// MoveToCart transfers a wishlist entry into the cart with quantity 1.
func (h *CartHandler) MoveToCart(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	if err := h.wishlistService.MoveToCart(c.Context(), actor.UserID, productID); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Item moved to cart", nil)
}
