package handlers

import (
	"strconv"

	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService *service.ProductService
	validate       *validatorv10.Validate
}

func NewProductHandler(productService *service.ProductService, validate *validatorv10.Validate) *ProductHandler {
	return &ProductHandler{productService: productService, validate: validate}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page, limit := pagination(c)
	filter := repository.ProductFilter{
		NameSubstring: c.Query("search"),
		ActiveOnly:    true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &p
		}
	}
	if v := c.Query("vendor_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.VendorID = &id
		}
	}

	products, err := h.productService.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	product, err := h.productService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	var req ProductRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	product, err := h.productService.Create(c.Context(), actor, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return httpx.CreatedResponse(c, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var req ProductRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	product, err := h.productService.Update(c.Context(), actor, id, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	if err := h.productService.Delete(c.Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product deleted successfully", nil)
}

func (h *ProductHandler) RestockProduct(c *fiber.Ctx) error {
	actor := CurrentActor(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var req RestockRequest
	if !parseBody(c, h.validate, &req) {
		return nil
	}

	product, err := h.productService.Restock(c.Context(), actor, id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product restocked successfully", product)
}
