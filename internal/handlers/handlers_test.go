package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	"github.com/gofiber/fiber/v2"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app   *fiber.App
	store *repository.MemoryStore
}

// newTestApp wires the HTTP surface onto the in-memory store, with
// the same middleware layout the server uses.
func newTestApp() *testApp {
	store := repository.NewMemoryStore()
	pricing := domain.DefaultPricingConfig()

	productService := service.NewProductService(store.Products())
	cartService := service.NewCartService(store.Carts(), store.Products(), pricing)
	wishlistService := service.NewWishlistService(store.Wishlists(), store.Products(), store.Carts())
	couponService := service.NewCouponService(store.Coupons())
	orderService := service.NewOrderService(store.Orders(), store.Products(), store.Carts(), store.Coupons(), store.Tx(), nil, pricing)

	validate := validatorv10.New()
	productHandler := NewProductHandler(productService, validate)
	cartHandler := NewCartHandler(cartService, wishlistService, validate)
	couponHandler := NewCouponHandler(couponService, validate)
	orderHandler := NewOrderHandler(orderService, validate)

	app := fiber.New()
	api := app.Group("/api/v1")

	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", Authenticate(), RequireRole(domain.RoleVendor, domain.RoleAdmin), productHandler.CreateProduct)

	cart := api.Group("/cart", Authenticate())
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddItem)

	api.Post("/coupons/validate", Authenticate(), couponHandler.ValidateCoupon)
	api.Post("/admin/coupons", Authenticate(), RequireRole(domain.RoleAdmin), couponHandler.CreateCoupon)

	orders := api.Group("/orders", Authenticate())
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/cancel", orderHandler.CancelOrder)

	return &testApp{app: app, store: store}
}

func (ta *testApp) request(t *testing.T, method, path string, body interface{}, actor *domain.Actor) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("X-User-ID", actor.UserID.String())
		req.Header.Set("X-User-Role", string(actor.Role))
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &envelope))
	}
	return resp, envelope
}

func (ta *testApp) seedProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := domain.NewProduct(nil, name, "", "", price, stock)
	require.NoError(t, ta.store.Products().Create(context.Background(), p))
	return p
}

func orderBody() map[string]interface{} {
	return map[string]interface{}{
		"shipping_address": map[string]string{
			"street":   "1 Main St",
			"city":     "Istanbul",
			"state":    "34",
			"zip_code": "34000",
			"country":  "TR",
		},
		"payment_method": "credit_card",
	}
}

func TestAuthenticationRequired(t *testing.T) {
	ta := newTestApp()

	resp, envelope := ta.request(t, http.MethodGet, "/api/v1/cart/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, envelope["success"])
}

func TestRoleGating(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

	body := map[string]interface{}{"name": "Keyboard", "price": 100, "stock": 5}
	resp, _ := ta.request(t, http.MethodPost, "/api/v1/products", body, customer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	vendor := &domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}
	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/products", body, vendor)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, envelope["success"])
}

func TestCheckoutFlow(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	p := ta.seedProduct(t, "Keyboard", 100, 5)

	// Add to cart.
	resp, _ := ta.request(t, http.MethodPost, "/api/v1/cart/items",
		map[string]interface{}{"product_id": p.ID, "quantity": 2}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Place the order.
	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/orders/", orderBody(), customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, 286.0, data["total_amount"])
	orderID := data["id"].(string)

	// Fetch it back.
	resp, envelope = ta.request(t, http.MethodGet, "/api/v1/orders/"+orderID, nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Another customer cannot see it.
	stranger := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	resp, _ = ta.request(t, http.MethodGet, "/api/v1/orders/"+orderID, nil, stranger)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Cancel.
	resp, envelope = ta.request(t, http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = envelope["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", data["status"])

	// Cancelling again conflicts.
	resp, _ = ta.request(t, http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", nil, customer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/orders/", orderBody(), customer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_InsufficientStockConflict(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	p := ta.seedProduct(t, "Keyboard", 100, 1)

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/cart/items",
		map[string]interface{}{"product_id": p.ID, "quantity": 1}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Stock vanishes between carting and checkout.
	require.NoError(t, ta.store.Products().DecrementStock(context.Background(), p.ID, 1))

	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/orders/", orderBody(), customer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errObj := envelope["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "Keyboard", details["product"])
}

func TestValidateCoupon(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	admin := &domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/admin/coupons", map[string]interface{}{
		"code":           "SAVE10",
		"discount_type":  "PERCENTAGE",
		"discount_value": 10,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/coupons/validate", map[string]interface{}{
		"code":       "save10",
		"cart_total": 500,
	}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, 50.0, data["discount_amount"])

	resp, _ = ta.request(t, http.MethodPost, "/api/v1/coupons/validate", map[string]interface{}{
		"code":       "MISSING",
		"cart_total": 500,
	}, customer)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// A zero cart total is a legitimate input and must reach the coupon
// policy rather than die in request validation.
func TestValidateCoupon_ZeroCartTotal(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}
	admin := &domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	resp, _ := ta.request(t, http.MethodPost, "/api/v1/admin/coupons", map[string]interface{}{
		"code":           "SAVE10",
		"discount_type":  "PERCENTAGE",
		"discount_value": 10,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ta.request(t, http.MethodPost, "/api/v1/admin/coupons", map[string]interface{}{
		"code":             "BIG50",
		"discount_type":    "FIXED_AMOUNT",
		"discount_value":   50,
		"min_order_amount": 100,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// No minimum: the coupon applies and the discount clamps to zero.
	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/coupons/validate", map[string]interface{}{
		"code":       "SAVE10",
		"cart_total": 0,
	}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["discount_amount"])

	// With a minimum: the policy's own rejection, not a validation 400.
	resp, envelope = ta.request(t, http.MethodPost, "/api/v1/coupons/validate", map[string]interface{}{
		"code":       "BIG50",
		"cart_total": 0,
	}, customer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	apiErr := envelope["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", apiErr["code"])
}

func TestValidationFailure(t *testing.T) {
	ta := newTestApp()
	customer := &domain.Actor{UserID: uuid.New(), Role: domain.RoleCustomer}

	// Missing payment_method and address fields.
	resp, envelope := ta.request(t, http.MethodPost, "/api/v1/orders/",
		map[string]interface{}{"payment_method": ""}, customer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, envelope["success"])
}

func TestPublicCatalog(t *testing.T) {
	ta := newTestApp()
	p := ta.seedProduct(t, "Keyboard", 100, 5)

	resp, envelope := ta.request(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "Keyboard", data["name"])

	resp, _ = ta.request(t, http.MethodGet, "/api/v1/products/"+uuid.New().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
