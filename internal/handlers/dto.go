package handlers

import (
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

type ShippingAddressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func (r ShippingAddressRequest) ToAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Country: r.Country,
	}
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ValidateCouponRequest struct {
	Code      string  `json:"code" validate:"required"`
	CartTotal float64 `json:"cart_total" validate:"gte=0"`
}

type CreateCouponRequest struct {
	Code              string     `json:"code" validate:"required"`
	Description       string     `json:"description,omitempty"`
	DiscountType      string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountValue     float64    `json:"discount_value" validate:"required,gt=0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	MinOrderAmount    float64    `json:"min_order_amount" validate:"gte=0"`
	StartDate         time.Time  `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type CarrierWebhookRequest struct {
	AWBNumber string `json:"awb_number" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

type OrderItemResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image,omitempty"`
	UnitPrice    float64   `json:"unit_price"`
	Quantity     int       `json:"quantity"`
}

type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	UserID          uuid.UUID              `json:"user_id"`
	Status          string                 `json:"status"`
	Items           []OrderItemResponse    `json:"items"`
	Subtotal        float64                `json:"subtotal"`
	Tax             float64                `json:"tax"`
	ShippingCost    float64                `json:"shipping_cost"`
	DiscountAmount  float64                `json:"discount_amount"`
	TotalAmount     float64                `json:"total_amount"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingCost:    o.ShippingCost,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		CouponCode:      o.CouponCode,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}
