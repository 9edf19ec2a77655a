package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyCart         = errors.New("cart is empty")
)

// InsufficientStockError names the first under-stocked product so the
// caller can surface it verbatim.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available=%d, requested=%d",
		e.ProductName, e.Available, e.Requested)
}

// ShippingAddress is snapshotted onto the order at placement.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderItem is a frozen copy of a product at order time. It is
// deliberately decoupled from the live Product row so later edits or
// deletions cannot corrupt historical orders.
type OrderItem struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image,omitempty"`
	UnitPrice    float64   `json:"unit_price"`
	Quantity     int       `json:"quantity"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	ShippingCost    float64         `json:"shipping_cost"`
	DiscountAmount  float64         `json:"discount_amount"`
	TotalAmount     float64         `json:"total_amount"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewOrder builds a PENDING order from cart lines and computed totals,
// freezing each line item.
func NewOrder(userID uuid.UUID, lines []CartLine, totals Totals, couponCode string, address ShippingAddress, paymentMethod string) *Order {
	now := time.Now()
	orderID := uuid.New()

	items := make([]OrderItem, len(lines))
	for i, l := range lines {
		items[i] = OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			ProductImage: l.Product.ImageURL,
			UnitPrice:    l.Product.Price,
			Quantity:     l.Item.Quantity,
		}
	}

	return &Order{
		ID:              orderID,
		OrderNumber:     GenerateOrderNumber(),
		UserID:          userID,
		Status:          OrderStatusPending,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.ShippingCost,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.Total,
		CouponCode:      couponCode,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// GenerateOrderNumber derives a number from the clock plus a short
// random suffix. That alone does not guarantee uniqueness under
// concurrency; the storage layer carries a unique constraint and the
// checkout retries once on collision.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixNano(), rand.Intn(1000))
}

// CanTransition encodes the order lifecycle: forward through
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED, with CANCELLED
// reachable only from PENDING. DELIVERED and CANCELLED are terminal.
func (o *Order) CanTransition(to OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusShipped
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

func (o *Order) UpdateStatus(to OrderStatus) error {
	if !o.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending
}
