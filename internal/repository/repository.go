package repository

import (
	"context"
	"errors"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned on unique-constraint violations
	// (order numbers, coupon codes).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrStockConflict is returned when a conditional stock decrement
	// matches no row because available stock is below the requested
	// quantity.
	ErrStockConflict = errors.New("stock below requested quantity")
	// ErrUsageExhausted is returned when a conditional usage increment
	// finds the coupon already at its limit.
	ErrUsageExhausted = errors.New("coupon usage limit exhausted")
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	NameSubstring string
	MinPrice      *float64
	MaxPrice      *float64
	VendorID      *uuid.UUID
	ActiveOnly    bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)

	// DecrementStock performs an atomic conditional decrement
	// (stock = stock - qty WHERE stock >= qty) and reports
	// ErrStockConflict when the condition fails. The affected-row
	// check is the true stock guard under concurrent checkouts.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error)
	GetItem(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error)
	Add(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
	Add(ctx context.Context, item *domain.WishlistItem) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

type OrderRepository interface {
	// Create persists the order header and its frozen line items.
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Update(ctx context.Context, c *domain.Coupon) error
	List(ctx context.Context) ([]domain.Coupon, error)

	// IncrementUsage bumps used_count only while the usage limit is
	// not exhausted (used_count < usage_limit, or no limit), as one
	// conditional write. ErrUsageExhausted when the condition fails.
	IncrementUsage(ctx context.Context, code string) error
}

type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error)
	GetByAWB(ctx context.Context, awb string) (*domain.Shipment, error)
	Update(ctx context.Context, s *domain.Shipment) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Update(ctx context.Context, n *domain.Notification) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Notification, error)
}

// TxManager scopes a function to one atomic unit of work. Repository
// calls made with the callback's context join the transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
