package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/messaging"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
	coupons   repository.CouponRepository
	tx        repository.TxManager
	publisher EventPublisher
	pricing   domain.PricingConfig
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	coupons repository.CouponRepository,
	tx repository.TxManager,
	publisher EventPublisher,
	pricing domain.PricingConfig,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		carts:     carts,
		coupons:   coupons,
		tx:        tx,
		publisher: publisher,
		pricing:   pricing,
	}
}

type CheckoutInput struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	CouponCode      string
}

// Checkout places an order from the caller's stored cart. Line items
// never come from the request, so prices cannot be tampered with.
//
// Pricing and coupon validation happen up front; the stock decrement,
// coupon redemption, order insert and cart clear then run as one
// transaction. The conditional decrement inside the transaction is the
// authoritative stock check; the earlier pass over the cart snapshot
// only fails fast. An order-number collision rolls the whole unit back
// and is retried once with a fresh number.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (*domain.Order, error) {
	if in.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart load: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	for _, l := range lines {
		if l.Item.Quantity > l.Product.Stock {
			return nil, &domain.InsufficientStockError{
				ProductName: l.Product.Name,
				Available:   l.Product.Stock,
				Requested:   l.Item.Quantity,
			}
		}
	}

	items := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		items[i] = l.LineItem()
	}

	prelim := domain.ComputeTotals(items, 0, s.pricing)

	var discount float64
	var couponCode string
	if in.CouponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, in.CouponCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.ErrCouponNotFound
			}
			return nil, fmt.Errorf("coupon lookup: %w", err)
		}
		if err := coupon.Validate(prelim.Total, time.Now()); err != nil {
			return nil, err
		}
		discount = coupon.DiscountFor(prelim.Total)
		couponCode = coupon.Code
	}

	totals := domain.ComputeTotals(items, discount, s.pricing)

	var order *domain.Order
	placeOrder := func(ctx context.Context) error {
		for _, l := range lines {
			if err := s.products.DecrementStock(ctx, l.Product.ID, l.Item.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					available := 0
					name := l.Product.Name
					if p, perr := s.products.GetByID(ctx, l.Product.ID); perr == nil {
						available = p.Stock
						name = p.Name
					}
					return &domain.InsufficientStockError{
						ProductName: name,
						Available:   available,
						Requested:   l.Item.Quantity,
					}
				}
				return err
			}
		}

		if couponCode != "" {
			if err := s.coupons.IncrementUsage(ctx, couponCode); err != nil {
				if errors.Is(err, repository.ErrUsageExhausted) {
					return domain.ErrCouponUsageLimit
				}
				return err
			}
		}

		order = domain.NewOrder(userID, lines, totals, couponCode, in.ShippingAddress, in.PaymentMethod)
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.carts.Clear(ctx, userID)
	}

	err = s.tx.WithTransaction(ctx, placeOrder)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Timestamp+random order numbers can collide; retry the whole
		// unit once with a fresh number.
		err = s.tx.WithTransaction(ctx, placeOrder)
	}
	if err != nil {
		return nil, err
	}

	s.publish(messaging.OrderConfirmedEvent, order)
	return order, nil
}

// Cancel transitions PENDING -> CANCELLED and restores each product's
// stock in the same transaction. Any other starting status is an
// invalid transition; a second cancel therefore cannot restock twice.
func (s *OrderService) Cancel(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.getOwned(ctx, actor, orderID)
		if err != nil {
			return err
		}
		if !order.CanCancel() {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderStatusCancelled)
		}

		for _, it := range order.Items {
			if err := s.products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				// The product may have been deleted since the order
				// was placed; the frozen line item still stands.
				if !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}
		}

		if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = domain.OrderStatusCancelled
		order.UpdatedAt = time.Now()
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(messaging.OrderCancelledEvent, cancelled)
	return cancelled, nil
}

// UpdateStatus applies an administrator- or webhook-driven transition.
// CANCELLED routes through Cancel so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if status == domain.OrderStatusCancelled {
		return s.Cancel(ctx, actor, orderID)
	}

	order, err := s.getOwned(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}

	if status == domain.OrderStatusShipped {
		s.publish(messaging.OrderShippedEvent, order)
	}
	if status == domain.OrderStatusDelivered {
		s.publish(messaging.OrderDeliveredEvent, order)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	return s.getOwned(ctx, actor, orderID)
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *OrderService) ListAll(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}

// getOwned hides orders that exist but belong to someone else: a
// non-admin caller sees not-found, not forbidden.
func (s *OrderService) getOwned(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) publish(eventType messaging.NotificationEventType, order *domain.Order) {
	if s.publisher == nil || order == nil {
		return
	}
	event := messaging.NotificationEvent{
		ID:          uuid.New(),
		EventType:   eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.Publish(event); err != nil {
		// The order is already durable; a lost notification must not
		// surface as a failure.
		log.Printf("Notification publish error for order %s: %v", order.OrderNumber, err)
	}
}
