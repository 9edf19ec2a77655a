package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

type PostgresOrders struct {
	pgStore
}

func NewPostgresOrders(db *sql.DB) *PostgresOrders {
	return &PostgresOrders{pgStore{db: db}}
}

var _ OrderRepository = (*PostgresOrders)(nil)

func (r *PostgresOrders) Create(ctx context.Context, o *domain.Order) error {
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("shipping address serialization: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, order_number, user_id, status, subtotal, tax, shipping_cost,
			discount_amount, total_amount, coupon_code, shipping_address,
			payment_method, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.q(ctx).ExecContext(ctx, query,
		o.ID, o.OrderNumber, o.UserID, o.Status, o.Subtotal, o.Tax,
		o.ShippingCost, o.DiscountAmount, o.TotalAmount,
		nullString(o.CouponCode), addressJSON, o.PaymentMethod,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order create: %w", mapPgError(err))
	}

	itemQuery := `
		INSERT INTO order_items (
			id, order_id, product_id, product_name, product_image,
			unit_price, quantity
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, it := range o.Items {
		_, err := r.q(ctx).ExecContext(ctx, itemQuery,
			it.ID, it.OrderID, it.ProductID, it.ProductName,
			it.ProductImage, it.UnitPrice, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("order item create: %w", mapPgError(err))
		}
	}
	return nil
}

func (r *PostgresOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, subtotal, tax, shipping_cost,
			   discount_amount, total_amount, coupon_code, shipping_address,
			   payment_method, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	o, err := scanOrder(r.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresOrders) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, order_number, user_id, status, subtotal, tax, shipping_cost,
			   discount_amount, total_amount, coupon_code, shipping_address,
			   payment_method, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q(ctx).QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("orders list: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *PostgresOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, order_number, user_id, status, subtotal, tax, shipping_cost,
			   discount_amount, total_amount, coupon_code, shipping_address,
			   payment_method, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := r.q(ctx).QueryContext(ctx, query, status, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("orders list: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *PostgresOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("order status update: %w", mapPgError(err))
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	var addressJSON []byte
	var couponCode sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.Tax,
		&o.ShippingCost, &o.DiscountAmount, &o.TotalAmount, &couponCode,
		&addressJSON, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("shipping address deserialization: %w", err)
	}
	if couponCode.Valid {
		o.CouponCode = couponCode.String
	}
	return o, nil
}

func (r *PostgresOrders) collectOrders(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresOrders) itemsFor(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, product_image,
			   unit_price, quantity
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.q(ctx).QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.UnitPrice, &it.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("order item scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
