package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

type PostgresCarts struct {
	pgStore
}

func NewPostgresCarts(db *sql.DB) *PostgresCarts {
	return &PostgresCarts{pgStore{db: db}}
}

var _ CartRepository = (*PostgresCarts)(nil)

func (r *PostgresCarts) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			   p.id, p.vendor_id, p.name, p.description, p.image_url, p.price, p.stock,
			   p.is_active, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("cart list: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		err := rows.Scan(
			&l.Item.ID, &l.Item.UserID, &l.Item.ProductID, &l.Item.Quantity,
			&l.Item.CreatedAt, &l.Item.UpdatedAt,
			&l.Product.ID, &l.Product.VendorID, &l.Product.Name, &l.Product.Description,
			&l.Product.ImageURL, &l.Product.Price, &l.Product.Stock,
			&l.Product.IsActive, &l.Product.CreatedAt, &l.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("cart scan: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PostgresCarts) GetItem(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	item := &domain.CartItem{}
	err := r.q(ctx).QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return item, nil
}

func (r *PostgresCarts) Add(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
					  updated_at = EXCLUDED.updated_at
	`

	_, err := r.q(ctx).ExecContext(ctx, query,
		item.ID, item.UserID, item.ProductID, item.Quantity,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("cart add: %w", mapPgError(err))
	}
	return nil
}

func (r *PostgresCarts) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
	`

	result, err := r.q(ctx).ExecContext(ctx, query, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("cart update: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresCarts) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("cart remove: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresCarts) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID,
	)
	if err != nil {
		return fmt.Errorf("cart clear: %w", mapPgError(err))
	}
	return nil
}

type PostgresWishlists struct {
	pgStore
}

func NewPostgresWishlists(db *sql.DB) *PostgresWishlists {
	return &PostgresWishlists{pgStore{db: db}}
}

var _ WishlistRepository = (*PostgresWishlists)(nil)

func (r *PostgresWishlists) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	query := `
		SELECT id, user_id, product_id, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("wishlist list: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("wishlist scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresWishlists) Add(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	_, err := r.q(ctx).ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("wishlist add: %w", mapPgError(err))
	}
	return nil
}

func (r *PostgresWishlists) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("wishlist remove: %w", mapPgError(err))
	}
	return requireRow(result)
}
