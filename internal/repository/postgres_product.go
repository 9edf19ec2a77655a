package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

type PostgresProducts struct {
	pgStore
}

func NewPostgresProducts(db *sql.DB) *PostgresProducts {
	return &PostgresProducts{pgStore{db: db}}
}

var _ ProductRepository = (*PostgresProducts)(nil)

func (r *PostgresProducts) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (
			id, vendor_id, name, description, image_url, price, stock,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q(ctx).ExecContext(ctx, query,
		p.ID, p.VendorID, p.Name, p.Description, p.ImageURL,
		p.Price, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("product create: %w", mapPgError(err))
	}
	return nil
}

func (r *PostgresProducts) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, vendor_id, name, description, image_url, price, stock,
			   is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	p := &domain.Product{}
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description, &p.ImageURL,
		&p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return p, nil
}

func (r *PostgresProducts) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, image_url = $4, price = $5,
			stock = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.ImageURL, p.Price,
		p.Stock, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("product update: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresProducts) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q(ctx).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("product delete: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT id, vendor_id, name, description, image_url, price, stock,
			   is_active, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2::numeric IS NULL OR price >= $2)
		  AND ($3::numeric IS NULL OR price <= $3)
		  AND ($4::uuid IS NULL OR vendor_id = $4)
		  AND (NOT $5 OR is_active)
		ORDER BY created_at DESC
		LIMIT $6 OFFSET $7
	`

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.q(ctx).QueryContext(ctx, query,
		f.NameSubstring, f.MinPrice, f.MaxPrice, f.VendorID,
		f.ActiveOnly, limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Description, &p.ImageURL,
			&p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("product scan: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProducts) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	// The WHERE stock >= qty condition is the real guard: two
	// concurrent checkouts of the last unit cannot both match.
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	result, err := r.q(ctx).ExecContext(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("stock decrement: %w", mapPgError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStockConflict
	}
	return nil
}

func (r *PostgresProducts) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("stock increment: %w", mapPgError(err))
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
