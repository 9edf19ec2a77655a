package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
)

type PostgresCoupons struct {
	pgStore
}

func NewPostgresCoupons(db *sql.DB) *PostgresCoupons {
	return &PostgresCoupons{pgStore{db: db}}
}

var _ CouponRepository = (*PostgresCoupons)(nil)

func (r *PostgresCoupons) Create(ctx context.Context, c *domain.Coupon) error {
	query := `
		INSERT INTO coupons (
			id, code, description, discount_type, discount_value,
			max_discount_amount, min_order_amount, start_date, end_date,
			usage_limit, used_count, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q(ctx).ExecContext(ctx, query,
		c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MaxDiscountAmount, c.MinOrderAmount, c.StartDate, c.EndDate,
		c.UsageLimit, c.UsedCount, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		err = mapPgError(err)
		if errors.Is(err, ErrDuplicateKey) {
			return domain.ErrCouponCodeConflict
		}
		return fmt.Errorf("coupon create: %w", err)
	}
	return nil
}

func (r *PostgresCoupons) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
		SELECT id, code, description, discount_type, discount_value,
			   max_discount_amount, min_order_amount, start_date, end_date,
			   usage_limit, used_count, is_active, created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	c := &domain.Coupon{}
	err := r.q(ctx).QueryRowContext(ctx, query, domain.NormalizeCouponCode(code)).Scan(
		&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MaxDiscountAmount, &c.MinOrderAmount, &c.StartDate, &c.EndDate,
		&c.UsageLimit, &c.UsedCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return c, nil
}

func (r *PostgresCoupons) Update(ctx context.Context, c *domain.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, discount_type = $3, discount_value = $4,
			max_discount_amount = $5, min_order_amount = $6, start_date = $7,
			end_date = $8, usage_limit = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query,
		c.ID, c.Description, c.DiscountType, c.DiscountValue,
		c.MaxDiscountAmount, c.MinOrderAmount, c.StartDate, c.EndDate,
		c.UsageLimit, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("coupon update: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresCoupons) List(ctx context.Context) ([]domain.Coupon, error) {
	query := `
		SELECT id, code, description, discount_type, discount_value,
			   max_discount_amount, min_order_amount, start_date, end_date,
			   usage_limit, used_count, is_active, created_at, updated_at
		FROM coupons
		ORDER BY created_at DESC
	`

	rows, err := r.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("coupon list: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		err := rows.Scan(
			&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
			&c.MaxDiscountAmount, &c.MinOrderAmount, &c.StartDate, &c.EndDate,
			&c.UsageLimit, &c.UsedCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("coupon scan: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *PostgresCoupons) IncrementUsage(ctx context.Context, code string) error {
	// One conditional write, so the limit holds under concurrent
	// checkouts: validation alone never reserves usage.
	query := `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE code = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	result, err := r.q(ctx).ExecContext(ctx, query, domain.NormalizeCouponCode(code))
	if err != nil {
		return fmt.Errorf("coupon usage increment: %w", mapPgError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByCode(ctx, code); err != nil {
			return err
		}
		return ErrUsageExhausted
	}
	return nil
}
