package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

type PostgresShipments struct {
	pgStore
}

func NewPostgresShipments(db *sql.DB) *PostgresShipments {
	return &PostgresShipments{pgStore{db: db}}
}

var _ ShipmentRepository = (*PostgresShipments)(nil)

func (r *PostgresShipments) Create(ctx context.Context, s *domain.Shipment) error {
	query := `
		INSERT INTO shipments (
			id, order_id, awb_number, carrier, status, label_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q(ctx).ExecContext(ctx, query,
		s.ID, s.OrderID, s.AWBNumber, s.Carrier, s.Status, s.LabelURL,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("shipment create: %w", mapPgError(err))
	}
	return nil
}

func (r *PostgresShipments) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	return r.get(ctx, `WHERE order_id = $1`, orderID)
}

func (r *PostgresShipments) GetByAWB(ctx context.Context, awb string) (*domain.Shipment, error) {
	return r.get(ctx, `WHERE awb_number = $1`, awb)
}

func (r *PostgresShipments) get(ctx context.Context, where string, arg interface{}) (*domain.Shipment, error) {
	query := `
		SELECT id, order_id, awb_number, carrier, status, label_url,
			   created_at, updated_at
		FROM shipments ` + where

	s := &domain.Shipment{}
	err := r.q(ctx).QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.OrderID, &s.AWBNumber, &s.Carrier, &s.Status, &s.LabelURL,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return s, nil
}

func (r *PostgresShipments) Update(ctx context.Context, s *domain.Shipment) error {
	query := `
		UPDATE shipments
		SET status = $2, label_url = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query, s.ID, s.Status, s.LabelURL, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("shipment update: %w", mapPgError(err))
	}
	return requireRow(result)
}

type PostgresNotifications struct {
	pgStore
}

func NewPostgresNotifications(db *sql.DB) *PostgresNotifications {
	return &PostgresNotifications{pgStore{db: db}}
}

var _ NotificationRepository = (*PostgresNotifications)(nil)

func (r *PostgresNotifications) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (
			id, order_id, user_id, status, subject, message, recipient,
			created_at, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q(ctx).ExecContext(ctx, query,
		n.ID, n.OrderID, n.UserID, n.Status, n.Subject, n.Message,
		n.Recipient, n.CreatedAt, n.SentAt,
	)
	if err != nil {
		return fmt.Errorf("notification create: %w", mapPgError(err))
	}
	return nil
}

func (r *PostgresNotifications) Update(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET status = $2, sent_at = $3
		WHERE id = $1
	`

	result, err := r.q(ctx).ExecContext(ctx, query, n.ID, n.Status, n.SentAt)
	if err != nil {
		return fmt.Errorf("notification update: %w", mapPgError(err))
	}
	return requireRow(result)
}

func (r *PostgresNotifications) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Notification, error) {
	query := `
		SELECT id, order_id, user_id, status, subject, message, recipient,
			   created_at, sent_at
		FROM notifications
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.q(ctx).QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("notification list: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var sentAt sql.NullTime
		err := rows.Scan(
			&n.ID, &n.OrderID, &n.UserID, &n.Status, &n.Subject, &n.Message,
			&n.Recipient, &n.CreatedAt, &sentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("notification scan: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			n.SentAt = &t
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
