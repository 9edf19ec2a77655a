package messaging

import (
	"time"

	"github.com/google/uuid"
)

type NotificationEventType string

const (
	OrderConfirmedEvent NotificationEventType = "order.confirmed"
	OrderShippedEvent   NotificationEventType = "order.shipped"
	OrderCancelledEvent NotificationEventType = "order.cancelled"
	OrderDeliveredEvent NotificationEventType = "order.delivered"
)

// NotificationEvent is published by the API after a durable state
// change and consumed by the notifier worker. Publishing is always
// best-effort from the producer's point of view: the order is already
// committed by the time this is sent.
type NotificationEvent struct {
	ID          uuid.UUID             `json:"id"`
	EventType   NotificationEventType `json:"event_type"`
	OrderID     uuid.UUID             `json:"order_id"`
	OrderNumber string                `json:"order_number"`
	UserID      uuid.UUID             `json:"user_id"`
	Recipient   string                `json:"recipient,omitempty"`
	TotalAmount float64               `json:"total_amount,omitempty"`
	AWBNumber   string                `json:"awb_number,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
}
