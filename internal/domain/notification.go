package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is a delivered (or attempted) customer message,
// persisted by the notifier worker for auditability.
type Notification struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"order_id"`
	UserID    uuid.UUID          `json:"user_id"`
	Status    NotificationStatus `json:"status"`
	Subject   string             `json:"subject"`
	Message   string             `json:"message"`
	Recipient string             `json:"recipient"`
	CreatedAt time.Time          `json:"created_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}

func NewNotification(orderID, userID uuid.UUID, subject, message, recipient string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    userID,
		Status:    NotificationStatusPending,
		Subject:   subject,
		Message:   message,
		Recipient: recipient,
		CreatedAt: time.Now(),
	}
}

func (n *Notification) MarkAsSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
}

func (n *Notification) MarkAsFailed() {
	n.Status = NotificationStatusFailed
}
