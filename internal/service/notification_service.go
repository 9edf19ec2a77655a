package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/messaging"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

// Sender delivers a rendered message to a recipient. The production
// build wires a provider; LogSender stands in where none is
// configured, since transport is outside this system.
type Sender interface {
	Send(recipient, subject, message string) error
}

type LogSender struct{}

func (LogSender) Send(recipient, subject, message string) error {
	log.Printf("Notification to %s: %s: %s", recipient, subject, message)
	return nil
}

type NotificationService struct {
	notifications repository.NotificationRepository
	sender        Sender
}

func NewNotificationService(notifications repository.NotificationRepository, sender Sender) *NotificationService {
	return &NotificationService{notifications: notifications, sender: sender}
}

// Process renders and delivers one event, recording the attempt. The
// row is persisted before delivery so failures are auditable.
func (s *NotificationService) Process(ctx context.Context, event messaging.NotificationEvent) error {
	subject, message := render(event)

	recipient := event.Recipient
	if recipient == "" {
		recipient = fmt.Sprintf("user:%s", event.UserID)
	}

	notification := domain.NewNotification(event.OrderID, event.UserID, subject, message, recipient)
	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("notification create: %w", err)
	}

	if err := s.sender.Send(recipient, subject, message); err != nil {
		notification.MarkAsFailed()
		if updateErr := s.notifications.Update(ctx, notification); updateErr != nil {
			log.Printf("Notification status update error: %v", updateErr)
		}
		return fmt.Errorf("notification send: %w", err)
	}

	notification.MarkAsSent()
	if err := s.notifications.Update(ctx, notification); err != nil {
		log.Printf("Notification status update error: %v", err)
	}
	return nil
}

func (s *NotificationService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Notification, error) {
	return s.notifications.ListByOrder(ctx, orderID)
}

func render(event messaging.NotificationEvent) (subject, message string) {
	switch event.EventType {
	case messaging.OrderConfirmedEvent:
		return fmt.Sprintf("Order %s confirmed", event.OrderNumber),
			fmt.Sprintf("Your order %s for %.2f has been placed.", event.OrderNumber, event.TotalAmount)
	case messaging.OrderShippedEvent:
		return fmt.Sprintf("Order %s shipped", event.OrderNumber),
			fmt.Sprintf("Your order %s is on its way. Tracking: %s", event.OrderNumber, event.AWBNumber)
	case messaging.OrderDeliveredEvent:
		return fmt.Sprintf("Order %s delivered", event.OrderNumber),
			fmt.Sprintf("Your order %s has been delivered.", event.OrderNumber)
	case messaging.OrderCancelledEvent:
		return fmt.Sprintf("Order %s cancelled", event.OrderNumber),
			fmt.Sprintf("Your order %s has been cancelled.", event.OrderNumber)
	default:
		return fmt.Sprintf("Update for order %s", event.OrderNumber),
			fmt.Sprintf("Your order %s has an update.", event.OrderNumber)
	}
}
