package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/messaging"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) Send(recipient, subject, message string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, subject)
	return nil
}

func confirmedEvent() messaging.NotificationEvent {
	return messaging.NotificationEvent{
		ID:          uuid.New(),
		EventType:   messaging.OrderConfirmedEvent,
		OrderID:     uuid.New(),
		OrderNumber: "ORD-1700000000000000000-042",
		UserID:      uuid.New(),
		TotalAmount: 345,
		Timestamp:   time.Now(),
	}
}

func TestNotificationProcess(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	sender := &recordingSender{}
	svc := NewNotificationService(store.Notifications(), sender)

	event := confirmedEvent()
	require.NoError(t, svc.Process(ctx, event))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], event.OrderNumber)

	rows, err := svc.ListByOrder(ctx, event.OrderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotificationStatusSent, rows[0].Status)
	assert.NotNil(t, rows[0].SentAt)
	assert.Equal(t, "user:"+event.UserID.String(), rows[0].Recipient)
}

func TestNotificationProcess_SendFailureRecorded(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewNotificationService(store.Notifications(), sender)

	event := confirmedEvent()
	err := svc.Process(ctx, event)
	require.Error(t, err)

	rows, listErr := svc.ListByOrder(ctx, event.OrderID)
	require.NoError(t, listErr)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotificationStatusFailed, rows[0].Status)
	assert.Nil(t, rows[0].SentAt)
}

func TestNotificationProcess_ExplicitRecipient(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	sender := &recordingSender{}
	svc := NewNotificationService(store.Notifications(), sender)

	event := confirmedEvent()
	event.Recipient = "customer@example.com"
	require.NoError(t, svc.Process(ctx, event))

	rows, err := svc.ListByOrder(ctx, event.OrderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "customer@example.com", rows[0].Recipient)
}
