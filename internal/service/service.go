package service

import (
	"errors"

	"github.com/bazaarhq/marketplace/internal/messaging"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// EventPublisher is the slice of the messaging layer services need.
// Dispatch is best-effort: callers log failures and move on, a lost
// notification never fails the state change that triggered it.
type EventPublisher interface {
	Publish(event messaging.NotificationEvent) error
}
