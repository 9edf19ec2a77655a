package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus is the carrier-side vocabulary. It is mapped onto the
// order lifecycle when webhooks arrive.
type ShipmentStatus string

const (
	ShipmentStatusCreated   ShipmentStatus = "created"
	ShipmentStatusPickedUp  ShipmentStatus = "picked_up"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// Shipment records the handoff of an order to the external carrier.
// AWBNumber is the carrier's tracking identifier, opaque to this
// system beyond storage and display.
type Shipment struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"order_id"`
	AWBNumber string         `json:"awb_number"`
	Carrier   string         `json:"carrier"`
	Status    ShipmentStatus `json:"status"`
	LabelURL  string         `json:"label_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewShipment(orderID uuid.UUID, awbNumber, carrier, labelURL string) *Shipment {
	now := time.Now()
	return &Shipment{
		ID:        uuid.New(),
		OrderID:   orderID,
		AWBNumber: awbNumber,
		Carrier:   carrier,
		Status:    ShipmentStatusCreated,
		LabelURL:  labelURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrderStatusFor translates a carrier status into the order transition
// it implies. ok is false for statuses that do not move the order.
func (s ShipmentStatus) OrderStatusFor() (OrderStatus, bool) {
	switch s {
	case ShipmentStatusPickedUp, ShipmentStatusInTransit:
		return OrderStatusShipped, true
	case ShipmentStatusDelivered:
		return OrderStatusDelivered, true
	}
	return "", false
}

func ParseShipmentStatus(s string) (ShipmentStatus, bool) {
	switch ShipmentStatus(s) {
	case ShipmentStatusCreated, ShipmentStatusPickedUp, ShipmentStatusInTransit,
		ShipmentStatusDelivered, ShipmentStatusCancelled:
		return ShipmentStatus(s), true
	}
	return "", false
}
