package carrier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is the external carrier API boundary. The AWB number it
// returns is opaque to this system beyond storage and display.
type Client interface {
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResponse, error)
	Track(ctx context.Context, awbNumber string) (*TrackingResponse, error)
	CancelShipment(ctx context.Context, awbNumber string) error
}

type CreateShipmentRequest struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zip_code"`
	Country     string    `json:"country"`
	WeightGrams int       `json:"weight_grams,omitempty"`
	CODAmount   float64   `json:"cod_amount,omitempty"`
}

type CreateShipmentResponse struct {
	AWBNumber string `json:"awb_number"`
	Carrier   string `json:"carrier"`
	LabelURL  string `json:"label_url,omitempty"`
}

type TrackingResponse struct {
	AWBNumber string          `json:"awb_number"`
	Status    string          `json:"status"`
	Events    []TrackingEvent `json:"events,omitempty"`
}

type TrackingEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
