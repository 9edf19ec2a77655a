package carrier

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// MockClient simulates the carrier for local runs and tests.
type MockClient struct {
	FailureRate float64 // 0.0 - 1.0
}

func NewMockClient(failureRate float64) *MockClient {
	return &MockClient{FailureRate: failureRate}
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResponse, error) {
	if rand.Float64() < m.FailureRate {
		return nil, fmt.Errorf("carrier provider unavailable")
	}

	awb := fmt.Sprintf("AWB%d%04d", time.Now().Unix(), rand.Intn(10000))
	return &CreateShipmentResponse{
		AWBNumber: awb,
		Carrier:   "mockexpress",
		LabelURL:  fmt.Sprintf("https://labels.mockexpress.test/%s.pdf", awb),
	}, nil
}

func (m *MockClient) Track(ctx context.Context, awbNumber string) (*TrackingResponse, error) {
	if rand.Float64() < m.FailureRate {
		return nil, fmt.Errorf("carrier provider unavailable")
	}

	return &TrackingResponse{
		AWBNumber: awbNumber,
		Status:    "in_transit",
		Events: []TrackingEvent{
			{Status: "created", Location: "warehouse", Timestamp: time.Now().Add(-time.Hour)},
			{Status: "in_transit", Location: "hub-" + uuid.New().String()[:8], Timestamp: time.Now()},
		},
	}, nil
}

func (m *MockClient) CancelShipment(ctx context.Context, awbNumber string) error {
	if rand.Float64() < m.FailureRate {
		return fmt.Errorf("carrier provider unavailable")
	}
	return nil
}
