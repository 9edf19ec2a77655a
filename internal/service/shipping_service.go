package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bazaarhq/marketplace/internal/carrier"
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

var ErrShipmentExists = errors.New("order already has a shipment")

// systemActor is used for carrier-webhook-driven transitions, which
// arrive with no user identity.
var systemActor = domain.Actor{Role: domain.RoleAdmin}

type ShippingService struct {
	shipments repository.ShipmentRepository
	orderSvc  *OrderService
	carrier   carrier.Client
}

func NewShippingService(shipments repository.ShipmentRepository, orderSvc *OrderService, carrierClient carrier.Client) *ShippingService {
	return &ShippingService{
		shipments: shipments,
		orderSvc:  orderSvc,
		carrier:   carrierClient,
	}
}

// ShipOrder hands a PROCESSING order to the carrier and moves it to
// SHIPPED. The carrier call happens before the status write: an
// unreachable carrier leaves the order untouched.
func (s *ShippingService) ShipOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Shipment, error) {
	order, err := s.orderSvc.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransition(domain.OrderStatusShipped) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, domain.OrderStatusShipped)
	}

	if _, err := s.shipments.GetByOrderID(ctx, orderID); err == nil {
		return nil, ErrShipmentExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	resp, err := s.carrier.CreateShipment(ctx, carrier.CreateShipmentRequest{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Street:      order.ShippingAddress.Street,
		City:        order.ShippingAddress.City,
		State:       order.ShippingAddress.State,
		ZipCode:     order.ShippingAddress.ZipCode,
		Country:     order.ShippingAddress.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("carrier handoff: %w", err)
	}

	shipment := domain.NewShipment(order.ID, resp.AWBNumber, resp.Carrier, resp.LabelURL)
	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, err
	}

	if _, err := s.orderSvc.UpdateStatus(ctx, actor, order.ID, domain.OrderStatusShipped); err != nil {
		return nil, err
	}

	log.Printf("Order %s handed to carrier %s: AWB=%s", order.OrderNumber, resp.Carrier, resp.AWBNumber)
	return shipment, nil
}

// HandleCarrierUpdate applies a carrier webhook. Statuses that do not
// map onto the order lifecycle only update the shipment record;
// transitions the order has already made are ignored rather than
// failed, since carriers redeliver webhooks.
func (s *ShippingService) HandleCarrierUpdate(ctx context.Context, awbNumber, carrierStatus string) error {
	status, ok := domain.ParseShipmentStatus(carrierStatus)
	if !ok {
		return fmt.Errorf("%w: unknown carrier status %q", ErrInvalidInput, carrierStatus)
	}

	shipment, err := s.shipments.GetByAWB(ctx, awbNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrShipmentNotFound
		}
		return err
	}

	shipment.Status = status
	shipment.UpdatedAt = time.Now()
	if err := s.shipments.Update(ctx, shipment); err != nil {
		return err
	}

	orderStatus, moves := status.OrderStatusFor()
	if !moves {
		return nil
	}

	if _, err := s.orderSvc.UpdateStatus(ctx, systemActor, shipment.OrderID, orderStatus); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			log.Printf("Carrier update %s for AWB %s ignored: %v", carrierStatus, awbNumber, err)
			return nil
		}
		return err
	}
	return nil
}

// Track merges the stored shipment with live carrier tracking. A
// carrier outage degrades to the stored record instead of failing.
func (s *ShippingService) Track(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Shipment, *carrier.TrackingResponse, error) {
	if _, err := s.orderSvc.GetOrder(ctx, actor, orderID); err != nil {
		return nil, nil, err
	}

	shipment, err := s.shipments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, domain.ErrShipmentNotFound
		}
		return nil, nil, err
	}

	tracking, err := s.carrier.Track(ctx, shipment.AWBNumber)
	if err != nil {
		log.Printf("Carrier tracking error for AWB %s: %v", shipment.AWBNumber, err)
		return shipment, nil, nil
	}
	return shipment, tracking, nil
}
