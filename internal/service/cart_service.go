package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	pricing  domain.PricingConfig
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, pricing domain.PricingConfig) *CartService {
	return &CartService{carts: carts, products: products, pricing: pricing}
}

// Cart is the user's cart with running totals. Totals carry no
// discount; coupons are resolved at validation or checkout.
type Cart struct {
	Lines  []domain.CartLine `json:"lines"`
	Totals domain.Totals     `json:"totals"`
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart load: %w", err)
	}

	items := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		items[i] = l.LineItem()
	}
	return &Cart{
		Lines:  lines,
		Totals: domain.ComputeTotals(items, 0, s.pricing),
	}, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", repository.ErrNotFound, productID)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product is not available", ErrInvalidInput)
	}

	if err := s.carts.Add(ctx, domain.NewCartItem(userID, productID, quantity)); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if err := s.carts.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	if err := s.carts.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.Clear(ctx, userID)
}
