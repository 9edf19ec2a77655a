package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, carts repository.CartRepository) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, carts: carts}
}

// WishlistEntry pairs a wishlist item with the product it points at.
// Entries whose product has since been deleted are dropped.
type WishlistEntry struct {
	Item    domain.WishlistItem `json:"item"`
	Product domain.Product      `json:"product"`
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]WishlistEntry, error) {
	items, err := s.wishlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]WishlistEntry, 0, len(items))
	for _, it := range items {
		product, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, WishlistEntry{Item: it, Product: *product})
	}
	return entries, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.wishlists.Add(ctx, domain.NewWishlistItem(userID, productID))
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.wishlists.Remove(ctx, userID, productID)
}

// MoveToCart adds the wishlisted product to the cart with quantity 1
// and removes the wishlist entry.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("%w: product is not available", ErrInvalidInput)
	}

	if err := s.carts.Add(ctx, domain.NewCartItem(userID, productID, 1)); err != nil {
		return err
	}
	return s.wishlists.Remove(ctx, userID, productID)
}
