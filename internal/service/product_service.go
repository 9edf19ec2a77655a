package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       float64
	Stock       int
}

func (s *ProductService) Create(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if in.Price < 0 || in.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must be non-negative", ErrInvalidInput)
	}

	// Admin-created products are platform-owned.
	var vendorID *uuid.UUID
	if actor.Role == domain.RoleVendor {
		id := actor.UserID
		vendorID = &id
	}

	product := domain.NewProduct(vendorID, in.Name, in.Description, in.ImageURL, in.Price, in.Stock)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, f)
}

func (s *ProductService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(actor) {
		return nil, ErrForbidden
	}
	if in.Price < 0 || in.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must be non-negative", ErrInvalidInput)
	}

	product.Name = in.Name
	product.Description = in.Description
	product.ImageURL = in.ImageURL
	product.Price = in.Price
	product.Stock = in.Stock
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !product.OwnedBy(actor) {
		return ErrForbidden
	}
	return s.products.Delete(ctx, id)
}

// Restock adds inventory back outside the order lifecycle.
func (s *ProductService) Restock(ctx context.Context, actor domain.Actor, id uuid.UUID, qty int) (*domain.Product, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: restock quantity must be at least 1", ErrInvalidInput)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(actor) {
		return nil, ErrForbidden
	}

	if err := s.products.IncrementStock(ctx, id, qty); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}
