package service

import (
	"context"
	"testing"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService() (*ProductService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewProductService(store.Products()), store
}

func TestProductCreate_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProductService()

	vendor := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	in := ProductInput{Name: "Keyboard", Price: 100, Stock: 5}

	vendorOwned, err := svc.Create(ctx, vendor, in)
	require.NoError(t, err)
	require.NotNil(t, vendorOwned.VendorID)
	assert.Equal(t, vendor.UserID, *vendorOwned.VendorID)
	assert.True(t, vendorOwned.IsActive)

	platformOwned, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Nil(t, platformOwned.VendorID)
}

func TestProductCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProductService()
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	_, err := svc.Create(ctx, admin, ProductInput{Price: 10, Stock: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, admin, ProductInput{Name: "X", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductUpdate_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProductService()

	owner := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}
	other := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}
	admin := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

	p, err := svc.Create(ctx, owner, ProductInput{Name: "Keyboard", Price: 100, Stock: 5})
	require.NoError(t, err)

	in := ProductInput{Name: "Keyboard v2", Price: 120, Stock: 5}

	_, err = svc.Update(ctx, other, p.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, owner, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard v2", updated.Name)

	// Admin can touch any product.
	_, err = svc.Update(ctx, admin, p.ID, in)
	assert.NoError(t, err)
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProductService()

	owner := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}
	other := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}

	p, err := svc.Create(ctx, owner, ProductInput{Name: "Keyboard", Price: 100, Stock: 5})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, p.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, owner, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRestock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProductService()
	owner := domain.Actor{UserID: uuid.New(), Role: domain.RoleVendor}

	p, err := svc.Create(ctx, owner, ProductInput{Name: "Keyboard", Price: 100, Stock: 5})
	require.NoError(t, err)

	restocked, err := svc.Restock(ctx, owner, p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, restocked.Stock)

	_, err = svc.Restock(ctx, owner, p.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductList_Filters(t *testing.T) {
	ctx := context.Background()
	svc, store := newProductService()
	vendorID := uuid.New()

	cheap := domain.NewProduct(nil, "Budget Mouse", "", "", 20, 5)
	pricey := domain.NewProduct(&vendorID, "Gaming Keyboard", "", "", 200, 5)
	hidden := domain.NewProduct(nil, "Retired Pad", "", "", 10, 0)
	hidden.IsActive = false
	for _, p := range []*domain.Product{cheap, pricey, hidden} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	active, err := svc.List(ctx, repository.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	min := 100.0
	expensive, err := svc.List(ctx, repository.ProductFilter{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, expensive, 1)
	assert.Equal(t, "Gaming Keyboard", expensive[0].Name)

	byVendor, err := svc.List(ctx, repository.ProductFilter{VendorID: &vendorID})
	require.NoError(t, err)
	require.Len(t, byVendor, 1)

	byName, err := svc.List(ctx, repository.ProductFilter{NameSubstring: "keyboard"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
}
