package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog entry. VendorID is nil for
// platform-owned items.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	VendorID    *uuid.UUID `json:"vendor_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewProduct(vendorID *uuid.UUID, name, description, imageURL string, price float64, stock int) *Product {
	now := time.Now()
	return &Product{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		Price:       price,
		Stock:       stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OwnedBy reports whether the actor may mutate this product.
func (p *Product) OwnedBy(actor Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	return p.VendorID != nil && *p.VendorID == actor.UserID
}
