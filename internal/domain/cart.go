package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a user's intent to buy a product. It is ephemeral:
// deleted on checkout or explicit removal. Quantity is always >= 1.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCartItem(userID, productID uuid.UUID, quantity int) *CartItem {
	now := time.Now()
	return &CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CartLine pairs a cart item with the live product row it references.
type CartLine struct {
	Item    CartItem `json:"item"`
	Product Product  `json:"product"`
}

func (l CartLine) LineItem() LineItem {
	return LineItem{UnitPrice: l.Product.Price, Quantity: l.Item.Quantity}
}

type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewWishlistItem(userID, productID uuid.UUID) *WishlistItem {
	return &WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
}
