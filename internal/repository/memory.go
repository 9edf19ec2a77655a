package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory backing store implementing every
// repository interface through typed views. It mirrors the Postgres
// semantics closely enough for service-level tests: conditional
// stock/usage writes, unique order numbers and coupon codes, and
// all-or-nothing transactions via snapshot restore.
type MemoryStore struct {
	mu sync.RWMutex

	products      map[uuid.UUID]domain.Product
	cartItems     map[uuid.UUID]domain.CartItem
	wishlistItems map[uuid.UUID]domain.WishlistItem
	orders        map[uuid.UUID]domain.Order
	orderNumbers  map[string]uuid.UUID
	coupons       map[uuid.UUID]domain.Coupon
	couponCodes   map[string]uuid.UUID
	shipments     map[uuid.UUID]domain.Shipment
	notifications map[uuid.UUID]domain.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:      make(map[uuid.UUID]domain.Product),
		cartItems:     make(map[uuid.UUID]domain.CartItem),
		wishlistItems: make(map[uuid.UUID]domain.WishlistItem),
		orders:        make(map[uuid.UUID]domain.Order),
		orderNumbers:  make(map[string]uuid.UUID),
		coupons:       make(map[uuid.UUID]domain.Coupon),
		couponCodes:   make(map[string]uuid.UUID),
		shipments:     make(map[uuid.UUID]domain.Shipment),
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

func (m *MemoryStore) Products() *MemoryProducts           { return &MemoryProducts{m} }
func (m *MemoryStore) Carts() *MemoryCarts                 { return &MemoryCarts{m} }
func (m *MemoryStore) Wishlists() *MemoryWishlists         { return &MemoryWishlists{m} }
func (m *MemoryStore) Orders() *MemoryOrders               { return &MemoryOrders{m} }
func (m *MemoryStore) Coupons() *MemoryCoupons             { return &MemoryCoupons{m} }
func (m *MemoryStore) Shipments() *MemoryShipments         { return &MemoryShipments{m} }
func (m *MemoryStore) Notifications() *MemoryNotifications { return &MemoryNotifications{m} }
func (m *MemoryStore) Tx() *MemoryTxManager                { return &MemoryTxManager{m} }

type memTxKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(memTxKey{}).(bool)
	return v
}

// Transaction holds the write lock for its whole extent, so repository
// calls inside it skip locking.
func (m *MemoryStore) rlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Unlock()
	}
}

// MemoryTxManager serializes transactions under the store's write lock
// and restores a snapshot on failure, so a failed unit of work leaves
// no partial state behind.
type MemoryTxManager struct {
	store *MemoryStore
}

func NewMemoryTxManager(store *MemoryStore) *MemoryTxManager {
	return &MemoryTxManager{store: store}
}

var _ TxManager = (*MemoryTxManager)(nil)

func (m *MemoryTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := m.store.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.store.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	products      map[uuid.UUID]domain.Product
	cartItems     map[uuid.UUID]domain.CartItem
	wishlistItems map[uuid.UUID]domain.WishlistItem
	orders        map[uuid.UUID]domain.Order
	orderNumbers  map[string]uuid.UUID
	coupons       map[uuid.UUID]domain.Coupon
	couponCodes   map[string]uuid.UUID
	shipments     map[uuid.UUID]domain.Shipment
	notifications map[uuid.UUID]domain.Notification
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *MemoryStore) snapshot() memSnapshot {
	return memSnapshot{
		products:      cloneMap(m.products),
		cartItems:     cloneMap(m.cartItems),
		wishlistItems: cloneMap(m.wishlistItems),
		orders:        cloneMap(m.orders),
		orderNumbers:  cloneMap(m.orderNumbers),
		coupons:       cloneMap(m.coupons),
		couponCodes:   cloneMap(m.couponCodes),
		shipments:     cloneMap(m.shipments),
		notifications: cloneMap(m.notifications),
	}
}

func (m *MemoryStore) restore(s memSnapshot) {
	m.products = s.products
	m.cartItems = s.cartItems
	m.wishlistItems = s.wishlistItems
	m.orders = s.orders
	m.orderNumbers = s.orderNumbers
	m.coupons = s.coupons
	m.couponCodes = s.couponCodes
	m.shipments = s.shipments
	m.notifications = s.notifications
}

// ---- products ----

type MemoryProducts struct{ store *MemoryStore }

var _ ProductRepository = (*MemoryProducts)(nil)

func (r *MemoryProducts) Create(ctx context.Context, p *domain.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *MemoryProducts) Update(ctx context.Context, p *domain.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *MemoryProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	var out []domain.Product
	for _, p := range r.store.products {
		if f.NameSubstring != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameSubstring)) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.VendorID != nil && (p.VendorID == nil || *p.VendorID != *f.VendorID) {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *MemoryProducts) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return ErrNotFound
	}
	if p.Stock < qty {
		return ErrStockConflict
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	r.store.products[id] = p
	return nil
}

func (r *MemoryProducts) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock += qty
	p.UpdatedAt = time.Now()
	r.store.products[id] = p
	return nil
}

// ---- cart ----

type MemoryCarts struct{ store *MemoryStore }

var _ CartRepository = (*MemoryCarts)(nil)

func (r *MemoryCarts) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartLine, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	var lines []domain.CartLine
	for _, it := range r.store.cartItems {
		if it.UserID != userID {
			continue
		}
		p, ok := r.store.products[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, domain.CartLine{Item: it, Product: p})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Item.CreatedAt.Before(lines[j].Item.CreatedAt)
	})
	return lines, nil
}

func (r *MemoryCarts) GetItem(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			cp := it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCarts) Add(ctx context.Context, item *domain.CartItem) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, it := range r.store.cartItems {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			it.Quantity += item.Quantity
			it.UpdatedAt = time.Now()
			r.store.cartItems[id] = it
			return nil
		}
	}
	r.store.cartItems[item.ID] = *item
	return nil
}

func (r *MemoryCarts) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity = quantity
			it.UpdatedAt = time.Now()
			r.store.cartItems[id] = it
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryCarts) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			delete(r.store.cartItems, id)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryCarts) Clear(ctx context.Context, userID uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, it := range r.store.cartItems {
		if it.UserID == userID {
			delete(r.store.cartItems, id)
		}
	}
	return nil
}

// ---- wishlist ----

type MemoryWishlists struct{ store *MemoryStore }

var _ WishlistRepository = (*MemoryWishlists)(nil)

func (r *MemoryWishlists) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	var out []domain.WishlistItem
	for _, it := range r.store.wishlistItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryWishlists) Add(ctx context.Context, item *domain.WishlistItem) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for _, it := range r.store.wishlistItems {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			return nil
		}
	}
	r.store.wishlistItems[item.ID] = *item
	return nil
}

func (r *MemoryWishlists) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for id, it := range r.store.wishlistItems {
		if it.UserID == userID && it.ProductID == productID {
			delete(r.store.wishlistItems, id)
			return nil
		}
	}
	return ErrNotFound
}

// ---- orders ----

type MemoryOrders struct{ store *MemoryStore }

var _ OrderRepository = (*MemoryOrders)(nil)

func (r *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, exists := r.store.orderNumbers[o.OrderNumber]; exists {
		return ErrDuplicateKey
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	r.store.orders[o.ID] = cp
	r.store.orderNumbers[o.OrderNumber] = o.ID
	return nil
}

func (r *MemoryOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	o, ok := r.store.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *MemoryOrders) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	var out []domain.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit <= 0 {
		limit = 10
	}
	return paginate(out, limit, offset), nil
}

func (r *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	var out []domain.Order
	for _, o := range r.store.orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *MemoryOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	o, ok := r.store.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.store.orders[id] = o
	return nil
}

// ---- coupons ----

type MemoryCoupons struct{ store *MemoryStore }

var _ CouponRepository = (*MemoryCoupons)(nil)

func (r *MemoryCoupons) Create(ctx context.Context, c *domain.Coupon) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, exists := r.store.couponCodes[c.Code]; exists {
		return domain.ErrCouponCodeConflict
	}
	r.store.coupons[c.ID] = *c
	r.store.couponCodes[c.Code] = c.ID
	return nil
}

func (r *MemoryCoupons) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	id, ok := r.store.couponCodes[domain.NormalizeCouponCode(code)]
	if !ok {
		return nil, ErrNotFound
	}
	c := r.store.coupons[id]
	return &c, nil
}

func (r *MemoryCoupons) Update(ctx context.Context, c *domain.Coupon) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.coupons[c.ID]; !ok {
		return ErrNotFound
	}
	r.store.coupons[c.ID] = *c
	return nil
}

func (r *MemoryCoupons) List(ctx context.Context) ([]domain.Coupon, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]domain.Coupon, 0, len(r.store.coupons))
	for _, c := range r.store.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryCoupons) IncrementUsage(ctx context.Context, code string) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	id, ok := r.store.couponCodes[domain.NormalizeCouponCode(code)]
	if !ok {
		return ErrNotFound
	}
	c := r.store.coupons[id]
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrUsageExhausted
	}
	c.UsedCount++
	c.UpdatedAt = time.Now()
	r.store.coupons[id] = c
	return nil
}

// ---- shipments ----

type MemoryShipments struct{ store *MemoryStore }

var _ ShipmentRepository = (*MemoryShipments)(nil)

func (r *MemoryShipments) Create(ctx context.Context, s *domain.Shipment) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.shipments[s.ID] = *s
	return nil
}

func (r *MemoryShipments) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, s := range r.store.shipments {
		if s.OrderID == orderID {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryShipments) GetByAWB(ctx context.Context, awb string) (*domain.Shipment, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, s := range r.store.shipments {
		if s.AWBNumber == awb {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryShipments) Update(ctx context.Context, s *domain.Shipment) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.shipments[s.ID]; !ok {
		return ErrNotFound
	}
	r.store.shipments[s.ID] = *s
	return nil
}

// ---- notifications ----

type MemoryNotifications struct{ store *MemoryStore }

var _ NotificationRepository = (*MemoryNotifications)(nil)

func (r *MemoryNotifications) Create(ctx context.Context, n *domain.Notification) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.notifications[n.ID] = *n
	return nil
}

func (r *MemoryNotifications) Update(ctx context.Context, n *domain.Notification) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.notifications[n.ID]; !ok {
		return ErrNotFound
	}
	r.store.notifications[n.ID] = *n
	return nil
}

func (r *MemoryNotifications) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Notification, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	var out []domain.Notification
	for _, n := range r.store.notifications {
		if n.OrderID == orderID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
