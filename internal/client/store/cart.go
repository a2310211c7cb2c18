package store

import (
	"sync"

	"sigmavie-commerce/internal/client/cache"
)

const guestNamespace = "cart_guest"

// CartItem is one cart line. It carries a snapshot of the product at the
// moment it was added, so the cart renders even with the backend away.
type CartItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Image       string `json:"image,omitempty"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// CartStore is cache-only: carts never sync to the backend, they become
// orders at checkout. Each customer gets their own namespace so signing in
// or out swaps carts instead of mixing them.
type CartStore struct {
	cache cache.Store

	mu        sync.Mutex
	namespace string
}

func NewCartStore(c cache.Store) *CartStore {
	return &CartStore{cache: c, namespace: guestNamespace}
}

// SwitchCustomer points the store at the given customer's cart. An empty id
// returns to the guest cart. The previous namespace keeps its contents.
func (s *CartStore) SwitchCustomer(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customerID == "" {
		s.namespace = guestNamespace
		return
	}
	s.namespace = "cart_" + customerID
}

func (s *CartStore) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cache.Read(s.cache, s.namespace, []CartItem{})
}

// Add merges by product+size+color: adding the same line again bumps its
// quantity.
func (s *CartStore) Add(item CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := cache.Read(s.cache, s.namespace, []CartItem{})
	for i := range items {
		if items[i].ProductID == item.ProductID &&
			items[i].Size == item.Size && items[i].Color == item.Color {
			items[i].Quantity += item.Quantity
			cache.Write(s.cache, s.namespace, items)
			return
		}
	}
	cache.Write(s.cache, s.namespace, append(items, item))
}

// SetQuantity pins a line's quantity; zero or less removes the line.
func (s *CartStore) SetQuantity(productID, size, color string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := cache.Read(s.cache, s.namespace, []CartItem{})
	kept := items[:0]
	for _, it := range items {
		if it.ProductID == productID && it.Size == size && it.Color == color {
			if qty <= 0 {
				continue
			}
			it.Quantity = qty
		}
		kept = append(kept, it)
	}
	cache.Write(s.cache, s.namespace, kept)
}

func (s *CartStore) Remove(productID, size, color string) {
	s.SetQuantity(productID, size, color, 0)
}

// Clear empties the active namespace, typically after a successful checkout.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(s.namespace)
}

// Total sums unit price times quantity over the cart.
func (s *CartStore) Total() int64 {
	var total int64
	for _, it := range s.Items() {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}
