package store

import (
	"context"

	"sigmavie-commerce/internal/client/bus"
	"sigmavie-commerce/internal/client/cache"
	"sigmavie-commerce/internal/client/gateway"
	"sigmavie-commerce/internal/model"
)

// ProductStore serves the catalog from cache.
type ProductStore struct {
	*entityStore[model.Product]
}

func NewProductStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *ProductStore {
	return &ProductStore{newEntityStore(c, g, b,
		"products", "products", bus.TopicProducts,
		func(p model.Product) string { return p.ID.String() })}
}

// ForVariant reports the cached stock for one size/color combination.
// Unknown product or combination reads as zero, which the UI renders as
// out of stock.
func (s *ProductStore) ForVariant(productID, size, color string) int {
	for _, p := range s.List() {
		if p.ID.String() != productID {
			continue
		}
		if len(p.Variants) == 0 {
			return p.Stock
		}
		if v := p.FindVariant(size, color); v != nil {
			return v.Stock
		}
		return 0
	}
	return 0
}

// CustomerStore holds the back-office customer list; a Poller keeps it
// current.
type CustomerStore struct {
	*entityStore[model.Customer]
}

func NewCustomerStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *CustomerStore {
	return &CustomerStore{newEntityStore(c, g, b,
		"customers", "customers", bus.TopicCustomers,
		func(m model.Customer) string { return m.ID.String() })}
}

// OrderStore holds orders. Call Refresh after login so the list reflects
// the signed-in account rather than whatever session wrote the cache last.
type OrderStore struct {
	*entityStore[model.Order]
}

func NewOrderStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *OrderStore {
	return &OrderStore{newEntityStore(c, g, b,
		"orders", "orders", bus.TopicOrders,
		func(o model.Order) string { return o.ID.String() })}
}

func (s *OrderStore) Refresh(ctx context.Context) error {
	return s.ForceReload(ctx)
}

type CategoryStore struct {
	*entityStore[model.Category]
}

func NewCategoryStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *CategoryStore {
	return &CategoryStore{newEntityStore(c, g, b,
		"categories", "categories", bus.TopicCategories,
		func(m model.Category) string { return m.ID.String() })}
}

// StockEntryStore is the client view of the ledger. The ledger is
// append-only, so the store exposes Append rather than Save/Remove.
type StockEntryStore struct {
	*entityStore[model.StockEntry]
}

func NewStockEntryStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *StockEntryStore {
	return &StockEntryStore{newEntityStore(c, g, b,
		"stock_entries", "stock", bus.TopicStockEntries,
		func(m model.StockEntry) string { return m.ID.String() })}
}

func (s *StockEntryStore) Append(ctx context.Context, entry model.StockEntry) gateway.Result {
	return s.Save(ctx, entry)
}

// SettingsStore handles the per-key settings blobs. Unlike the collection
// stores each key is its own cache slot and remote resource.
type SettingsStore struct {
	cache cache.Store
	gw    *gateway.Gateway
	bus   *bus.Bus
}

func NewSettingsStore(c cache.Store, g *gateway.Gateway, b *bus.Bus) *SettingsStore {
	return &SettingsStore{cache: c, gw: g, bus: b}
}

// Get returns the cached blob for key, refreshing from the remote in the
// background on a miss.
func (s *SettingsStore) Get(ctx context.Context, key string) map[string]any {
	cacheKey := "setting_" + key
	if _, ok, _ := s.cache.Get(cacheKey); ok {
		return cache.Read(s.cache, cacheKey, map[string]any{})
	}

	remote := gateway.FetchByKey[map[string]any](ctx, s.gw, "settings", key)
	if remote == nil {
		return map[string]any{}
	}
	cache.Write(s.cache, cacheKey, *remote)
	return *remote
}

// Put stores the blob locally and pushes it to the backend.
func (s *SettingsStore) Put(ctx context.Context, key string, value map[string]any) gateway.Result {
	if err := cache.Write(s.cache, "setting_"+key, value); err != nil {
		return gateway.Result{Success: false, Message: err.Error()}
	}
	s.bus.Publish(bus.TopicSettings, key)
	return s.gw.Upsert(ctx, "settings/"+key, value)
}
