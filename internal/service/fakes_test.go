package service

import (
	"database/sql"
	"errors"
	"time"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. fakeDB snapshots them before each Transaction
// callback and restores on error, so rollback behavior matches the real
// database closely enough to test the all-or-nothing paths.

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	// removed marks soft-deleted rows: hidden from catalog reads, but the
	// unscoped stock restore still reaches them.
	removed map[uuid.UUID]bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		removed:  make(map[uuid.UUID]bool),
	}
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Variants = make([]model.Variant, len(p.Variants))
	copy(cp.Variants, p.Variants)
	if p.SalePrice != nil {
		v := *p.SalePrice
		cp.SalePrice = &v
	}
	return &cp
}

func (r *fakeProductRepo) snapshot() map[uuid.UUID]*model.Product {
	snap := make(map[uuid.UUID]*model.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = cloneProduct(p)
	}
	return snap
}

func (r *fakeProductRepo) add(p *model.Product) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	r.products[p.ID] = p
}

func (r *fakeProductRepo) Create(p *model.Product) error {
	r.add(p)
	return nil
}

func (r *fakeProductRepo) FindAll() ([]model.Product, error) {
	var out []model.Product
	for id, p := range r.products {
		if r.removed[id] {
			continue
		}
		out = append(out, *cloneProduct(p))
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || r.removed[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneProduct(p), nil
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for id, p := range r.products {
		if p.SKU == sku && !r.removed[id] {
			return cloneProduct(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Update(p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	r.removed[id] = true
	return nil
}

func (r *fakeProductRepo) FindVariant(_ *gorm.DB, productID uuid.UUID, size, color string) (*model.Variant, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].Size == size && p.Variants[i].Color == color {
			v := p.Variants[i]
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) DecrementVariantStock(_ *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error) {
	p, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Size == size && v.Color == color && v.Stock >= qty {
			v.Stock -= qty
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) IncrementVariantStock(_ *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error) {
	p, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Size == size && v.Color == color {
			v.Stock += qty
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) DecrementProductStock(_ *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	p, ok := r.products[productID]
	if !ok || r.removed[productID] || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (r *fakeProductRepo) IncrementProductStock(_ *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	p, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	p.Stock += qty
	return true, nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakeOrderRepo struct {
	orders []model.Order
	// staleReads are served by FindByID ahead of the live rows, emulating
	// a reader that observed the order before a concurrent writer got to it.
	staleReads []model.Order
}

func (r *fakeOrderRepo) Create(_ *gorm.DB, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	r.orders = append(r.orders, *order)
	return nil
}

func (r *fakeOrderRepo) FindAll() ([]model.Order, error) {
	out := make([]model.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	if len(r.staleReads) > 0 && r.staleReads[0].ID == id {
		o := r.staleReads[0]
		r.staleReads = r.staleReads[1:]
		return &o, nil
	}
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByCustomer(customerID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].CustomerID == customerID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ *gorm.DB, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error) {
	for i := range r.orders {
		if r.orders[i].ID == id && r.orders[i].Status == from {
			r.orders[i].Status = to
			r.orders[i].UpdatedBy = updatedBy
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) DistinctCustomerRefs() ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for i := range r.orders {
		if !seen[r.orders[i].CustomerID] {
			seen[r.orders[i].CustomerID] = true
			out = append(out, r.orders[i].CustomerID)
		}
	}
	return out, nil
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

type fakeLedgerRepo struct {
	entries []model.StockEntry
}

func (r *fakeLedgerRepo) Append(_ *gorm.DB, entry *model.StockEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) FindAll() ([]model.StockEntry, error) {
	out := make([]model.StockEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *fakeLedgerRepo) FindByProduct(productID uuid.UUID) ([]model.StockEntry, error) {
	var out []model.StockEntry
	for i := range r.entries {
		if r.entries[i].ProductID == productID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) StockMovement(_, _ time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

func (r *fakeLedgerRepo) LedgerBalance(productID uuid.UUID) (int, error) {
	balance := 0
	for i := range r.entries {
		if r.entries[i].ProductID != productID {
			continue
		}
		if r.entries[i].Type == model.StockImport {
			balance += r.entries[i].Quantity
		} else {
			balance -= r.entries[i].Quantity
		}
	}
	return balance, nil
}

func (r *fakeLedgerRepo) DashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

var _ repository.StockEntryRepository = (*fakeLedgerRepo)(nil)

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *fakeCustomerRepo) Create(c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) FindAll() ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindByEmail(email string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) Update(c *model.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) ExistsByEmail(email string) (bool, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCustomerRepo) ExistsByPhone(phone string) (bool, error) {
	for _, c := range r.customers {
		if c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCustomerRepo) ExistsByCCCD(cccd string) (bool, error) {
	if cccd == "" {
		return false, nil
	}
	for _, c := range r.customers {
		if c.CCCDNumber == cccd {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

// fakeDB snapshots the fakes before running the callback and restores them
// when it fails, imitating a rolled-back transaction.
type fakeDB struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	ledger   *fakeLedgerRepo
}

func (db *fakeDB) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	var productSnap map[uuid.UUID]*model.Product
	var removedSnap map[uuid.UUID]bool
	var orderSnap []model.Order
	var ledgerSnap []model.StockEntry

	if db.products != nil {
		productSnap = db.products.snapshot()
		removedSnap = make(map[uuid.UUID]bool, len(db.products.removed))
		for id, v := range db.products.removed {
			removedSnap[id] = v
		}
	}
	if db.orders != nil {
		orderSnap = append([]model.Order(nil), db.orders.orders...)
	}
	if db.ledger != nil {
		ledgerSnap = append([]model.StockEntry(nil), db.ledger.entries...)
	}

	err := fc(nil)
	if err != nil {
		if db.products != nil {
			db.products.products = productSnap
			db.products.removed = removedSnap
		}
		if db.orders != nil {
			db.orders.orders = orderSnap
		}
		if db.ledger != nil {
			db.ledger.entries = ledgerSnap
		}
	}
	return err
}

var _ TxRunner = (*fakeDB)(nil)

var errBoom = errors.New("boom")
