package service

import (
	"testing"
	"time"

	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	ledger   *fakeLedgerRepo
	cust     *fakeCustomerRepo
	svc      *orderService

	customer *model.Customer
	product  *model.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	products := newFakeProductRepo()
	orders := &fakeOrderRepo{}
	ledger := &fakeLedgerRepo{}
	cust := newFakeCustomerRepo()
	db := &fakeDB{products: products, orders: orders, ledger: ledger}

	svc := NewOrderService(products, orders, ledger, cust, db, nil).(*orderService)

	customer := &model.Customer{
		Email:       "an.nguyen@example.com",
		FullName:    "Nguyễn Văn An",
		PhoneNumber: "0912345678",
		Address:     "12 Lý Thường Kiệt, Hà Nội",
		IsActive:    true,
	}
	require.NoError(t, cust.Create(customer))

	product := &model.Product{
		SKU:   "AO-001",
		Name:  "Áo sơ mi trắng",
		Price: 450000,
		Variants: []model.Variant{
			{Size: "M", Color: "Black", Stock: 3},
			{Size: "L", Color: "White", Stock: 5},
		},
	}
	products.add(product)

	return &orderFixture{
		products: products,
		orders:   orders,
		ledger:   ledger,
		cust:     cust,
		svc:      svc,
		customer: customer,
		product:  product,
	}
}

func (f *orderFixture) variantStock(t *testing.T, size, color string) int {
	t.Helper()
	p, err := f.products.FindByID(f.product.ID)
	require.NoError(t, err)
	for _, v := range p.Variants {
		if v.Size == size && v.Color == color {
			return v.Stock
		}
	}
	t.Fatalf("variant %s/%s not found", size, color)
	return 0
}

func (f *orderFixture) placeReq(qty int, size, color string) PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerID:    f.customer.ID,
		ProductID:     f.product.ID,
		Quantity:      qty,
		Size:          size,
		Color:         color,
		PaymentMethod: "COD",
		ShippingFee:   30000,
	}
}

func TestPlaceOrderDecrementsAndCancelRestores(t *testing.T) {
	f := newOrderFixture(t)

	// Order qty 2 on M/Black (stock 3) succeeds, stock drops to 1.
	order, err := f.svc.PlaceOrder(f.placeReq(2, "M", "Black"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.variantStock(t, "M", "Black"))
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, int64(450000*2+30000), order.TotalPrice)
	assert.Equal(t, "Áo sơ mi trắng", order.ProductName)
	assert.Equal(t, "12 Lý Thường Kiệt, Hà Nội", order.CustomerAddress)

	// Ledger recorded the export.
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, model.StockExport, f.ledger.entries[0].Type)
	assert.Equal(t, 2, f.ledger.entries[0].Quantity)

	// Second order for qty 2 fails, nothing mutated.
	_, err = f.svc.PlaceOrder(f.placeReq(2, "M", "Black"))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, f.variantStock(t, "M", "Black"))
	assert.Len(t, f.orders.orders, 1)
	assert.Len(t, f.ledger.entries, 1)

	// Cancelling the first order restores the full quantity.
	cancelled, err := f.svc.UpdateStatus(order.ID, model.OrderCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))

	// The restock is ledgered as an import of the same quantity.
	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, model.StockImport, f.ledger.entries[1].Type)
	assert.Equal(t, 2, f.ledger.entries[1].Quantity)
}

func TestPlaceOrderUnknownVariantFailsClosed(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(f.placeReq(1, "XL", "Red"))
	assert.ErrorIs(t, err, ErrUnknownVariant)

	// No variant was created and nothing was decremented.
	p, _ := f.products.FindByID(f.product.ID)
	assert.Len(t, p.Variants, 2)
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.ledger.entries)
}

func TestPlaceOrderVariantlessProduct(t *testing.T) {
	f := newOrderFixture(t)

	plain := &model.Product{SKU: "TUI-01", Name: "Túi tote", Price: 120000, Stock: 2}
	f.products.add(plain)

	req := f.placeReq(2, "", "")
	req.ProductID = plain.ID
	req.ShippingFee = 0

	order, err := f.svc.PlaceOrder(req)
	require.NoError(t, err)
	assert.Equal(t, int64(240000), order.TotalPrice)

	p, _ := f.products.FindByID(plain.ID)
	assert.Equal(t, 0, p.Stock)

	_, err = f.svc.PlaceOrder(req)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	p, _ = f.products.FindByID(plain.ID)
	assert.Equal(t, 0, p.Stock, "stock never goes negative")
}

func TestPlaceOrderFlashSalePrice(t *testing.T) {
	f := newOrderFixture(t)

	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	sale := int64(300000)

	p, _ := f.products.FindByID(f.product.ID)
	p.IsFlashSale = true
	p.SalePrice = &sale
	p.FlashSaleStart = &t0
	p.FlashSaleEnd = &t1
	require.NoError(t, f.products.Update(p))

	// Inside the window the sale price applies.
	f.svc.now = func() time.Time { return t0.Add(time.Hour) }
	order, err := f.svc.PlaceOrder(f.placeReq(1, "M", "Black"))
	require.NoError(t, err)
	assert.Equal(t, sale, order.UnitPrice)

	// Before the window the regular price applies.
	f.svc.now = func() time.Time { return t0.Add(-time.Hour) }
	order, err = f.svc.PlaceOrder(f.placeReq(1, "M", "Black"))
	require.NoError(t, err)
	assert.Equal(t, int64(450000), order.UnitPrice)

	// After the window the regular price applies again.
	f.svc.now = func() time.Time { return t1.Add(time.Hour) }
	order, err = f.svc.PlaceOrder(f.placeReq(1, "M", "Black"))
	require.NoError(t, err)
	assert.Equal(t, int64(450000), order.UnitPrice)
}

func TestCheckoutAllOrNothing(t *testing.T) {
	f := newOrderFixture(t)

	lines := []PlaceOrderRequest{
		f.placeReq(2, "M", "Black"), // stock 3, fine
		f.placeReq(9, "L", "White"), // stock 5, fails
	}

	_, err := f.svc.Checkout(lines)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The failing second line rolled the first line back too.
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))
	assert.Equal(t, 5, f.variantStock(t, "L", "White"))
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.ledger.entries)
}

func TestCheckoutShippingFeeOnFirstLineOnly(t *testing.T) {
	f := newOrderFixture(t)

	lines := []PlaceOrderRequest{
		f.placeReq(1, "M", "Black"),
		f.placeReq(1, "L", "White"),
	}

	orders, err := f.svc.Checkout(lines)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, int64(30000), orders[0].ShippingFee)
	assert.Equal(t, int64(0), orders[1].ShippingFee)

	require.NotNil(t, orders[0].CheckoutID)
	assert.Equal(t, *orders[0].CheckoutID, *orders[1].CheckoutID, "lines share a checkout id")
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.PlaceOrder(f.placeReq(1, "M", "Black"))
	require.NoError(t, err)

	// PENDING cannot skip straight to SHIPPED.
	_, err = f.svc.UpdateStatus(order.ID, model.OrderShipped, "admin")
	var illegal *model.ErrIllegalTransition
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, model.OrderPending, illegal.From)

	_, err = f.svc.UpdateStatus(order.ID, model.OrderConfirmed, "admin")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, model.OrderShipped, "admin")
	require.NoError(t, err)

	// A shipped order cannot be cancelled, and stock stays untouched.
	before := f.variantStock(t, "M", "Black")
	_, err = f.svc.UpdateStatus(order.ID, model.OrderCancelled, "admin")
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, before, f.variantStock(t, "M", "Black"))
}

func TestConcurrentCancelRestoresStockOnce(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.PlaceOrder(f.placeReq(2, "M", "Black"))
	require.NoError(t, err)
	require.Equal(t, 1, f.variantStock(t, "M", "Black"))

	// Admin panel and customer both observed the order while it was still
	// pending. The admin's cancel lands first.
	pending := *order
	_, err = f.svc.UpdateStatus(order.ID, model.OrderCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))

	// The customer's cancel still carries the stale pending view: it passes
	// the legality pre-check but must lose on the conditional flip.
	f.orders.staleReads = []model.Order{pending, pending}
	_, err = f.svc.CancelByCustomer(order.ID, f.customer.ID)
	var illegal *model.ErrIllegalTransition
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, model.OrderCancelled, illegal.From)

	// Exactly one of the two racing cancels took effect: stock restored
	// once, a single import entry next to the original export.
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))
	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, model.StockExport, f.ledger.entries[0].Type)
	assert.Equal(t, model.StockImport, f.ledger.entries[1].Type)
}

func TestCancelRestoresStockForDelistedProduct(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.PlaceOrder(f.placeReq(2, "M", "Black"))
	require.NoError(t, err)

	// The product leaves the catalog while the order is still pending.
	require.NoError(t, f.products.Delete(f.product.ID))
	_, err = f.products.FindByID(f.product.ID)
	require.Error(t, err)

	// Cancellation restores by the order's snapshot regardless.
	cancelled, err := f.svc.UpdateStatus(order.ID, model.OrderCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)

	p := f.products.products[f.product.ID]
	require.NotNil(t, p)
	restored := -1
	for _, v := range p.Variants {
		if v.Size == "M" && v.Color == "Black" {
			restored = v.Stock
		}
	}
	assert.Equal(t, 3, restored)

	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, model.StockImport, f.ledger.entries[1].Type)
}

func TestCancelByCustomerOwnershipCheck(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.PlaceOrder(f.placeReq(1, "M", "Black"))
	require.NoError(t, err)

	_, err = f.svc.CancelByCustomer(order.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	cancelled, err := f.svc.CancelByCustomer(order.ID, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(f.placeReq(0, "M", "Black"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.PlaceOrder(f.placeReq(-2, "M", "Black"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 3, f.variantStock(t, "M", "Black"))
}

func TestCheckoutEmpty(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Checkout(nil)
	assert.ErrorIs(t, err, ErrEmptyCheckout)
}
