package service

import (
	"database/sql"
	"errors"
	"time"

	"sigmavie-commerce/internal/metrics"
	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownVariant    = errors.New("requested size/color combination does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOrderOwner     = errors.New("order belongs to another customer")
	ErrEmptyCheckout     = errors.New("checkout contains no items")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// TxRunner is satisfied by *gorm.DB and lets tests run service workflows
// against fake repositories without a database.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// PlaceOrderRequest is one order line as submitted by the storefront.
type PlaceOrderRequest struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	Size            string    `json:"size"`
	Color           string    `json:"color"`
	PaymentMethod   string    `json:"payment_method"`
	ShippingFee     int64     `json:"shipping_fee"`
	AddressOverride string    `json:"address_override"`
}

type OrderService interface {
	PlaceOrder(req PlaceOrderRequest) (*model.Order, error)
	// Checkout places every line or none: any failing line rolls the whole
	// batch back. The shipping fee is charged on the first line only.
	Checkout(lines []PlaceOrderRequest) ([]model.Order, error)
	UpdateStatus(id uuid.UUID, next model.OrderStatus, updatedBy string) (*model.Order, error)
	CancelByCustomer(orderID, customerID uuid.UUID) (*model.Order, error)
	GetAll() ([]model.Order, error)
	GetByCustomer(customerID uuid.UUID) ([]model.Order, error)
	GetByID(id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	ledgerRepo   repository.StockEntryRepository
	customerRepo repository.CustomerRepository
	db           TxRunner
	hub          *ws.Hub
	now          func() time.Time
}

func NewOrderService(
	pRepo repository.ProductRepository,
	oRepo repository.OrderRepository,
	lRepo repository.StockEntryRepository,
	cRepo repository.CustomerRepository,
	db TxRunner,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		productRepo:  pRepo,
		orderRepo:    oRepo,
		ledgerRepo:   lRepo,
		customerRepo: cRepo,
		db:           db,
		hub:          hub,
		now:          time.Now,
	}
}

func (s *orderService) publish(topic string, payload interface{}) {
	if s.hub == nil {
		return
	}
	go s.hub.Publish(topic, payload)
}

// takeStock performs the conditional decrement for one line inside tx and
// returns the matched variant (nil for variant-less products). Fails closed
// when the requested combination does not exist.
func (s *orderService) takeStock(tx *gorm.DB, product *model.Product, size, color string, qty int) (*model.Variant, error) {
	if len(product.Variants) == 0 {
		ok, err := s.productRepo.DecrementProductStock(tx, product.ID, qty)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.StockRejections.WithLabelValues("insufficient").Inc()
			return nil, ErrInsufficientStock
		}
		return nil, nil
	}

	variant := product.FindVariant(size, color)
	if variant == nil {
		metrics.StockRejections.WithLabelValues("unknown_variant").Inc()
		return nil, ErrUnknownVariant
	}
	ok, err := s.productRepo.DecrementVariantStock(tx, product.ID, variant.Size, variant.Color, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.StockRejections.WithLabelValues("insufficient").Inc()
		return nil, ErrInsufficientStock
	}
	return variant, nil
}

// placeLine runs the whole creation workflow for one line inside tx: price
// resolution, conditional decrement, ledger append, order insert. All three
// writes commit or roll back together.
func (s *orderService) placeLine(tx *gorm.DB, req PlaceOrderRequest, checkoutID *uuid.UUID) (*model.Order, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	customer, err := s.customerRepo.FindByID(req.CustomerID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	unitPrice := product.EffectivePrice(s.now())

	variant, err := s.takeStock(tx, product, req.Size, req.Color, req.Quantity)
	if err != nil {
		return nil, err
	}

	entry := &model.StockEntry{
		ProductID: product.ID,
		Type:      model.StockExport,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		Note:      "order placement",
	}
	if variant != nil {
		entry.VariantID = &variant.ID
		entry.Size = variant.Size
		entry.Color = variant.Color
	}
	if err := s.ledgerRepo.Append(tx, entry); err != nil {
		return nil, err
	}

	address := customer.Address
	if req.AddressOverride != "" {
		address = req.AddressOverride
	}

	order := &model.Order{
		CustomerID:      customer.ID,
		ProductID:       product.ID,
		CheckoutID:      checkoutID,
		ProductName:     product.Name,
		ProductSize:     entry.Size,
		ProductColor:    entry.Color,
		CustomerName:    customer.FullName,
		CustomerContact: customer.PhoneNumber,
		CustomerAddress: address,
		Quantity:        req.Quantity,
		UnitPrice:       unitPrice,
		ShippingFee:     req.ShippingFee,
		TotalPrice:      unitPrice*int64(req.Quantity) + req.ShippingFee,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.OrderPending,
	}
	if err := s.orderRepo.Create(tx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) PlaceOrder(req PlaceOrderRequest) (*model.Order, error) {
	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.placeLine(tx, req, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	s.publish(ws.TopicOrders, order)
	s.publish(ws.TopicProducts, map[string]interface{}{"product_id": order.ProductID})
	return order, nil
}

func (s *orderService) Checkout(lines []PlaceOrderRequest) ([]model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCheckout
	}

	checkoutID := uuid.New()
	var orders []model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, line := range lines {
			if i > 0 {
				line.ShippingFee = 0
			}
			order, err := s.placeLine(tx, line, &checkoutID)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for range orders {
		metrics.OrdersPlaced.Inc()
	}
	s.publish(ws.TopicOrders, orders)
	s.publish(ws.TopicProducts, map[string]interface{}{"checkout_id": checkoutID})
	return orders, nil
}

// restoreStock reverses a cancelled order's decrement: same product, same
// variant, same quantity, regardless of elapsed time. It works from the
// order's own snapshot rather than the live catalog row, because the product
// may have been removed from the catalog since the order was placed and
// cancellation must stay symmetric anyway.
func (s *orderService) restoreStock(tx *gorm.DB, order *model.Order) error {
	entry := &model.StockEntry{
		ProductID: order.ProductID,
		Type:      model.StockImport,
		Quantity:  order.Quantity,
		Size:      order.ProductSize,
		Color:     order.ProductColor,
		Note:      "order cancelled",
	}

	ok, err := s.productRepo.IncrementVariantStock(tx, order.ProductID, order.ProductSize, order.ProductColor, order.Quantity)
	if err != nil {
		return err
	}
	if ok {
		if v, err := s.productRepo.FindVariant(tx, order.ProductID, order.ProductSize, order.ProductColor); err == nil {
			entry.VariantID = &v.ID
		}
	} else {
		// No variant row matched the snapshot: the order was placed
		// against the product-level counter.
		if _, err := s.productRepo.IncrementProductStock(tx, order.ProductID, order.Quantity); err != nil {
			return err
		}
	}

	return s.ledgerRepo.Append(tx, entry)
}

func (s *orderService) UpdateStatus(id uuid.UUID, next model.OrderStatus, updatedBy string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &model.ErrIllegalTransition{From: order.Status, To: next}
	}

	prev := order.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The flip is conditional on the status we read above. A racing
		// updater that got there first leaves zero rows affected, and the
		// whole transition (stock restore included) is rejected, so two
		// concurrent cancels can never restore stock twice.
		flipped, err := s.orderRepo.UpdateStatus(tx, id, prev, next, updatedBy)
		if err != nil {
			return err
		}
		if !flipped {
			cur := prev
			if latest, err := s.orderRepo.FindByID(id); err == nil {
				cur = latest.Status
			}
			return &model.ErrIllegalTransition{From: cur, To: next}
		}
		if next == model.OrderCancelled {
			return s.restoreStock(tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = next
	if next == model.OrderCancelled {
		metrics.OrdersCancelled.Inc()
		s.publish(ws.TopicProducts, map[string]interface{}{"product_id": order.ProductID})
	}
	s.publish(ws.TopicOrders, order)
	return order, nil
}

func (s *orderService) CancelByCustomer(orderID, customerID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.CustomerID != customerID {
		return nil, ErrNotOrderOwner
	}
	return s.UpdateStatus(orderID, model.OrderCancelled, customerID.String())
}

func (s *orderService) GetAll() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetByCustomer(customerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindByCustomer(customerID)
}

func (s *orderService) GetByID(id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(id)
}
