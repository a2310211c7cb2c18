package model

import (
	"fmt"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// legal status transitions. SHIPPED and CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped},
	OrderShipped:   {},
	OrderCancelled: {},
}

// ErrIllegalTransition reports a status change the order state machine
// forbids, e.g. cancelling a shipped order.
type ErrIllegalTransition struct {
	From OrderStatus
	To   OrderStatus
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal order status transition %s -> %s", e.From, e.To)
}

// CanTransitionTo reports whether next is reachable from the current status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order captures a purchase. Product and customer fields are snapshotted at
// creation time: later catalog or profile edits must not rewrite history.
type Order struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	// Lines created in the same multi-item checkout share a CheckoutID.
	CheckoutID *uuid.UUID `gorm:"type:uuid;index" json:"checkout_id,omitempty"`

	ProductName     string `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSize     string `gorm:"type:varchar(20)" json:"product_size"`
	ProductColor    string `gorm:"type:varchar(50)" json:"product_color"`
	CustomerName    string `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerContact string `gorm:"type:varchar(255)" json:"customer_contact"`
	CustomerAddress string `gorm:"type:text" json:"customer_address"`

	Quantity      int         `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice     int64       `gorm:"not null" json:"unit_price"`
	ShippingFee   int64       `gorm:"not null;default:0" json:"shipping_fee"`
	TotalPrice    int64       `gorm:"not null" json:"total_price"`
	PaymentMethod string      `gorm:"type:varchar(20)" json:"payment_method"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
}
