// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusTransitions is the closed transition table. Delivered and
// cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsValidTransition reports whether an order may move from one status to
// another
func IsValidTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transitions exist from s
func IsTerminalStatus(s OrderStatus) bool {
	return IsValidStatus(s) && len(statusTransitions[s]) == 0
}

// PaymentMethod distinguishes the two checkout flows
type PaymentMethod string

const (
	PaymentMethodHostedGateway PaymentMethod = "hosted_gateway"
	PaymentMethodManualHandoff PaymentMethod = "manual_handoff"
)

// PaymentStatus represents payment record status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ShippingDetails is the delivery contact captured at checkout and copied
// onto the order at creation. PostalCode is the only optional field.
type ShippingDetails struct {
	FullName   string `gorm:"size:255" json:"full_name" binding:"required"`
	Email      string `gorm:"size:255" json:"email" binding:"required,email"`
	Phone      string `gorm:"size:50" json:"phone" binding:"required"`
	Address    string `gorm:"size:500" json:"address" binding:"required"`
	City       string `gorm:"size:100" json:"city" binding:"required"`
	State      string `gorm:"size:100" json:"state" binding:"required"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
}

// Normalize trims surrounding whitespace from every field
func (d *ShippingDetails) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.State = strings.TrimSpace(d.State)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
}

// Validate checks the mandatory fields after trimming
func (d *ShippingDetails) Validate() error {
	d.Normalize()

	required := map[string]string{
		"full_name": d.FullName,
		"email":     d.Email,
		"phone":     d.Phone,
		"address":   d.Address,
		"city":      d.City,
		"state":     d.State,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("email is invalid")
	}
	return nil
}

// IsComplete reports whether the mandatory fields are present
func (d *ShippingDetails) IsComplete() bool {
	return d.Validate() == nil
}

// Order represents a placed order. All amounts are in minor currency
// units and are computed once at creation, never re-derived.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      *uint       `gorm:"index" json:"user_id"` // nullable for guest orders
	Email       string      `gorm:"not null;size:255" json:"email"`
	Status      OrderStatus `gorm:"not null;default:'pending';size:20" json:"status"`

	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	Currency string `gorm:"size:3;default:'ngn'" json:"currency"`

	ShippingDetails ShippingDetails `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_details"`

	PaymentMethod     PaymentMethod `gorm:"not null;size:20" json:"payment_method"`
	PaymentProvider   string        `gorm:"size:50" json:"payment_provider"`
	ProviderSessionID string        `gorm:"size:255;index" json:"provider_session_id,omitempty"`
	CheckoutURL       string        `gorm:"size:1000" json:"checkout_url,omitempty"`

	TrackingCode string `gorm:"size:100" json:"tracking_code,omitempty"`

	PaidAt      *time.Time     `json:"paid_at,omitempty"`
	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments      []Payment            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents a product line frozen into an order
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Image      string    `gorm:"size:500" json:"image"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// Payment represents a payment transaction against an order
type Payment struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	OrderID           uint          `gorm:"not null;index" json:"order_id"`
	Provider          string        `gorm:"not null;size:50" json:"provider"`
	ProviderSessionID string        `gorm:"size:255;index" json:"provider_session_id"`
	Amount            int64         `gorm:"not null" json:"amount"`
	Currency          string        `gorm:"size:3;default:'ngn'" json:"currency"`
	Status            PaymentStatus `gorm:"not null;size:20" json:"status"`
	ProcessedAt       *time.Time    `json:"processed_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy string      `gorm:"size:100" json:"created_by"` // "customer", "admin", "webhook", "system"
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides for the history table
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
