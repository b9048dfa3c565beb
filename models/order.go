package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods accepted at checkout
const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"
)

// Order is a placed purchase. Customer and product details are copied in at
// checkout so later catalog edits do not rewrite history.
type Order struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string          `gorm:"index;not null" json:"userId"`
	UserEmail      string          `json:"userEmail"`
	UserName       string          `json:"userName"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CouponCode     string          `gorm:"size:50" json:"couponCode,omitempty"`
	Status         string          `gorm:"size:20;index;not null" json:"status"`
	PaymentMethod  string          `gorm:"size:20;not null" json:"paymentMethod"`
	PaymentID      string          `json:"paymentId,omitempty"`
	ShippingName   string          `gorm:"not null" json:"shippingName"`
	ShippingPhone  string          `gorm:"not null" json:"shippingPhone"`
	ShippingAddr   string          `gorm:"column:shipping_address;type:text;not null" json:"shippingAddress"`
	ShippingCity   string          `gorm:"not null" json:"shippingCity"`
	ShippingState  string          `gorm:"not null" json:"shippingState"`
	ShippingPin    string          `gorm:"column:shipping_pincode;not null" json:"shippingPincode"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	EmailSent      bool            `gorm:"not null" json:"emailSent"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is a purchased line with the product details as they were at checkout
type OrderItem struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID      string          `gorm:"index;not null" json:"orderId"`
	ProductID    string          `gorm:"index;not null" json:"productId"`
	ProductName  string          `gorm:"not null" json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Size         string          `gorm:"size:8" json:"size,omitempty"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Reference is the short, human-facing order number used in emails and invoices.
func (o *Order) Reference() string {
	if len(o.ID) < 8 {
		return strings.ToUpper(o.ID)
	}
	return strings.ToUpper(o.ID[:8])
}
