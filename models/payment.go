package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusCreated  = "created"
	PaymentStatusVerified = "verified"
	PaymentStatusFailed   = "failed"
)

// Payment tracks a gateway order from creation through signature verification.
// OrderID is set once a checkout consumes the payment.
type Payment struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	UserID           string          `json:"userId" gorm:"index;not null"`
	GatewayOrderID   string          `json:"gatewayOrderId" gorm:"uniqueIndex;not null"`
	GatewayPaymentID string          `json:"gatewayPaymentId" gorm:"index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency         string          `json:"currency" gorm:"size:3;not null"`
	Status           string          `json:"status" gorm:"size:20;not null"`
	OrderID          string          `json:"orderId,omitempty" gorm:"index"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
