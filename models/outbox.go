package models

import "time"

// Outbox message kinds
const (
	OutboxOrderConfirmationEmail = "email.order_confirmation"
	OutboxShippingUpdateEmail    = "email.shipping_update"
	OutboxOrderEvent             = "event.order"
)

// Outbox message statuses
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxSkipped = "skipped"
	OutboxFailed  = "failed"
)

// OutboxMessage is a side effect recorded in the same transaction as the
// state change that caused it, delivered later by the dispatcher.
type OutboxMessage struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Kind          string     `json:"kind" gorm:"size:64;not null"`
	Payload       string     `json:"payload" gorm:"type:text;not null"`
	Status        string     `json:"status" gorm:"size:16;index:idx_outbox_due;not null"`
	Attempts      int        `json:"attempts" gorm:"not null"`
	NextAttemptAt time.Time  `json:"nextAttemptAt" gorm:"index:idx_outbox_due;not null"`
	LastError     string     `json:"lastError,omitempty" gorm:"type:text"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
