package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nocturnelux/storefront/models"
	"gorm.io/gorm"
)

// Order event types published to the event stream
const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// OrderEmailPayload identifies the order an email is about.
type OrderEmailPayload struct {
	OrderID string `json:"orderId"`
}

// OrderEventPayload is the body of an order event.
type OrderEventPayload struct {
	EventType      string          `json:"eventType"`
	OrderID        string          `json:"orderId"`
	UserID         string          `json:"userId"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previousStatus,omitempty"`
	Total          json.RawMessage `json:"total"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
}

// Enqueue records a side effect to be delivered after tx commits.
func Enqueue(tx *gorm.DB, kind string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}
	msg := models.OutboxMessage{
		Kind:          kind,
		Payload:       string(body),
		Status:        models.OutboxPending,
		NextAttemptAt: time.Now(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return fmt.Errorf("enqueue %s: %w", kind, err)
	}
	return nil
}

func enqueueOrderEvent(tx *gorm.DB, eventType string, order *models.Order, previousStatus string) error {
	total, err := order.Total.MarshalJSON()
	if err != nil {
		return err
	}
	return Enqueue(tx, models.OutboxOrderEvent, OrderEventPayload{
		EventType:      eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previousStatus,
		Total:          total,
		TrackingNumber: order.TrackingNumber,
	})
}
