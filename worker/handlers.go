package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nocturnelux/storefront/events"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

type configurable interface {
	Configured() bool
}

func mailerReady(m utils.Mailer) bool {
	if m == nil {
		return false
	}
	if c, ok := m.(configurable); ok {
		return c.Configured()
	}
	return true
}

func loadOrderFor(db *gorm.DB, msg *models.OutboxMessage) (*models.Order, error) {
	var p services.OrderEmailPayload
	if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return services.GetOrder(db, p.OrderID)
}

// OrderConfirmationHandler emails the order summary and marks the order as emailed.
func OrderConfirmationHandler(db *gorm.DB, mailer utils.Mailer) Handler {
	return func(ctx context.Context, msg *models.OutboxMessage) error {
		if !mailerReady(mailer) {
			return fmt.Errorf("%w: %v", ErrSkip, utils.ErrMailerNotConfigured)
		}
		order, err := loadOrderFor(db.WithContext(ctx), msg)
		if err != nil {
			return err
		}
		if order.EmailSent {
			return nil
		}
		subject, body, err := utils.OrderConfirmationEmail(order)
		if err != nil {
			return err
		}
		if err := mailer.Send(order.UserEmail, subject, body); err != nil {
			return err
		}
		utils.LogInfo("Order confirmation email sent for order %s", order.ID)
		return db.WithContext(ctx).Model(order).Update("email_sent", true).Error
	}
}

// ShippingUpdateHandler emails the tracking number of a shipped order.
func ShippingUpdateHandler(db *gorm.DB, mailer utils.Mailer) Handler {
	return func(ctx context.Context, msg *models.OutboxMessage) error {
		if !mailerReady(mailer) {
			return fmt.Errorf("%w: %v", ErrSkip, utils.ErrMailerNotConfigured)
		}
		order, err := loadOrderFor(db.WithContext(ctx), msg)
		if err != nil {
			return err
		}
		subject, body, err := utils.ShippingUpdateEmail(order)
		if err != nil {
			return err
		}
		if err := mailer.Send(order.UserEmail, subject, body); err != nil {
			return err
		}
		utils.LogInfo("Shipping email sent for order %s", order.ID)
		return nil
	}
}

// OrderEventHandler publishes order events keyed by order id.
func OrderEventHandler(pub events.Publisher) Handler {
	return func(ctx context.Context, msg *models.OutboxMessage) error {
		if pub == nil {
			return fmt.Errorf("%w: %v", ErrSkip, events.ErrPublisherNotConfigured)
		}
		var p services.OrderEventPayload
		if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		env := events.NewEnvelope(p.EventType, p.OrderID, json.RawMessage(msg.Payload), time.Now())
		return pub.Publish(ctx, p.OrderID, env)
	}
}

// Register wires the storefront's handlers into d. A nil mailer or publisher
// makes the matching messages skip.
func Register(d *Dispatcher, db *gorm.DB, mailer utils.Mailer, pub events.Publisher) {
	d.Handle(models.OutboxOrderConfirmationEmail, OrderConfirmationHandler(db, mailer))
	d.Handle(models.OutboxShippingUpdateEmail, ShippingUpdateHandler(db, mailer))
	d.Handle(models.OutboxOrderEvent, OrderEventHandler(pub))
}
