package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nocturnelux/storefront/events"
	"github.com/nocturnelux/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakePublisher struct {
	keys      []string
	envelopes []events.Envelope
}

func (p *fakePublisher) Publish(ctx context.Context, key string, env events.Envelope) error {
	p.keys = append(p.keys, key)
	p.envelopes = append(p.envelopes, env)
	return nil
}

func createOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID: "u1", UserEmail: "raven@example.com", UserName: "Raven",
		Subtotal: decimal.NewFromInt(450), Discount: decimal.Zero, Total: decimal.NewFromInt(450),
		Status: models.OrderStatusShipped, PaymentMethod: models.PaymentMethodCOD,
		ShippingName: "Raven", ShippingPhone: "9876543210", ShippingAddr: "13 Crypt Lane",
		ShippingCity: "Pune", ShippingState: "Maharashtra", ShippingPin: "411001",
		TrackingNumber: "TRK-0013",
		Items: []models.OrderItem{{
			ProductID: "p1", ProductName: "Velvet Corset", Quantity: 1, Size: "M", Price: decimal.NewFromInt(450),
		}},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func orderMessage(t *testing.T, db *gorm.DB, kind, orderID string) *models.OutboxMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"orderId": orderID})
	require.NoError(t, err)
	return insertMessage(t, db, kind, string(payload), time.Now().Add(-time.Second))
}

func TestOrderConfirmationHandler(t *testing.T) {
	db := setupTestDB(t)
	order := createOrder(t, db)
	mailer := &fakeMailer{}
	msg := orderMessage(t, db, models.OutboxOrderConfirmationEmail, order.ID)

	h := OrderConfirmationHandler(db, mailer)
	require.NoError(t, h(context.Background(), msg))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "raven@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, order.Reference())
	assert.Contains(t, mailer.sent[0].body, "Velvet Corset")

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.True(t, stored.EmailSent)

	require.NoError(t, h(context.Background(), msg))
	assert.Len(t, mailer.sent, 1, "already emailed orders are not re-sent")
}

func TestShippingUpdateHandler(t *testing.T) {
	db := setupTestDB(t)
	order := createOrder(t, db)
	mailer := &fakeMailer{}
	msg := orderMessage(t, db, models.OutboxShippingUpdateEmail, order.ID)

	require.NoError(t, ShippingUpdateHandler(db, mailer)(context.Background(), msg))
	require.Len(t, mailer.sent, 1)
	assert.True(t, strings.HasPrefix(mailer.sent[0].subject, "Your Order Has Shipped!"))
	assert.Contains(t, mailer.sent[0].body, "TRK-0013")

	mailer.err = errors.New("relay refused")
	assert.EqualError(t, ShippingUpdateHandler(db, mailer)(context.Background(), msg), "relay refused")
}

func TestHandlersSkipWithoutBackends(t *testing.T) {
	db := setupTestDB(t)
	order := createOrder(t, db)
	msg := orderMessage(t, db, models.OutboxOrderConfirmationEmail, order.ID)

	assert.ErrorIs(t, OrderConfirmationHandler(db, nil)(context.Background(), msg), ErrSkip)
	assert.ErrorIs(t, OrderEventHandler(nil)(context.Background(), msg), ErrSkip)
}

func TestOrderEventHandlerPublishesEnvelope(t *testing.T) {
	db := setupTestDB(t)
	pub := &fakePublisher{}
	payload := `{"eventType":"OrderStatusChanged","orderId":"o-1","userId":"u1","status":"shipped","previousStatus":"processing","total":450}`
	msg := insertMessage(t, db, models.OutboxOrderEvent, payload, time.Now())

	require.NoError(t, OrderEventHandler(pub)(context.Background(), msg))
	require.Len(t, pub.envelopes, 1)
	env := pub.envelopes[0]
	assert.Equal(t, "o-1", pub.keys[0])
	assert.Equal(t, "OrderStatusChanged", env.EventType)
	assert.Equal(t, "o-1", env.CorrelationID)
	assert.Equal(t, events.ProducerName, env.Producer)
	assert.JSONEq(t, payload, string(env.Payload))
}

func TestRegisterDeliversThroughDispatcher(t *testing.T) {
	db := setupTestDB(t)
	order := createOrder(t, db)
	mailer := &fakeMailer{}
	msg := orderMessage(t, db, models.OutboxOrderConfirmationEmail, order.ID)

	d := testDispatcher(db, time.Now())
	Register(d, db, mailer, nil)
	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.OutboxSent, reload(t, db, msg.ID).Status)
	assert.Len(t, mailer.sent, 1)
}
