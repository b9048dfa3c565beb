package services

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusPending, false},
		{models.OrderStatusPending, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusPending, "returned", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func placeTestOrder(t *testing.T, db *gorm.DB, userID string) *models.Order {
	t.Helper()
	choker := createProduct(t, db, "Victorian Choker "+userID, "180.00", nil)
	addToCart(t, db, userID, choker, 1, "")
	order, err := PlaceOrder(db, testSession(userID), CheckoutRequest{
		PaymentMethod: models.PaymentMethodCOD,
		Shipping:      testShipping,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Where("1 = 1").Delete(&models.OutboxMessage{}).Error)
	return order
}

func TestUpdateOrderStatusShippedQueuesEmail(t *testing.T) {
	db := setupTestDB(t)
	order := placeTestOrder(t, db, "u1")

	updated, err := UpdateOrderStatus(db, order.ID, " Shipped ", "TRK-123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, "TRK-123", updated.TrackingNumber)
	assert.Equal(t, []string{models.OutboxShippingUpdateEmail, models.OutboxOrderEvent}, outboxKinds(t, db))

	var msg models.OutboxMessage
	require.NoError(t, db.Where("kind = ?", models.OutboxOrderEvent).First(&msg).Error)
	var payload OrderEventPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, EventOrderStatusChanged, payload.EventType)
	assert.Equal(t, models.OrderStatusPending, payload.PreviousStatus)
	assert.Equal(t, "TRK-123", payload.TrackingNumber)

	// Re-sending shipped with a new tracking number updates it.
	updated, err = UpdateOrderStatus(db, order.ID, models.OrderStatusShipped, "TRK-456")
	require.NoError(t, err)
	assert.Equal(t, "TRK-456", updated.TrackingNumber)

	_, err = UpdateOrderStatus(db, order.ID, models.OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusWithoutTrackingSkipsEmail(t *testing.T) {
	db := setupTestDB(t)
	order := placeTestOrder(t, db, "u1")

	_, err := UpdateOrderStatus(db, order.ID, models.OrderStatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, []string{models.OutboxOrderEvent}, outboxKinds(t, db))
}

func TestUpdateOrderStatusRejections(t *testing.T) {
	db := setupTestDB(t)
	order := placeTestOrder(t, db, "u1")

	_, err := UpdateOrderStatus(db, order.ID, "lost", "")
	assert.Equal(t, http.StatusBadRequest, appErrCode(err))

	_, err = UpdateOrderStatus(db, "missing", models.OrderStatusProcessing, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = UpdateOrderStatus(db, order.ID, models.OrderStatusDelivered, "")
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, order.ID, models.OrderStatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, http.StatusConflict, appErrCode(err))

	stored, err := GetOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
}

func TestUserOrdersAreScoped(t *testing.T) {
	db := setupTestDB(t)
	mine := placeTestOrder(t, db, "u1")
	placeTestOrder(t, db, "u2")

	orders, err := ListUserOrders(db, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 1)

	_, err = GetUserOrder(db, "u2", mine.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersFiltersAndPages(t *testing.T) {
	db := setupTestDB(t)
	for _, u := range []string{"a", "b", "c"} {
		placeTestOrder(t, db, u)
	}
	shipped := placeTestOrder(t, db, "d")
	_, err := UpdateOrderStatus(db, shipped.ID, models.OrderStatusShipped, "")
	require.NoError(t, err)

	page := &utils.Pagination{Page: 1, Limit: 2, Offset: 0}
	orders, err := ListOrders(db, "", page)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.LastPage)

	page = &utils.Pagination{Page: 1, Limit: 20}
	orders, err = ListOrders(db, models.OrderStatusShipped, page)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, shipped.ID, orders[0].ID)

	_, err = ListOrders(db, "bogus", page)
	assert.Equal(t, http.StatusBadRequest, appErrCode(err))
}
