package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGatewaySecret = "rzp_test_secret"

type fakeGateway struct {
	amount   int64
	currency string
	receipt  string
	err      error
}

func (g *fakeGateway) CreateOrder(amount int64, currency, receipt string) (payments.GatewayOrder, error) {
	if g.err != nil {
		return payments.GatewayOrder{}, g.err
	}
	g.amount, g.currency, g.receipt = amount, currency, receipt
	return payments.GatewayOrder{ID: "order_" + receipt, Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payments.VerifySignature(testGatewaySecret, orderID, paymentID, signature)
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func TestCreatePaymentOrderUsesServerQuote(t *testing.T) {
	db := setupTestDB(t)
	corset := createProduct(t, db, "Velvet Corset", "450.00", nil)
	addToCart(t, db, "u1", corset, 2, "")
	createCoupon(t, db, models.Coupon{
		Code: "FLAT50", DiscountType: models.DiscountFixed, DiscountValue: dec("50.50"), IsActive: true,
	})
	gw := &fakeGateway{}

	order, err := CreatePaymentOrder(db, gw, "u1", "flat50", "INR", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(84950), order.Amount)
	assert.Equal(t, int64(84950), gw.amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.Key)
	assert.Regexp(t, `^rcpt_[0-9a-f]{8}$`, gw.receipt)

	var payment models.Payment
	require.NoError(t, db.Where("gateway_order_id = ?", order.OrderID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status)
	assert.Equal(t, "849.50", payment.Amount.StringFixed(2))
}

func TestCreatePaymentOrderFailures(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreatePaymentOrder(db, nil, "u1", "", "INR", time.Now())
	assert.Equal(t, http.StatusServiceUnavailable, appErrCode(err))

	_, err = CreatePaymentOrder(db, &fakeGateway{}, "u1", "", "INR", time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)

	corset := createProduct(t, db, "Velvet Corset", "450.00", nil)
	addToCart(t, db, "u1", corset, 1, "")
	_, err = CreatePaymentOrder(db, &fakeGateway{}, "u1", "NOPE", "INR", time.Now())
	assert.Equal(t, http.StatusUnprocessableEntity, appErrCode(err))

	_, err = CreatePaymentOrder(db, &fakeGateway{err: errors.New("gateway down")}, "u1", "", "INR", time.Now())
	assert.Equal(t, http.StatusBadGateway, appErrCode(err))
}

func TestVerifyPayment(t *testing.T) {
	db := setupTestDB(t)
	gw := &fakeGateway{}
	require.NoError(t, db.Create(&models.Payment{
		UserID: "u1", GatewayOrderID: "order_1", Amount: dec("180.00"),
		Currency: "INR", Status: models.PaymentStatusCreated,
	}).Error)

	_, err := VerifyPayment(db, gw, "u2", "order_1", "pay_1", payments.Sign(testGatewaySecret, "order_1", "pay_1"))
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	payment, err := VerifyPayment(db, gw, "u1", "order_1", "pay_1", payments.Sign(testGatewaySecret, "order_1", "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVerified, payment.Status)
	assert.Equal(t, "pay_1", payment.GatewayPaymentID)
}

func TestVerifyPaymentKeepsFirstVerification(t *testing.T) {
	db := setupTestDB(t)
	gw := &fakeGateway{}
	payment := models.Payment{
		UserID: "u1", GatewayOrderID: "order_1", GatewayPaymentID: "pay_1", Amount: dec("180.00"),
		Currency: "INR", Status: models.PaymentStatusVerified, OrderID: "order-claimed",
	}
	require.NoError(t, db.Create(&payment).Error)

	again, err := VerifyPayment(db, gw, "u1", "order_1", "pay_1", payments.Sign(testGatewaySecret, "order_1", "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, "order-claimed", again.OrderID)

	_, err = VerifyPayment(db, gw, "u1", "order_1", "pay_2", payments.Sign(testGatewaySecret, "order_1", "pay_2"))
	assert.ErrorIs(t, err, ErrPaymentAlreadyVerified)

	var stored models.Payment
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, "pay_1", stored.GatewayPaymentID)
	assert.Equal(t, models.PaymentStatusVerified, stored.Status)
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Payment{
		UserID: "u1", GatewayOrderID: "order_1", Amount: dec("180.00"),
		Currency: "INR", Status: models.PaymentStatusCreated,
	}).Error)

	_, err := VerifyPayment(db, &fakeGateway{}, "u1", "order_1", "pay_1", "deadbeef")
	assert.ErrorIs(t, err, ErrPaymentVerification)

	var stored models.Payment
	require.NoError(t, db.Where("gateway_order_id = ?", "order_1").First(&stored).Error)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)
	assert.Empty(t, stored.GatewayPaymentID)
}
