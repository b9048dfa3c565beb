package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/payments"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

var (
	ErrPaymentVerification    = utils.BadRequestError("Payment verification failed", nil)
	ErrPaymentAlreadyVerified = utils.ConflictError("Payment already verified with a different payment id", nil)
)

// PaymentOrder is returned to the client to open the gateway checkout.
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// CreatePaymentOrder opens a gateway order for the user's current cart total.
// The amount always comes from the server-side quote.
func CreatePaymentOrder(db *gorm.DB, gw payments.Gateway, userID, couponCode, currency string, now time.Time) (*PaymentOrder, error) {
	if gw == nil {
		return nil, utils.ServiceUnavailableError("Payment gateway not configured", payments.ErrGatewayNotConfigured)
	}
	quote, err := QuoteCart(db, userID, couponCode, now)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if quote.CouponError != "" {
		return nil, utils.UnprocessableError(quote.CouponError, nil)
	}
	if !quote.Total.IsPositive() {
		return nil, utils.BadRequestError("Order total must be greater than zero for online payment", nil)
	}

	amount := payments.ToMinorUnits(quote.Total)
	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	gwOrder, err := gw.CreateOrder(amount, currency, receipt)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadGateway, "Failed to create payment order", err)
	}

	payment := models.Payment{
		UserID:         userID,
		GatewayOrderID: gwOrder.ID,
		Amount:         quote.Total,
		Currency:       currency,
		Status:         models.PaymentStatusCreated,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	utils.LogInfo("Payment order %s created for user %s: %d %s", gwOrder.ID, userID, amount, currency)
	return &PaymentOrder{OrderID: gwOrder.ID, Amount: amount, Currency: currency, Key: gw.KeyID()}, nil
}

// VerifyPayment checks the gateway signature for a payment and records the
// outcome on the payment row.
func VerifyPayment(db *gorm.DB, gw payments.Gateway, userID, gatewayOrderID, gatewayPaymentID, signature string) (*models.Payment, error) {
	if gw == nil {
		return nil, utils.ServiceUnavailableError("Payment gateway not configured", payments.ErrGatewayNotConfigured)
	}
	var payment models.Payment
	err := db.Where("gateway_order_id = ? AND user_id = ?", gatewayOrderID, userID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}

	if !gw.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		utils.LogError("Payment verification failed for gateway order %s", gatewayOrderID)
		if payment.Status == models.PaymentStatusCreated {
			if err := db.Model(&payment).Update("status", models.PaymentStatusFailed).Error; err != nil {
				utils.LogError("Failed to mark payment %d failed: %v", payment.ID, err)
			}
		}
		return nil, ErrPaymentVerification
	}

	if payment.Status == models.PaymentStatusVerified || payment.OrderID != "" {
		if payment.GatewayPaymentID != gatewayPaymentID {
			utils.LogError("Gateway order %s already verified as %s, got %s", gatewayOrderID, payment.GatewayPaymentID, gatewayPaymentID)
			return nil, ErrPaymentAlreadyVerified
		}
		return &payment, nil
	}

	res := db.Model(&payment).
		Where("status <> ?", models.PaymentStatusVerified).
		Updates(map[string]interface{}{
			"status":             models.PaymentStatusVerified,
			"gateway_payment_id": gatewayPaymentID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("mark payment verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrPaymentAlreadyVerified
	}
	payment.Status = models.PaymentStatusVerified
	payment.GatewayPaymentID = gatewayPaymentID
	utils.LogInfo("Payment %s verified for gateway order %s", gatewayPaymentID, gatewayOrderID)
	return &payment, nil
}
