package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

// GatewayOrder is an order created with the payment gateway.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway creates payment orders and verifies their signatures.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string) (GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Razorpay is the Razorpay implementation of Gateway.
type Razorpay struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// NewRazorpay returns nil when either credential is missing.
func NewRazorpay(keyID, secret string) *Razorpay {
	if keyID == "" || secret == "" {
		return nil
	}
	return &Razorpay{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

// CreateOrder creates an auto-captured order for amount in the currency's
// smallest unit.
func (r *Razorpay) CreateOrder(amount int64, currency, receipt string) (GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: missing id in response")
	}
	return GatewayOrder{ID: id, Amount: amount, Currency: currency}, nil
}

func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.secret, orderID, paymentID, signature)
}

// Sign computes the hex HMAC-SHA256 of "orderID|paymentID".
func Sign(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature compares signature with the expected value in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ToMinorUnits converts an amount to paise (or cents), rounding half-up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
