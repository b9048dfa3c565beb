package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingDetails is where an order is delivered.
type ShippingDetails struct {
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
}

// CheckoutRequest is what the shopper submits to place an order.
type CheckoutRequest struct {
	CouponCode    string
	PaymentMethod string
	PaymentID     string
	Shipping      ShippingDetails
}

// Quote is the priced cart as checkout would see it right now.
type Quote struct {
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Discount    decimal.Decimal   `json:"discount"`
	Total       decimal.Decimal   `json:"total"`
	Coupon      *models.Coupon    `json:"coupon,omitempty"`
	CouponError string            `json:"couponError,omitempty"`
	Items       []models.CartItem `json:"items"`
}

// QuoteCart prices the user's cart with an optional coupon. An ineligible
// coupon is reported in CouponError and contributes no discount.
func QuoteCart(db *gorm.DB, userID, couponCode string, now time.Time) (*Quote, error) {
	cart, err := GetCart(db, userID)
	if err != nil {
		return nil, err
	}
	quote := &Quote{Subtotal: cart.Subtotal, Discount: decimal.Zero, Items: cart.Items}

	if strings.TrimSpace(couponCode) != "" {
		result, err := ValidateCoupon(db, couponCode, cart.Subtotal, now)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			quote.Coupon = result.Coupon
			quote.Discount = *result.Discount
		} else {
			quote.CouponError = result.Error
		}
	}
	quote.Total = OrderTotal(quote.Subtotal, quote.Discount)
	return quote, nil
}

// PlaceOrder turns the session user's cart into a pending order in one
// transaction: the cart is re-priced, the coupon revalidated and redeemed,
// the payment claimed, the cart cleared and the follow-up email and event
// queued. Any failure leaves everything as it was.
func PlaceOrder(db *gorm.DB, sess utils.Session, req CheckoutRequest, now time.Time) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		quote, err := QuoteCart(tx, sess.UserID, "", now)
		if err != nil {
			return err
		}
		var lines []models.CartItem
		for _, item := range quote.Items {
			if item.Product != nil {
				lines = append(lines, item)
			}
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		discount := decimal.Zero
		var coupon *models.Coupon
		if strings.TrimSpace(req.CouponCode) != "" {
			result, err := ValidateCoupon(tx, req.CouponCode, quote.Subtotal, now)
			if err != nil {
				return err
			}
			if !result.Valid {
				return utils.UnprocessableError(result.Error, nil)
			}
			coupon = result.Coupon
			discount = *result.Discount
		}
		total := OrderTotal(quote.Subtotal, discount)

		order = models.Order{
			UserID:        sess.UserID,
			UserEmail:     sess.Email,
			UserName:      sess.Name,
			Subtotal:      quote.Subtotal,
			Discount:      discount,
			Total:         total,
			Status:        models.OrderStatusPending,
			PaymentMethod: req.PaymentMethod,
			ShippingName:  req.Shipping.Name,
			ShippingPhone: req.Shipping.Phone,
			ShippingAddr:  req.Shipping.Address,
			ShippingCity:  req.Shipping.City,
			ShippingState: req.Shipping.State,
			ShippingPin:   req.Shipping.Pincode,
		}
		if coupon != nil {
			order.CouponCode = coupon.Code
		}
		for _, line := range lines {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:    line.ProductID,
				ProductName:  line.Product.Name,
				ProductImage: line.Product.Image,
				Quantity:     line.Quantity,
				Size:         line.Size,
				Price:        line.Product.Price,
			})
		}

		var payment *models.Payment
		switch req.PaymentMethod {
		case models.PaymentMethodRazorpay:
			payment, err = claimablePayment(tx, sess.UserID, req.PaymentID, total)
			if err != nil {
				return err
			}
			order.PaymentID = req.PaymentID
		case models.PaymentMethodCOD:
		default:
			return utils.BadRequestError("Unsupported payment method", nil)
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if payment != nil {
			if err := claimPayment(tx, payment.ID, order.ID); err != nil {
				return err
			}
		}
		if coupon != nil {
			if err := IncrementCouponUsage(tx, coupon.ID); err != nil {
				return err
			}
		}
		if err := ClearCart(tx, sess.UserID); err != nil {
			return err
		}
		if order.UserEmail != "" {
			if err := Enqueue(tx, models.OutboxOrderConfirmationEmail, OrderEmailPayload{OrderID: order.ID}); err != nil {
				return err
			}
		}
		return enqueueOrderEvent(tx, EventOrderCreated, &order, "")
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Order %s placed by user %s: total=%s coupon=%q", order.ID, order.UserID, order.Total.StringFixed(2), order.CouponCode)
	return &order, nil
}

// claimablePayment finds a verified, unclaimed gateway payment of the user
// whose amount matches the order total.
func claimablePayment(tx *gorm.DB, userID, paymentID string, total decimal.Decimal) (*models.Payment, error) {
	if paymentID == "" {
		return nil, utils.BadRequestError("Payment reference is required", nil)
	}
	var payment models.Payment
	err := tx.Where("gateway_payment_id = ? AND user_id = ?", paymentID, userID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	if payment.Status != models.PaymentStatusVerified {
		return nil, ErrPaymentUnverified
	}
	if payment.OrderID != "" {
		return nil, ErrPaymentClaimed
	}
	if !payment.Amount.Equal(total) {
		return nil, ErrPaymentMismatch
	}
	return &payment, nil
}

// claimPayment attaches the payment to orderID unless another order got to it
// first.
func claimPayment(tx *gorm.DB, paymentID uint, orderID string) error {
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND (order_id = '' OR order_id IS NULL)", paymentID).
		Update("order_id", orderID)
	if res.Error != nil {
		return fmt.Errorf("claim payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPaymentClaimed
	}
	return nil
}
