package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type createPaymentOrderRequest struct {
	CouponCode string `json:"couponCode"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// CreatePaymentOrder opens a Razorpay order for the caller's cart total.
func CreatePaymentOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req createPaymentOrderRequest
	if c.Request.ContentLength > 0 && !utils.BindJSON(c, &req) {
		return
	}
	order, err := services.CreatePaymentOrder(config.DB, PaymentGateway, sess.UserID, req.CouponCode, config.AppConfig.PaymentCurrency, Now())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment order created", order)
}

func VerifyPayment(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	payment, err := services.VerifyPayment(config.DB, PaymentGateway, sess.UserID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment verified", gin.H{"verified": true, "paymentId": payment.GatewayPaymentID})
}
