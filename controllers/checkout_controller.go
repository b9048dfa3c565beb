package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type shippingRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"required"`
}

type placeOrderRequest struct {
	CouponCode    string          `json:"couponCode"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=razorpay cod"`
	PaymentID     string          `json:"paymentId"`
	Shipping      shippingRequest `json:"shipping" binding:"required"`
}

// CheckoutSummary prices the cart with an optional ?coupon= code.
func CheckoutSummary(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	quote, err := services.QuoteCart(config.DB, sess.UserID, c.Query("coupon"), Now())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Checkout summary", quote)
}

func PlaceOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req placeOrderRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	ship := req.Shipping
	if errs := utils.ValidateShippingFields(ship.Name, ship.Phone, ship.Address, ship.City, ship.State, ship.Pincode); len(errs) > 0 {
		utils.BadRequest(c, "Invalid shipping details", errs)
		return
	}

	order, err := services.PlaceOrder(config.DB, sess, services.CheckoutRequest{
		CouponCode:    req.CouponCode,
		PaymentMethod: req.PaymentMethod,
		PaymentID:     req.PaymentID,
		Shipping: services.ShippingDetails{
			Name:    strings.TrimSpace(ship.Name),
			Phone:   strings.TrimSpace(ship.Phone),
			Address: strings.TrimSpace(ship.Address),
			City:    utils.Title(ship.City),
			State:   utils.Title(ship.State),
			Pincode: strings.ToUpper(strings.TrimSpace(ship.Pincode)),
		},
	}, Now())
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil && appErr.Code < 500 {
			utils.LogInfo("Checkout rejected for user %s: %s", sess.UserID, appErr.Message)
		}
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Order placed successfully", order)
}
