package services

import "github.com/nocturnelux/storefront/utils"

var (
	ErrProductNotFound   = utils.NotFoundError("Product not found", nil)
	ErrCartItemNotFound  = utils.NotFoundError("Cart item not found", nil)
	ErrCouponNotFound    = utils.NotFoundError("Coupon not found", nil)
	ErrOrderNotFound     = utils.NotFoundError("Order not found", nil)
	ErrWishlistNotFound  = utils.NotFoundError("Wishlist item not found", nil)
	ErrPaymentNotFound   = utils.NotFoundError("Payment not found", nil)
	ErrInvalidQuantity   = utils.BadRequestError("Invalid quantity", nil)
	ErrInvalidSize       = utils.BadRequestError("Please select a valid size", nil)
	ErrEmptyCart         = utils.BadRequestError("Cart is empty", nil)
	ErrCouponCodeTaken   = utils.ConflictError("A coupon with this code already exists", nil)
	ErrInvalidTransition = utils.ConflictError("Invalid order status transition", nil)
	ErrPaymentMismatch   = utils.UnprocessableError("Payment does not match order total", nil)
	ErrPaymentUnverified = utils.UnprocessableError("Payment has not been verified", nil)
	ErrPaymentClaimed    = utils.ConflictError("Payment already used for another order", nil)
)
