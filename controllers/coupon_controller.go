package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
)

type validateCouponRequest struct {
	Code       string           `json:"code" binding:"required"`
	OrderTotal *decimal.Decimal `json:"orderTotal" binding:"required"`
}

type couponRequest struct {
	Code           string              `json:"code" binding:"required,max=50"`
	Description    string              `json:"description"`
	DiscountType   string              `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue  *decimal.Decimal    `json:"discountValue" binding:"required"`
	MinOrderAmount decimal.Decimal     `json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit" binding:"omitempty,min=0"`
	ValidFrom      *time.Time          `json:"validFrom"`
	ValidUntil     *time.Time          `json:"validUntil"`
	IsActive       *bool               `json:"isActive"`
}

func (r couponRequest) input() services.CouponInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.CouponInput{
		Code:           r.Code,
		Description:    r.Description,
		DiscountType:   r.DiscountType,
		DiscountValue:  *r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		IsActive:       active,
	}
}

// ValidateCoupon checks a code against an order total. Rule failures are a
// normal 200 answer with valid=false.
func ValidateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if req.OrderTotal.IsNegative() {
		utils.BadRequest(c, "Invalid request body", utils.FieldValidationErrors{{Field: "orderTotal", Message: "cannot be negative"}})
		return
	}

	result, err := services.ValidateCoupon(config.DB, req.Code, *req.OrderTotal, Now())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if result.Valid {
		utils.LogInfo("Coupon %s valid for total %s: discount %s", result.Coupon.Code, req.OrderTotal.StringFixed(2), result.Discount.StringFixed(2))
		utils.Success(c, "Coupon applied", result)
		return
	}
	utils.LogInfo("Coupon %s rejected: %s", services.NormalizeCouponCode(req.Code), result.Error)
	utils.Success(c, result.Error, result)
}

// ListCoupons returns all coupons (admin)
func ListCoupons(c *gin.Context) {
	coupons, err := services.ListCoupons(config.DB)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Coupons retrieved successfully", coupons)
}

func CreateCoupon(c *gin.Context) {
	var req couponRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	coupon, err := services.CreateCoupon(config.DB, req.input())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Coupon created: %s", coupon.Code)
	utils.Created(c, "Coupon created successfully", coupon)
}

func UpdateCoupon(c *gin.Context) {
	var req couponRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	coupon, err := services.UpdateCoupon(config.DB, c.Param("id"), req.input())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Coupon updated: %s", coupon.Code)
	utils.Success(c, "Coupon updated successfully", coupon)
}

func DeleteCoupon(c *gin.Context) {
	if err := services.DeleteCoupon(config.DB, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Coupon deleted: %s", c.Param("id"))
	utils.Success(c, "Coupon deleted successfully", nil)
}
