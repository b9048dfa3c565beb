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

// Rule messages returned in CouponResult.Error
const (
	MsgInvalidCoupon  = "Invalid coupon code"
	MsgCouponInactive = "This coupon is no longer active"
	MsgCouponExpired  = "This coupon has expired"
	MsgCouponNotYet   = "This coupon is not active yet"
	MsgCouponUsedUp   = "This coupon has reached its usage limit"
	msgMinimumOrder   = "Minimum order amount is $%s"
)

var hundred = decimal.NewFromInt(100)

// CouponResult is the outcome of validating a code against an order total.
type CouponResult struct {
	Valid    bool             `json:"valid"`
	Coupon   *models.Coupon   `json:"coupon,omitempty"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func rejected(msg string) CouponResult {
	return CouponResult{Valid: false, Error: msg}
}

// NormalizeCouponCode returns the canonical form used for storage and lookup.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EvaluateCoupon applies the eligibility rules in order and, when they all
// pass, computes the discount. A nil coupon is an unknown code.
func EvaluateCoupon(c *models.Coupon, orderTotal decimal.Decimal, now time.Time) CouponResult {
	if c == nil {
		return rejected(MsgInvalidCoupon)
	}
	if !c.IsActive {
		return rejected(MsgCouponInactive)
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return rejected(MsgCouponExpired)
	}
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return rejected(MsgCouponNotYet)
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return rejected(MsgCouponUsedUp)
	}
	if orderTotal.LessThan(c.MinOrderAmount) {
		return rejected(fmt.Sprintf(msgMinimumOrder, c.MinOrderAmount.StringFixed(2)))
	}

	discount := CalculateDiscount(c, orderTotal)
	return CouponResult{Valid: true, Coupon: c, Discount: &discount}
}

// CalculateDiscount computes the discount a coupon grants on orderTotal,
// rounded half-up to cents. Percentage discounts honour the optional cap;
// fixed discounts may exceed the total.
func CalculateDiscount(c *models.Coupon, orderTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = orderTotal.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscount.Valid && discount.GreaterThan(c.MaxDiscount.Decimal) {
			discount = c.MaxDiscount.Decimal
		}
	case models.DiscountFixed:
		discount = c.DiscountValue
	}
	return discount.Round(2)
}

// OrderTotal is subtotal less discount, floored at zero.
func OrderTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// FindCouponByCode looks up a coupon by its normalized code. It returns
// (nil, nil) when no coupon matches.
func FindCouponByCode(db *gorm.DB, code string) (*models.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, nil
	}
	var coupon models.Coupon
	err := db.Where("code = ?", normalized).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", normalized, err)
	}
	return &coupon, nil
}

// ValidateCoupon resolves code and evaluates it against orderTotal.
func ValidateCoupon(db *gorm.DB, code string, orderTotal decimal.Decimal, now time.Time) (CouponResult, error) {
	coupon, err := FindCouponByCode(db, code)
	if err != nil {
		return CouponResult{}, err
	}
	result := EvaluateCoupon(coupon, orderTotal, now)
	if !result.Valid {
		utils.LogDebug("Coupon %q rejected for total %s: %s", NormalizeCouponCode(code), orderTotal.StringFixed(2), result.Error)
	}
	return result, nil
}

// IncrementCouponUsage records one redemption. The update only applies while
// the coupon is under its usage limit, so concurrent checkouts cannot push
// used_count past it.
func IncrementCouponUsage(tx *gorm.DB, couponID string) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.UnprocessableError(MsgCouponUsedUp, nil)
	}
	return nil
}

// CouponInput is the admin-editable part of a coupon.
type CouponInput struct {
	Code           string
	Description    string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    decimal.NullDecimal
	UsageLimit     *int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	IsActive       bool
}

// Validate checks the cross-field rules binding tags cannot express.
func (in CouponInput) Validate() error {
	if NormalizeCouponCode(in.Code) == "" {
		return utils.BadRequestError("Coupon code is required", nil)
	}
	switch in.DiscountType {
	case models.DiscountPercentage:
		if in.DiscountValue.GreaterThan(hundred) {
			return utils.BadRequestError("Percentage discount cannot exceed 100", nil)
		}
	case models.DiscountFixed:
	default:
		return utils.BadRequestError("Discount type must be percentage or fixed", nil)
	}
	if !in.DiscountValue.IsPositive() {
		return utils.BadRequestError("Discount value must be greater than zero", nil)
	}
	if in.MinOrderAmount.IsNegative() {
		return utils.BadRequestError("Minimum order amount cannot be negative", nil)
	}
	if in.MaxDiscount.Valid && in.MaxDiscount.Decimal.IsNegative() {
		return utils.BadRequestError("Maximum discount cannot be negative", nil)
	}
	if in.UsageLimit != nil && *in.UsageLimit < 0 {
		return utils.BadRequestError("Usage limit cannot be negative", nil)
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && in.ValidUntil.Before(*in.ValidFrom) {
		return utils.BadRequestError("Coupon must end after it starts", nil)
	}
	return nil
}

func (in CouponInput) apply(c *models.Coupon) {
	c.Code = NormalizeCouponCode(in.Code)
	c.Description = in.Description
	c.DiscountType = in.DiscountType
	c.DiscountValue = in.DiscountValue
	c.MinOrderAmount = in.MinOrderAmount
	c.MaxDiscount = in.MaxDiscount
	c.UsageLimit = in.UsageLimit
	if in.ValidFrom != nil {
		c.ValidFrom = *in.ValidFrom
	}
	c.ValidUntil = in.ValidUntil
	c.IsActive = in.IsActive
}

// ListCoupons returns every coupon, newest first.
func ListCoupons(db *gorm.DB) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

// CreateCoupon stores a new coupon; codes are unique after normalization.
func CreateCoupon(db *gorm.DB, in CouponInput) (*models.Coupon, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := FindCouponByCode(db, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeTaken
	}

	var coupon models.Coupon
	in.apply(&coupon)
	if err := db.Create(&coupon).Error; err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return &coupon, nil
}

// UpdateCoupon replaces the editable fields of a coupon. The used count is kept.
func UpdateCoupon(db *gorm.DB, id string, in CouponInput) (*models.Coupon, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var coupon models.Coupon
	if err := db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	if other, err := FindCouponByCode(db, in.Code); err != nil {
		return nil, err
	} else if other != nil && other.ID != coupon.ID {
		return nil, ErrCouponCodeTaken
	}

	in.apply(&coupon)
	if err := db.Save(&coupon).Error; err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return &coupon, nil
}

func DeleteCoupon(db *gorm.DB, id string) error {
	res := db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}
