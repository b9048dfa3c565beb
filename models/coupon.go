package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a promotional discount code
type Coupon struct {
	ID             string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code           string              `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Description    string              `json:"description"`
	DiscountType   string              `gorm:"size:20;not null" json:"discountType"`
	DiscountValue  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	MinOrderAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit"`
	UsedCount      int                 `gorm:"not null" json:"usedCount"`
	ValidFrom      time.Time           `gorm:"not null" json:"validFrom"`
	ValidUntil     *time.Time          `json:"validUntil"`
	IsActive       bool                `gorm:"not null" json:"isActive"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now()
	}
	return nil
}

// BeforeSave stores codes in their canonical upper-case form.
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return nil
}
