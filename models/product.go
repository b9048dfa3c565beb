package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SizeLabels lists the garment sizes a product can stock, smallest first.
var SizeLabels = []string{"XS", "S", "M", "L", "XL", "XXL"}

// IsValidSize reports whether s is one of SizeLabels.
func IsValidSize(s string) bool {
	for _, l := range SizeLabels {
		if l == s {
			return true
		}
	}
	return false
}

// SizeInventory maps a size label to the quantity on hand.
type SizeInventory map[string]int

// Total returns the sum of all size quantities.
func (s SizeInventory) Total() int {
	total := 0
	for _, q := range s {
		total += q
	}
	return total
}

// Validate rejects unknown labels and negative quantities.
func (s SizeInventory) Validate() error {
	for label, q := range s {
		if !IsValidSize(label) {
			return fmt.Errorf("unknown size %q", label)
		}
		if q < 0 {
			return fmt.Errorf("negative quantity for size %s", label)
		}
	}
	return nil
}

// Product is a catalog entry
type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"not null" json:"image"`
	Category    string          `gorm:"index;not null" json:"category"`
	Stock       int             `gorm:"not null" json:"stock"`
	Sizes       SizeInventory   `gorm:"serializer:json;type:text" json:"sizes"`
	Featured    bool            `gorm:"index" json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps stock in line with the size inventory when one is present.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if len(p.Sizes) > 0 {
		p.Stock = p.Sizes.Total()
	}
	return nil
}
