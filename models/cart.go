package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one line of a shopper's cart. Lines are never merged, so the
// same product and size may appear more than once.
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	ProductID string    `gorm:"index;not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Size      string    `gorm:"size:8" json:"size,omitempty"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
