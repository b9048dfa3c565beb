package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices travel as JSON numbers, the way the storefront client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a shopper who signed in with Google
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	GoogleID  string    `gorm:"uniqueIndex;size:64;not null" json:"googleId"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoUrl"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Admin represents an administrator in the system
type Admin struct {
	gorm.Model
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Password  string     `json:"-"`
	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `json:"isActive"`
}
