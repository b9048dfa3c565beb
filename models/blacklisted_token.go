package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken holds admin tokens revoked by logout until they would have expired anyway.
type BlacklistedToken struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
