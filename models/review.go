package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductReview struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID string    `gorm:"index;not null" json:"productId"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	UserName  string    `gorm:"not null" json:"userName"`
	UserPhoto string    `json:"userPhoto,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (r *ProductReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
