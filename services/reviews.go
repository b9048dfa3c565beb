package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

// RatingSummary is the aggregate rating of a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SummarizeRatings averages ratings to one decimal place.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return RatingSummary{Average: math.Round(avg*10) / 10, Count: len(ratings)}
}

// ListReviews returns a product's reviews, newest first.
func ListReviews(db *gorm.DB, productID string) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	err := db.Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func ProductRating(db *gorm.DB, productID string) (RatingSummary, error) {
	var ratings []int
	err := db.Model(&models.ProductReview{}).Where("product_id = ?", productID).Pluck("rating", &ratings).Error
	if err != nil {
		return RatingSummary{}, fmt.Errorf("load ratings: %w", err)
	}
	return SummarizeRatings(ratings), nil
}

// CreateReview stores a review authored by the session user. A user may
// review the same product more than once.
func CreateReview(db *gorm.DB, sess utils.Session, productID string, rating int, comment string) (*models.ProductReview, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.BadRequestError("Rating must be between 1 and 5", nil)
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, utils.BadRequestError("Comment is required", nil)
	}
	if _, err := GetProduct(db, productID); err != nil {
		return nil, err
	}

	name := sess.Name
	if name == "" {
		name = "Anonymous"
	}
	review := models.ProductReview{
		ProductID: productID,
		UserID:    sess.UserID,
		UserName:  name,
		UserPhoto: sess.PhotoURL,
		Rating:    rating,
		Comment:   comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}
