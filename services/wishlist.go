package services

import (
	"errors"
	"fmt"

	"github.com/nocturnelux/storefront/models"
	"gorm.io/gorm"
)

func ListWishlist(db *gorm.DB, userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := db.Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// AddToWishlist saves a product for the user. Adding a product that is
// already saved returns the existing entry with created=false.
func AddToWishlist(db *gorm.DB, userID, productID string) (item *models.WishlistItem, created bool, err error) {
	product, err := GetProduct(db, productID)
	if err != nil {
		return nil, false, err
	}

	var existing models.WishlistItem
	err = db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		existing.Product = product
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("check wishlist: %w", err)
	}

	entry := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := db.Create(&entry).Error; err != nil {
		return nil, false, fmt.Errorf("add to wishlist: %w", err)
	}
	entry.Product = product
	return &entry, true, nil
}

func RemoveWishlistItem(db *gorm.DB, userID, itemID string) error {
	res := db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("remove wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

func RemoveWishlistProduct(db *gorm.DB, userID, productID string) error {
	res := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("remove wishlist product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

func IsInWishlist(db *gorm.DB, userID, productID string) (bool, error) {
	var count int64
	err := db.Model(&models.WishlistItem{}).Where("user_id = ? AND product_id = ?", userID, productID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return count > 0, nil
}
