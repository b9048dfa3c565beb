package services

import (
	"errors"
	"fmt"

	"github.com/nocturnelux/storefront/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is a user's cart lines with their current products.
type Cart struct {
	Items    []models.CartItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// CartSubtotal sums price × quantity over lines whose product still exists.
func CartSubtotal(items []models.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal.Round(2)
}

// GetCart loads the user's lines joined with current product records,
// oldest line first.
func GetCart(db *gorm.DB, userID string) (*Cart, error) {
	var items []models.CartItem
	err := db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Cart{Items: items, Subtotal: CartSubtotal(items)}, nil
}

// AddToCart always inserts a new line; it never merges with an existing one.
func AddToCart(db *gorm.DB, userID, productID string, quantity int, size string) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := GetProduct(db, productID)
	if err != nil {
		return nil, err
	}
	if size != "" && !models.IsValidSize(size) {
		return nil, ErrInvalidSize
	}
	if len(product.Sizes) > 0 {
		if size == "" {
			return nil, ErrInvalidSize
		}
		if _, ok := product.Sizes[size]; !ok {
			return nil, ErrInvalidSize
		}
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	item.Product = product
	return &item, nil
}

func getOwnedCartItem(db *gorm.DB, userID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart item: %w", err)
	}
	return &item, nil
}

// UpdateCartQuantity sets a line's quantity, which must be at least 1.
func UpdateCartQuantity(db *gorm.DB, userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := getOwnedCartItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	item.Quantity = quantity
	return item, nil
}

// AdjustCartQuantity moves a line's quantity by delta. A line that would
// drop below 1 is deleted; removed reports when that happened.
func AdjustCartQuantity(db *gorm.DB, userID, itemID string, delta int) (item *models.CartItem, removed bool, err error) {
	item, err = getOwnedCartItem(db, userID, itemID)
	if err != nil {
		return nil, false, err
	}
	next := item.Quantity + delta
	if next < 1 {
		if err := db.Delete(item).Error; err != nil {
			return nil, false, fmt.Errorf("remove cart item: %w", err)
		}
		return item, true, nil
	}
	if err := db.Model(item).Update("quantity", next).Error; err != nil {
		return nil, false, fmt.Errorf("update cart item: %w", err)
	}
	item.Quantity = next
	return item, false, nil
}

func RemoveCartItem(db *gorm.DB, userID, itemID string) error {
	res := db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func ClearCart(db *gorm.DB, userID string) error {
	if err := db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
