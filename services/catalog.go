package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    string
	Stock       int
	Sizes       models.SizeInventory
	Featured    bool
}

// ProductPatch carries the fields an admin changed; nil means unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Category    *string
	Stock       *int
	Sizes       *models.SizeInventory
	Featured    *bool
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return utils.BadRequestError("Product name is required", nil)
	}
	if strings.TrimSpace(p.Category) == "" {
		return utils.BadRequestError("Product category is required", nil)
	}
	if p.Price.IsNegative() {
		return utils.BadRequestError("Price cannot be negative", nil)
	}
	if p.Stock < 0 {
		return utils.BadRequestError("Stock cannot be negative", nil)
	}
	if err := p.Sizes.Validate(); err != nil {
		return utils.BadRequestError("Invalid size inventory", err)
	}
	return nil
}

// ListProducts returns the whole catalog, newest first.
func ListProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func ListFeaturedProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Where("featured = ?", true).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return products, nil
}

func ListProductsByCategory(db *gorm.DB, category string) ([]models.Product, error) {
	var products []models.Product
	if err := db.Where("category = ?", category).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products in %s: %w", category, err)
	}
	return products, nil
}

// SearchProducts matches q case-insensitively against name, description and category.
func SearchProducts(db *gorm.DB, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}
	pattern := "%" + strings.ToLower(q) + "%"
	var products []models.Product
	err := db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func GetProduct(db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &product, nil
}

func CreateProduct(db *gorm.DB, in ProductInput) (*models.Product, error) {
	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Image:       in.Image,
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
		Sizes:       in.Sizes,
		Featured:    in.Featured,
	}
	if err := validateProduct(&product); err != nil {
		return nil, err
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func UpdateProduct(db *gorm.DB, id string, patch ProductPatch) (*models.Product, error) {
	product, err := GetProduct(db, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = patch.Price.Round(2)
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.Category != nil {
		product.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Sizes != nil {
		product.Sizes = *patch.Sizes
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return product, nil
}

// DeleteProduct removes a product together with the cart lines, wishlist
// entries and reviews that reference it. Order items keep their copies.
func DeleteProduct(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{&models.CartItem{}, &models.WishlistItem{}, &models.ProductReview{}} {
			if err := tx.Where("product_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete dependents of product %s: %w", id, err)
			}
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete product %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}
