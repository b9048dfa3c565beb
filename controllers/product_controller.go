package controllers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/cache"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string               `json:"name" binding:"required,max=200"`
	Description string               `json:"description" binding:"required"`
	Price       *decimal.Decimal     `json:"price" binding:"required"`
	Image       string               `json:"image" binding:"required"`
	Category    string               `json:"category" binding:"required,max=100"`
	Stock       int                  `json:"stock" binding:"min=0"`
	Sizes       models.SizeInventory `json:"sizes"`
	Featured    bool                 `json:"featured"`
}

type productPatchRequest struct {
	Name        *string               `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string               `json:"description"`
	Price       *decimal.Decimal      `json:"price"`
	Image       *string               `json:"image" binding:"omitempty,min=1"`
	Category    *string               `json:"category" binding:"omitempty,min=1,max=100"`
	Stock       *int                  `json:"stock" binding:"omitempty,min=0"`
	Sizes       *models.SizeInventory `json:"sizes"`
	Featured    *bool                 `json:"featured"`
}

func cachedProducts(ctx context.Context, key string, load func() ([]models.Product, error)) ([]models.Product, error) {
	return cache.Remember(ctx, CatalogCache, key, load)
}

func invalidateCatalog(ctx context.Context) {
	if err := CatalogCache.Invalidate(ctx); err != nil {
		utils.LogError("Failed to invalidate catalog cache: %v", err)
	}
}

// GetProducts lists the whole catalog
func GetProducts(c *gin.Context) {
	products, err := cachedProducts(c.Request.Context(), "products:all", func() ([]models.Product, error) {
		return services.ListProducts(config.DB)
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Products retrieved successfully", products)
}

func GetFeaturedProducts(c *gin.Context) {
	products, err := cachedProducts(c.Request.Context(), "products:featured", func() ([]models.Product, error) {
		return services.ListFeaturedProducts(config.DB)
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Featured products retrieved successfully", products)
}

func GetProductsByCategory(c *gin.Context) {
	category := c.Param("category")
	products, err := cachedProducts(c.Request.Context(), "products:category:"+category, func() ([]models.Product, error) {
		return services.ListProductsByCategory(config.DB, category)
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Products retrieved successfully", products)
}

func SearchProducts(c *gin.Context) {
	q := strings.TrimSpace(c.Param("query"))
	utils.LogDebug("Product search: %q", q)
	products, err := services.SearchProducts(config.DB, q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Products retrieved successfully", products)
}

func GetProduct(c *gin.Context) {
	id := c.Param("id")
	product, err := cache.Remember(c.Request.Context(), CatalogCache, "product:"+id, func() (*models.Product, error) {
		return services.GetProduct(config.DB, id)
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Product retrieved successfully", product)
}

// CreateProduct adds a product to the catalog (admin)
func CreateProduct(c *gin.Context) {
	var req productRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	product, err := services.CreateProduct(config.DB, services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Featured:    req.Featured,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	invalidateCatalog(c.Request.Context())
	utils.LogInfo("Product created: %s (%s)", product.ID, product.Name)
	utils.Created(c, "Product created successfully", product)
}

// UpdateProduct changes the supplied fields of a product (admin)
func UpdateProduct(c *gin.Context) {
	var req productPatchRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	product, err := services.UpdateProduct(config.DB, c.Param("id"), services.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Featured:    req.Featured,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	invalidateCatalog(c.Request.Context())
	utils.LogInfo("Product updated: %s", product.ID)
	utils.Success(c, "Product updated successfully", product)
}

// DeleteProduct removes a product and everything that references it (admin)
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := services.DeleteProduct(config.DB, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	invalidateCatalog(c.Request.Context())
	utils.LogInfo("Product deleted: %s", id)
	utils.Success(c, "Product deleted successfully", nil)
}
