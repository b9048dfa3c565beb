package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func GetWishlist(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	items, err := services.ListWishlist(config.DB, sess.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Wishlist retrieved successfully", items)
}

// AddToWishlist answers 201 for a new entry and 200 when the product was
// already saved.
func AddToWishlist(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req wishlistRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	item, created, err := services.AddToWishlist(config.DB, sess.UserID, req.ProductID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !created {
		utils.Success(c, "Product already in wishlist", item)
		return
	}
	utils.Created(c, "Product added to wishlist", item)
}

func CheckWishlist(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	in, err := services.IsInWishlist(config.DB, sess.UserID, c.Param("productId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Wishlist status retrieved", gin.H{"inWishlist": in})
}

func RemoveWishlistItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := services.RemoveWishlistItem(config.DB, sess.UserID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Removed from wishlist", nil)
}

func RemoveWishlistProduct(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := services.RemoveWishlistProduct(config.DB, sess.UserID, c.Param("productId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Removed from wishlist", nil)
}
