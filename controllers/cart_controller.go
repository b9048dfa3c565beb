package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1,max=99"`
	Size      string `json:"size" binding:"omitempty,size"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

func GetCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	cart, err := services.GetCart(config.DB, sess.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Cart retrieved successfully", cart)
}

// AddToCart adds a new line to the cart
func AddToCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := services.AddToCart(config.DB, sess.UserID, req.ProductID, quantity, req.Size)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("User %s added product %s x%d to cart", sess.UserID, req.ProductID, quantity)
	utils.Created(c, "Item added to cart", item)
}

func UpdateCartItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid quantity", utils.ValidationDetails(err))
		return
	}
	item, err := services.UpdateCartQuantity(config.DB, sess.UserID, c.Param("id"), req.Quantity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Cart updated", item)
}

func adjustCartItem(c *gin.Context, delta int) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	item, removed, err := services.AdjustCartQuantity(config.DB, sess.UserID, c.Param("id"), delta)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if removed {
		utils.Success(c, "Item removed from cart", gin.H{"removed": true, "item": item})
		return
	}
	utils.Success(c, "Cart updated", gin.H{"removed": false, "item": item})
}

func IncrementCartItem(c *gin.Context) { adjustCartItem(c, 1) }

// DecrementCartItem removes the line when its last unit is taken away.
func DecrementCartItem(c *gin.Context) { adjustCartItem(c, -1) }

func RemoveCartItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := services.RemoveCartItem(config.DB, sess.UserID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Item removed from cart", nil)
}

func ClearCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if err := services.ClearCart(config.DB, sess.UserID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Cart cleared", nil)
}
