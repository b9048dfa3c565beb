package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type reviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required,max=2000"`
}

func GetProductReviews(c *gin.Context) {
	reviews, err := services.ListReviews(config.DB, c.Param("productId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Reviews retrieved successfully", reviews)
}

// GetProductRating returns the average rating, 0 with count 0 when unreviewed.
func GetProductRating(c *gin.Context) {
	summary, err := services.ProductRating(config.DB, c.Param("productId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Rating retrieved successfully", summary)
}

func CreateReview(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	review, err := services.CreateReview(config.DB, sess, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("User %s reviewed product %s (%d stars)", sess.UserID, req.ProductID, req.Rating)
	utils.Created(c, "Review added successfully", review)
}
