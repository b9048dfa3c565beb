package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/reports"
	"github.com/nocturnelux/storefront/services"
	"github.com/nocturnelux/storefront/utils"
)

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber" binding:"max=100"`
}

// GetMyOrders lists the signed-in user's orders
func GetMyOrders(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orders, err := services.ListUserOrders(config.DB, sess.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Orders retrieved successfully", orders)
}

func GetMyOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	order, err := services.GetUserOrder(config.DB, sess.UserID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}

// DownloadInvoice streams the order invoice as a PDF attachment.
func DownloadInvoice(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	order, err := services.GetUserOrder(config.DB, sess.UserID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	pdf, err := reports.Invoice(order)
	if err != nil {
		utils.LogError("Failed to render invoice for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.Reference()))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// AdminListOrders pages through all orders, optionally filtered by ?status=.
func AdminListOrders(c *gin.Context) {
	page := utils.NewPagination(c)
	orders, err := services.ListOrders(config.DB, c.Query("status"), page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SendPaginatedResponse(c, "Orders retrieved successfully", orders, page)
}

func UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	order, err := services.UpdateOrderStatus(config.DB, c.Param("id"), req.Status, req.TrackingNumber)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order status updated", order)
}
