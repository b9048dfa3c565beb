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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetAnalytics returns the sales dashboard for the admin
func GetAnalytics(c *gin.Context) {
	analytics, err := services.ComputeAnalytics(config.DB, Now())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Analytics retrieved successfully", analytics)
}

// ExportAnalytics downloads the dashboard as an Excel workbook.
func ExportAnalytics(c *gin.Context) {
	now := Now()
	analytics, err := services.ComputeAnalytics(config.DB, now)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	data, err := reports.AnalyticsWorkbook(analytics)
	if err != nil {
		utils.LogError("Failed to build analytics workbook: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}
	filename := fmt.Sprintf("nocturnelux-analytics-%s.xlsx", now.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
