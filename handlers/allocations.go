package handlers

import (
	"net/http"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"

	"github.com/gin-gonic/gin"
)

// GetMyAllocation returns the driver's allocation for today
func GetMyAllocation(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var alloc models.DriverAllocation
	err := config.DB.Where("driver_id = ? AND date = ?", driverID, orderlogic.Today()).First(&alloc).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"date":      orderlogic.Today(),
			"allocated": false,
			"message":   "No allocation loaded for today",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        alloc.Date,
		"allocated":   true,
		"items":       alloc.AllocatedItems,
		"sales_total": alloc.SalesTotal,
	})
}

type AllocationRequest struct {
	DriverID uint   `json:"driver_id" binding:"required"`
	Date     string `json:"date"` // defaults to today
	Items    []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
}

// UpsertAllocation creates or replaces a driver's day load — the running
// sales total survives a reload. Admin/manager only.
func UpsertAllocation(c *gin.Context) {
	if !models.CanManageAllocations(middleware.GetRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot manage allocations"})
		return
	}

	var req AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.User
	if err := config.DB.First(&driver, req.DriverID).Error; err != nil || driver.Role != models.RoleDriver {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver_id does not refer to a driver"})
		return
	}

	date := req.Date
	if date == "" {
		date = orderlogic.Today()
	}

	items := models.ItemList{}
	for _, it := range req.Items {
		items = append(items, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	var alloc models.DriverAllocation
	err := config.DB.Where("driver_id = ? AND date = ?", req.DriverID, date).First(&alloc).Error
	if err != nil {
		alloc = models.DriverAllocation{DriverID: req.DriverID, Date: date, AllocatedItems: items}
		if err := config.DB.Create(&alloc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create allocation"})
			return
		}
	} else {
		alloc.AllocatedItems = items
		if err := config.DB.Save(&alloc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update allocation"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Allocation saved", "allocation": alloc})
}
