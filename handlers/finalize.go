package handlers

import (
	"errors"
	"net/http"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/statemachine"
	"github.com/lithursan/webapp/store"
	"github.com/lithursan/webapp/workflow"

	"github.com/gin-gonic/gin"
)

// MarkDelivered runs the finalize workflow: stock validation, inventory
// deduction, allocation and customer aggregate updates. Follow-up write
// failures come back as warnings on a 200; the delivery itself stands.
func MarkDelivered(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	if !models.CanMarkDelivered(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot mark orders delivered"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if role == models.RoleDriver && order.AssignedUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order is not assigned to you"})
		return
	}
	prevStatus := order.Status

	var actor models.User
	if err := config.DB.First(&actor, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load acting user"})
		return
	}

	result, err := finalizer().Finalize(actor, order.ID)
	if err != nil {
		var stockErr *workflow.InsufficientStockError
		var partial *workflow.PartialFailureWarning
		switch {
		case errors.Is(err, workflow.ErrEmptyOrder):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot finalize an order with no active line items"})
			return
		case errors.As(err, &stockErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			})
			return
		case errors.As(err, &partial):
			// Delivery committed; tell the caller which records to check.
			recordDeliveryHistory(result.Order, prevStatus, userID)
			c.JSON(http.StatusOK, gin.H{
				"message":  "Order delivered, but some records may be inconsistent — please verify manually",
				"order_id": result.Order.ID,
				"status":   result.Order.Status,
				"warnings": partial.Failures,
			})
			return
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	recordDeliveryHistory(result.Order, prevStatus, userID)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order delivered successfully",
		"order_id": result.Order.ID,
		"status":   result.Order.Status,
		"sold":     result.Order.Sold,
	})
}

func recordDeliveryHistory(o *models.Order, prev models.OrderStatus, userID uint) {
	if prev == models.StatusDelivered {
		return
	}
	config.DB.Create(&models.OrderStatusHistory{
		OrderID:    o.ID,
		FromStatus: prev,
		ToStatus:   models.StatusDelivered,
		ChangedBy:  userID,
		Note:       "Order finalized and delivered",
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus handles manual status transitions (ship, cancel).
// Delivery is excluded here; it must go through MarkDelivered.
func UpdateOrderStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var order models.Order
	if err := config.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !canAccessOrder(role, userID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order is not assigned to you"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, role); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  userID,
		Note:       req.Note,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(req.Status),
	})
}

// GetStateMachineInfo documents the manual status transition table
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"states":      []models.OrderStatus{models.StatusPending, models.StatusShipped, models.StatusDelivered, models.StatusCancelled},
		"transitions": statemachine.GetAllTransitions(),
		"note":        "Delivered is reached only through the finalize endpoint",
	})
}
