package handlers

import (
	"errors"
	"net/http"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/store"
	"github.com/lithursan/webapp/workflow"

	"github.com/gin-gonic/gin"
)

type SaveBalancesRequest struct {
	ChequeBalance float64 `json:"cheque_balance" binding:"min=0"`
	AmountPaid    float64 `json:"amount_paid" binding:"min=0"`
	// Confirmed acknowledges an over-allocated entry (cheque + credit
	// beyond the total); without it such a save is refused with 409.
	Confirmed bool `json:"confirmed"`
}

// SaveBalances persists cheque/credit balances for an order and upserts
// the pending collection records.
func SaveBalances(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	if !models.CanSaveBalances(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot edit balances"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !canAccessOrder(role, userID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order is not assigned to you"})
		return
	}

	var req SaveBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := balanceSaver().Save(order.ID, req.ChequeBalance, req.AmountPaid, req.Confirmed)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrConfirmationRequired):
			c.JSON(http.StatusConflict, gin.H{
				"error":                 err.Error(),
				"confirmation_required": true,
			})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Balances saved",
		"order_id":            saved.ID,
		"cheque_balance":      saved.ChequeBalance,
		"credit_balance":      saved.CreditBalance,
		"outstanding_balance": saved.OutstandingBalance(),
	})
}
