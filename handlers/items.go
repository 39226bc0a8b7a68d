package handlers

import (
	"net/http"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"

	"github.com/gin-gonic/gin"
)

// HoldOrderItem moves an active line to the backordered list. Invalid
// transitions (unknown product, already held) are no-ops per the hold
// state machine, so the response always reflects the current state.
func HoldOrderItem(c *gin.Context) {
	transitionItem(c, func(d orderlogic.Draft, productID string, stock orderlogic.StockFunc) orderlogic.Draft {
		return d.Hold(productID)
	})
}

// UnholdOrderItem releases a backordered line back to the active list,
// allowed only while the product has effective stock.
func UnholdOrderItem(c *gin.Context) {
	transitionItem(c, func(d orderlogic.Draft, productID string, stock orderlogic.StockFunc) orderlogic.Draft {
		return d.Unhold(productID, stock)
	})
}

func transitionItem(c *gin.Context, transition func(orderlogic.Draft, string, orderlogic.StockFunc) orderlogic.Draft) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	if !models.CanEditOrder(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot edit orders"})
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

	productID := c.Param("productId")
	stock := stockFuncFor(role, userID)

	draft := orderlogic.DraftFromOrder(&order)
	draft = transition(draft, productID, stock)

	// The total always follows the current active list.
	order.Items = draft.ActiveItems()
	order.BackorderedItems = draft.HeldItems()
	order.TotalAmount = draft.Summary(stock).Total

	if err := config.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.ID,
		"product_id":   productID,
		"held":         draft.IsHeld(productID),
		"total_amount": order.TotalAmount,
		"order":        orderView(&order, stock),
	})
}
