package handlers

import (
	"net/http"
	"time"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"

	"github.com/gin-gonic/gin"
)

// GetInvoice returns the printable invoice view model for an order. The
// rendering and print dialog belong to the frontend; this is the data.
func GetInvoice(c *gin.Context) {
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

	var customer models.Customer
	config.DB.First(&customer, "id = ?", order.CustomerID)

	lines := make([]gin.H, 0, len(order.Items))
	var subtotal float64
	for _, it := range order.Items {
		var p models.Product
		name, sku := it.ProductID, ""
		if err := config.DB.First(&p, "id = ?", it.ProductID).Error; err == nil {
			name, sku = p.Name, p.SKU
		}
		lineTotal := it.Price * float64(it.Quantity) * (1 - it.Discount/100)
		subtotal += lineTotal
		lines = append(lines, gin.H{
			"product_id": it.ProductID,
			"name":       name,
			"sku":        sku,
			"quantity":   it.Quantity,
			"unit_price": it.Price,
			"discount":   it.Discount,
			"line_total": lineTotal,
		})
	}

	backordered := make([]gin.H, 0, len(order.BackorderedItems))
	for _, it := range order.BackorderedItems {
		var p models.Product
		name := it.ProductID
		if err := config.DB.First(&p, "id = ?", it.ProductID).Error; err == nil {
			name = p.Name
		}
		backordered = append(backordered, gin.H{
			"product_id": it.ProductID,
			"name":       name,
			"quantity":   it.Quantity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice_number": "INV-" + order.ID,
		"issued_at":      time.Now(),
		"order_id":       order.ID,
		"order_date":     order.OrderDate,
		"status":         order.Status,
		"payment_method": order.PaymentMethod,
		"customer": gin.H{
			"id":      customer.ID,
			"name":    customer.Name,
			"email":   customer.Email,
			"phone":   customer.Phone,
			"address": customer.Address,
		},
		"lines":               lines,
		"backordered":         backordered,
		"subtotal":            subtotal,
		"total":               order.TotalAmount,
		"cheque_balance":      order.ChequeBalance,
		"credit_balance":      order.CreditBalance,
		"outstanding_balance": order.OutstandingBalance(),
		"notes":               order.Notes,
	})
}
