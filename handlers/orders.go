package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/notify"
	"github.com/lithursan/webapp/orderlogic"
	"github.com/lithursan/webapp/store"
	"github.com/lithursan/webapp/workflow"

	"github.com/gin-gonic/gin"
)

// Notifier is set from main once the environment is loaded.
var Notifier notify.Notifier

func stores() store.Stores {
	return store.NewGormStores(config.DB)
}

func finalizer() *workflow.Finalizer {
	return &workflow.Finalizer{Stores: stores()}
}

func balanceSaver() *workflow.BalanceSaver {
	return &workflow.BalanceSaver{Stores: stores()}
}

// stockFuncFor builds a fresh effective-stock lookup for the caller.
// Looked up per request, never cached: stock and allocations move
// underneath the session.
func stockFuncFor(role models.UserRole, userID uint) orderlogic.StockFunc {
	var products []models.Product
	config.DB.Find(&products)
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var allocations []models.DriverAllocation
	if role == models.RoleDriver {
		config.DB.Where("driver_id = ? AND date = ?", userID, orderlogic.Today()).Find(&allocations)
	}

	return func(productID string) int {
		p, ok := byID[productID]
		if !ok {
			return 0
		}
		return orderlogic.EffectiveStock(role, userID, p, allocations)
	}
}

// canAccessOrder: sales reps and drivers see only orders assigned to them.
func canAccessOrder(role models.UserRole, userID uint, o *models.Order) bool {
	if models.CanViewAllOrders(role) {
		return true
	}
	return o.AssignedUserID == userID
}

type OrderLineRequest struct {
	ProductID string   `json:"product_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	Price     *float64 `json:"price"`
	Discount  *float64 `json:"discount"`
	Held      bool     `json:"held"`
}

type CreateOrderRequest struct {
	CustomerID       string             `json:"customer_id" binding:"required"`
	ExpectedDelivery string             `json:"expected_delivery_date"`
	PaymentMethod    string             `json:"payment_method"`
	Notes            string             `json:"notes"`
	AssignedUserID   *uint              `json:"assigned_user_id"`
	Items            []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// buildDraft folds request lines into a clamped draft. Prices fall back
// to the catalog, discounts to the customer's schedule.
func buildDraft(items []OrderLineRequest, customer *models.Customer, stock orderlogic.StockFunc) (orderlogic.Draft, string) {
	d := orderlogic.NewDraft()
	for _, it := range items {
		var p models.Product
		if err := config.DB.First(&p, "id = ?", it.ProductID).Error; err != nil {
			return d, "Product not found: " + it.ProductID
		}
		price := p.Price
		if it.Price != nil {
			price = *it.Price
		}
		discount := customer.Discounts[p.ID]
		if it.Discount != nil {
			discount = *it.Discount
		}
		d = d.WithLine(models.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     price,
			Discount:  discount,
		}, it.Held, stock)
	}
	return d, ""
}

// CreateOrder opens a new pending order for a customer
func CreateOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	if !models.CanCreateOrder(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot create orders"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
		return
	}

	stock := stockFuncFor(role, userID)
	draft, problem := buildDraft(req.Items, &customer, stock)
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	active := draft.ActiveItems()
	held := draft.HeldItems()
	if len(active)+len(held) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order needs at least one line item with available quantity"})
		return
	}

	id, err := stores().Orders.NextID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate order id"})
		return
	}

	assigned := userID
	if req.AssignedUserID != nil && models.CanViewAllOrders(role) {
		assigned = *req.AssignedUserID
	}

	order := models.Order{
		ID:               id,
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		AssignedUserID:   assigned,
		Status:           models.StatusPending,
		Items:            active,
		BackorderedItems: held,
		PaymentMethod:    req.PaymentMethod,
		Notes:            req.Notes,
		OrderDate:        time.Now(),
		ExpectedDelivery: req.ExpectedDelivery,
		TotalAmount:      draft.Summary(stock).Total,
	}

	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: userID,
		Note:      "Order created",
	}
	config.DB.Create(&history)

	// Fire-and-forget: a failed notification never blocks the order.
	if Notifier != nil {
		var actor models.User
		config.DB.First(&actor, userID)
		go func(actor models.User, order models.Order, name string) {
			if err := Notifier.SendNewOrderNotification(actor, order, name); err != nil {
				log.Printf("new-order notification failed for %s: %v", order.ID, err)
			}
		}(actor, order, customer.Name)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   orderView(&order, stock),
	})
}

type UpdateOrderRequest struct {
	ExpectedDelivery *string            `json:"expected_delivery_date"`
	PaymentMethod    *string            `json:"payment_method"`
	Notes            *string            `json:"notes"`
	Items            []OrderLineRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateOrder replaces an order's editable fields. When items are sent
// the full line set is rebuilt through the clamped draft and the total
// recomputed; balances are edited through their own endpoint.
func UpdateOrder(c *gin.Context) {
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

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ExpectedDelivery != nil {
		order.ExpectedDelivery = *req.ExpectedDelivery
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	stock := stockFuncFor(role, userID)
	if req.Items != nil {
		var customer models.Customer
		if err := config.DB.First(&customer, "id = ?", order.CustomerID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Customer record missing for order"})
			return
		}
		draft, problem := buildDraft(req.Items, &customer, stock)
		if problem != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": problem})
			return
		}
		order.Items = draft.ActiveItems()
		order.BackorderedItems = draft.HeldItems()
		order.TotalAmount = draft.Summary(stock).Total
	}

	if err := config.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated",
		"order":   orderView(&order, stock),
	})
}

// GetOrders returns the orders visible to the caller with a status summary
func GetOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	query := config.DB.Model(&models.Order{})
	if !models.CanViewAllOrders(role) {
		query = query.Where("assigned_user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)

	// Dashboard summary: counts by status plus delivered revenue
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.TotalAmount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// GetOrder returns a single order's derived view model
func GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var order models.Order
	if err := config.DB.Preload("StatusHistory").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !canAccessOrder(role, userID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order is not assigned to you"})
		return
	}

	stock := stockFuncFor(role, userID)
	c.JSON(http.StatusOK, gin.H{"order": orderView(&order, stock)})
}

// DeleteOrder removes an order — explicit admin/manager action only
func DeleteOrder(c *gin.Context) {
	role := middleware.GetRole(c)
	if !models.CanDeleteOrder(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and managers can delete orders"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := config.DB.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": order.ID})
}

// orderView resolves line items against the catalog for the rendering
// layer: names, images, line totals, and the computed outstanding balance.
func orderView(o *models.Order, stock orderlogic.StockFunc) gin.H {
	resolve := func(items models.ItemList, held bool) []gin.H {
		out := make([]gin.H, 0, len(items))
		for _, it := range items {
			var p models.Product
			name, image := it.ProductID, ""
			if err := config.DB.First(&p, "id = ?", it.ProductID).Error; err == nil {
				name, image = p.Name, p.ImageURL
			}
			lineTotal := 0.0
			if !held {
				lineTotal = it.Price * float64(it.Quantity) * (1 - it.Discount/100)
			}
			out = append(out, gin.H{
				"product_id":      it.ProductID,
				"name":            name,
				"image_url":       image,
				"quantity":        it.Quantity,
				"price":           it.Price,
				"discount":        it.Discount,
				"line_total":      lineTotal,
				"held":            held,
				"effective_stock": stock(it.ProductID),
			})
		}
		return out
	}

	return gin.H{
		"id":                     o.ID,
		"customer_id":            o.CustomerID,
		"customer_name":          o.CustomerName,
		"assigned_user_id":       o.AssignedUserID,
		"status":                 o.Status,
		"items":                  resolve(o.Items, false),
		"backordered_items":      resolve(o.BackorderedItems, true),
		"payment_method":         o.PaymentMethod,
		"notes":                  o.Notes,
		"order_date":             o.OrderDate,
		"expected_delivery_date": o.ExpectedDelivery,
		"total_amount":           o.TotalAmount,
		"cheque_balance":         o.ChequeBalance,
		"credit_balance":         o.CreditBalance,
		"outstanding_balance":    o.OutstandingBalance(),
		"sold":                   o.Sold,
		"status_history":         o.StatusHistory,
	}
}
