package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/models"

	"github.com/gin-gonic/gin"
)

// GetCustomers lists customers with their derived aggregates
func GetCustomers(c *gin.Context) {
	query := config.DB.Model(&models.Customer{})
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	var customers []models.Customer
	query.Order("name asc").Find(&customers)
	c.JSON(http.StatusOK, gin.H{"count": len(customers), "customers": customers})
}

// GetCustomer returns a single customer with their order history
func GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var orders []models.Order
	config.DB.Where("customer_id = ?", customer.ID).Order("created_at desc").Find(&orders)

	c.JSON(http.StatusOK, gin.H{
		"customer":    customer,
		"order_count": len(orders),
		"orders":      orders,
	})
}

type CustomerRequest struct {
	Name      string             `json:"name" binding:"required"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	Discounts models.DiscountMap `json:"discounts"`
}

// CreateCustomer adds a customer — admin/manager only
func CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.Customer{
		ID:        nextCustomerID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Discounts: req.Discounts,
	}
	if err := config.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer created", "customer": customer})
}

// UpdateCustomer edits contact details and the discount schedule —
// admin/manager only. Aggregates stay derived and are not editable.
func UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Discounts = req.Discounts

	if err := config.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated", "customer": customer})
}

func nextCustomerID() string {
	var ids []string
	config.DB.Model(&models.Customer{}).Pluck("id", &ids)
	maxN := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "CUS")); err == nil && n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("CUS%03d", maxN+1)
}
