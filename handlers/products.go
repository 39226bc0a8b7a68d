package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"

	"github.com/gin-gonic/gin"
)

// GetProducts lists the catalog with the caller's effective stock —
// drivers see their remaining day allocation, not the warehouse count.
func GetProducts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	query := config.DB.Model(&models.Product{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var products []models.Product
	query.Order("id asc").Find(&products)

	stock := stockFuncFor(role, userID)
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, gin.H{
			"id":              p.ID,
			"name":            p.Name,
			"category":        p.Category,
			"sku":             p.SKU,
			"supplier":        p.Supplier,
			"price":           p.Price,
			"stock":           p.Stock,
			"effective_stock": stock(p.ID),
			"image_url":       p.ImageURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "products": out})
}

type ProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	SKU      string  `json:"sku"`
	Supplier string  `json:"supplier"`
	Price    float64 `json:"price" binding:"min=0"`
	Stock    int     `json:"stock" binding:"min=0"`
	ImageURL string  `json:"image_url"`
}

// CreateProduct adds a catalog entry — admin/manager only
func CreateProduct(c *gin.Context) {
	if !models.CanManageProducts(middleware.GetRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role cannot manage products"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		ID:       nextProductID(),
		Name:     req.Name,
		Category: req.Category,
		SKU:      req.SKU,
		Supplier: req.Supplier,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct edits a catalog entry — admin/manager only
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Name = req.Name
	product.Category = req.Category
	product.SKU = req.SKU
	product.Supplier = req.Supplier
	product.Price = req.Price
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL

	if err := config.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct removes a catalog entry — admin/manager only
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err := config.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "product_id": product.ID})
}

func nextProductID() string {
	var ids []string
	config.DB.Model(&models.Product{}).Pluck("id", &ids)
	maxN := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "PRD")); err == nil && n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("PRD%03d", maxN+1)
}
