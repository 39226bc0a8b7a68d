package routes

import (
	"github.com/lithursan/webapp/handlers"
	"github.com/lithursan/webapp/middleware"
	"github.com/lithursan/webapp/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// State machine info (docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)

		// Catalog, visible to every role with role-resolved stock
		auth.GET("/products", handlers.GetProducts)

		// Customers
		auth.GET("/customers", handlers.GetCustomers)
		auth.GET("/customers/:id", handlers.GetCustomer)

		// Orders: list/detail filtering happens per role in the handler
		auth.GET("/orders", handlers.GetOrders)
		auth.POST("/orders", handlers.CreateOrder)
		auth.GET("/orders/:id", handlers.GetOrder)
		auth.PUT("/orders/:id", handlers.UpdateOrder)
		auth.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		auth.PUT("/orders/:id/items/:productId/hold", handlers.HoldOrderItem)
		auth.PUT("/orders/:id/items/:productId/unhold", handlers.UnholdOrderItem)
		auth.PUT("/orders/:id/balances", handlers.SaveBalances)
		auth.PUT("/orders/:id/deliver", handlers.MarkDelivered)
		auth.GET("/orders/:id/invoice", handlers.GetInvoice)
	}

	// ── Manager/admin routes ───────────────────────────────────────
	manage := r.Group("/api")
	manage.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin, models.RoleManager))
	{
		manage.DELETE("/orders/:id", handlers.DeleteOrder)

		manage.POST("/products", handlers.CreateProduct)
		manage.PUT("/products/:id", handlers.UpdateProduct)
		manage.DELETE("/products/:id", handlers.DeleteProduct)

		manage.POST("/customers", handlers.CreateCustomer)
		manage.PUT("/customers/:id", handlers.UpdateCustomer)

		manage.PUT("/allocations", handlers.UpsertAllocation)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/allocation", handlers.GetMyAllocation)
	}
}
