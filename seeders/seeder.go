package seeders

import (
	"log"

	"github.com/lithursan/webapp/config"
	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"

	"golang.org/x/crypto/bcrypt"
)

// Seed loads demo users, products, customers and a driver allocation so
// a fresh database is usable immediately. Existing rows are kept.
func Seed() {
	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		return string(h)
	}

	users := []models.User{
		{Name: "Admin", Email: "admin@example.com", PasswordHash: hash("admin123"), Role: models.RoleAdmin},
		{Name: "Maya Manager", Email: "manager@example.com", PasswordHash: hash("manager123"), Role: models.RoleManager},
		{Name: "Sam Sales", Email: "sales@example.com", PasswordHash: hash("sales123"), Role: models.RoleSalesRep},
		{Name: "Dinesh Driver", Email: "driver@example.com", PasswordHash: hash("driver123"), Role: models.RoleDriver, Phone: "0771234567"},
	}
	for _, u := range users {
		config.DB.FirstOrCreate(&u, models.User{Email: u.Email})
	}

	products := []models.Product{
		{ID: "PRD001", Name: "Rice 5kg", Category: "Groceries", SKU: "GR-RICE-5", Supplier: "Lanka Mills", Price: 1850, Stock: 120},
		{ID: "PRD002", Name: "Wheat Flour 1kg", Category: "Groceries", SKU: "GR-FLOUR-1", Supplier: "Lanka Mills", Price: 320, Stock: 200},
		{ID: "PRD003", Name: "Sunflower Oil 1L", Category: "Groceries", SKU: "GR-OIL-1", Supplier: "Sunrise Traders", Price: 980, Stock: 80},
		{ID: "PRD004", Name: "Milk Powder 400g", Category: "Dairy", SKU: "DA-MILK-400", Supplier: "Highland Dairy", Price: 1150, Stock: 60},
		{ID: "PRD005", Name: "Sugar 1kg", Category: "Groceries", SKU: "GR-SUGAR-1", Supplier: "Sunrise Traders", Price: 290, Stock: 150},
		{ID: "PRD006", Name: "Tea 200g", Category: "Beverages", SKU: "BE-TEA-200", Supplier: "Hill Estates", Price: 640, Stock: 90},
	}
	for _, p := range products {
		config.DB.FirstOrCreate(&p, models.Product{ID: p.ID})
	}

	customers := []models.Customer{
		{ID: "CUS001", Name: "City Mart", Email: "orders@citymart.lk", Phone: "0112345678", Address: "12 Main St, Colombo",
			Discounts: models.DiscountMap{"PRD001": 5, "PRD005": 2}},
		{ID: "CUS002", Name: "Village Stores", Email: "hello@villagestores.lk", Phone: "0817654321", Address: "4 Temple Rd, Kandy"},
		{ID: "CUS003", Name: "Sunrise Grocery", Phone: "0912223344", Address: "88 Beach Rd, Galle",
			Discounts: models.DiscountMap{"PRD004": 10}},
	}
	for _, cu := range customers {
		config.DB.FirstOrCreate(&cu, models.Customer{ID: cu.ID})
	}

	// Give the demo driver a load for today
	var driver models.User
	if err := config.DB.Where("email = ?", "driver@example.com").First(&driver).Error; err == nil {
		alloc := models.DriverAllocation{
			DriverID: driver.ID,
			Date:     orderlogic.Today(),
			AllocatedItems: models.ItemList{
				{ProductID: "PRD001", Quantity: 20},
				{ProductID: "PRD002", Quantity: 40},
				{ProductID: "PRD005", Quantity: 30},
			},
		}
		config.DB.FirstOrCreate(&alloc, models.DriverAllocation{DriverID: driver.ID, Date: alloc.Date})
	}

	log.Println("Seeding complete: 4 users, 6 products, 3 customers, 1 driver allocation")
}
