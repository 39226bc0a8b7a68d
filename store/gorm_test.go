package store_test

import (
	"testing"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Product{},
		&models.Customer{},
		&models.DriverAllocation{},
		&models.Collection{},
		&models.AuditLog{},
	))
	return db
}

func TestNextOrderID(t *testing.T) {
	st := store.NewGormStores(testDB(t))

	id, err := st.Orders.NextID()
	require.NoError(t, err)
	assert.Equal(t, "ORD001", id)

	require.NoError(t, st.Orders.Create(&models.Order{ID: id, CustomerID: "CUS001"}))
	require.NoError(t, st.Orders.Create(&models.Order{ID: "ORD002", CustomerID: "CUS001"}))

	// Deleting an order must not recycle its id
	require.NoError(t, st.Orders.Delete("ORD001"))
	id, err = st.Orders.NextID()
	require.NoError(t, err)
	assert.Equal(t, "ORD003", id)
}

func TestOrderRoundTrip(t *testing.T) {
	st := store.NewGormStores(testDB(t))

	o := models.Order{
		ID:         "ORD001",
		CustomerID: "CUS001",
		Status:     models.StatusPending,
		Items: models.ItemList{
			{ProductID: "P1", Quantity: 5, Price: 100, Discount: 10},
		},
		BackorderedItems: models.ItemList{
			{ProductID: "P2", Quantity: 3, Price: 40},
		},
		TotalAmount: 450,
	}
	require.NoError(t, st.Orders.Create(&o))

	got, err := st.Orders.Get("ORD001")
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, o.BackorderedItems, got.BackorderedItems)
	assert.Equal(t, models.StatusPending, got.Status)

	_, err = st.Orders.Get("ORD404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollectionUpsert(t *testing.T) {
	db := testDB(t)
	st := store.NewGormStores(db)

	upsert := func(amount float64) {
		require.NoError(t, st.Collections.Upsert(&models.Collection{
			OrderID:        "ORD001",
			CollectionType: models.CollectionCheque,
			CustomerID:     "CUS001",
			Amount:         amount,
			Status:         "pending",
		}))
	}

	upsert(300)
	upsert(300)
	upsert(450)

	var rows []models.Collection
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.InDelta(t, 450, rows[0].Amount, 1e-9)
}

func TestAllocationForDriverOn(t *testing.T) {
	db := testDB(t)
	st := store.NewGormStores(db)

	a := models.DriverAllocation{
		DriverID: 7,
		Date:     "2026-08-31",
		AllocatedItems: models.ItemList{
			{ProductID: "P1", Quantity: 20},
		},
	}
	require.NoError(t, st.Allocations.Save(&a))

	got, err := st.Allocations.ForDriverOn(7, "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Quantity("P1"))
	assert.Equal(t, 0, got.Quantity("P9"))

	missing, err := st.Allocations.ForDriverOn(7, "2026-09-01")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
