package orderlogic_test

import (
	"testing"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockOf(m map[string]int) orderlogic.StockFunc {
	return func(id string) int { return m[id] }
}

func TestDraftSummary(t *testing.T) {
	t.Parallel()

	t.Run("single discounted line", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 100, Discount: 10}, false, stock)

		s := d.Summary(stock)
		assert.InDelta(t, 450, s.Total, 1e-9)
		assert.Equal(t, 5, s.InStockCount)
		assert.Equal(t, 0, s.HeldCount)
	})

	t.Run("held line contributes no money", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 100, Discount: 10}, false, stock).
			Hold("P1")

		s := d.Summary(stock)
		assert.InDelta(t, 0, s.Total, 1e-9)
		assert.Equal(t, 0, s.InStockCount)
		assert.Equal(t, 5, s.HeldCount)
	})

	t.Run("zero-stock line counts as held", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10, "P2": 5})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 2, Price: 50}, false, stock).
			WithLine(models.OrderItem{ProductID: "P2", Quantity: 3, Price: 80}, false, stock)

		// P2 sells out between edits
		depleted := stockOf(map[string]int{"P1": 10, "P2": 0})
		s := d.Summary(depleted)
		assert.InDelta(t, 100, s.Total, 1e-9)
		assert.Equal(t, 2, s.InStockCount)
		assert.Equal(t, 3, s.HeldCount)
	})

	t.Run("multiple lines accumulate", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10, "P2": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 2, Price: 100, Discount: 50}, false, stock).
			WithLine(models.OrderItem{ProductID: "P2", Quantity: 1, Price: 30}, false, stock)

		s := d.Summary(stock)
		assert.InDelta(t, 130, s.Total, 1e-9)
		assert.Equal(t, 3, s.InStockCount)
	})
}

func TestDraftClamping(t *testing.T) {
	t.Parallel()

	t.Run("active quantity clamped to effective stock", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 4})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 9, Price: 10}, false, stock)

		items := d.ActiveItems()
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity)
	})

	t.Run("held quantity may exceed stock", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 4})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 9, Price: 10}, true, stock)

		held := d.HeldItems()
		require.Len(t, held, 1)
		assert.Equal(t, 9, held[0].Quantity)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 10}, false, stock).
			SetQuantity("P1", 0, stock)

		assert.Empty(t, d.ActiveItems())
		assert.Empty(t, d.HeldItems())
	})

	t.Run("negative quantity removes the line", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: -3, Price: 10}, false, stock)

		assert.Empty(t, d.ActiveItems())
	})

	t.Run("price and discount clamped", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 1, Price: -5, Discount: 150}, false, stock)

		items := d.ActiveItems()
		require.Len(t, items, 1)
		assert.Equal(t, 0.0, items[0].Price)
		assert.Equal(t, 100.0, items[0].Discount)
	})
}

func TestHoldUnhold(t *testing.T) {
	t.Parallel()

	t.Run("round trip restores line and total", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 100, Discount: 10}, false, stock)
		before := d.Summary(stock)

		d = d.Hold("P1")
		assert.True(t, d.IsHeld("P1"))
		assert.InDelta(t, 0, d.Summary(stock).Total, 1e-9)

		d = d.Unhold("P1", stock)
		assert.False(t, d.IsHeld("P1"))

		after := d.Summary(stock)
		assert.InDelta(t, before.Total, after.Total, 1e-9)

		items := d.ActiveItems()
		require.Len(t, items, 1)
		assert.Equal(t, models.OrderItem{ProductID: "P1", Quantity: 5, Price: 100, Discount: 10}, items[0])
	})

	t.Run("hold of unknown line is a no-op", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 1, Price: 10}, false, stock)
		assert.Equal(t, d, d.Hold("P9"))
	})

	t.Run("unhold of active line is a no-op", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 1, Price: 10}, false, stock)
		assert.Equal(t, d, d.Unhold("P1", stock))
	})

	t.Run("unhold blocked while out of stock", func(t *testing.T) {
		t.Parallel()
		inStock := stockOf(map[string]int{"P1": 10})
		outOfStock := stockOf(map[string]int{"P1": 0})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 10}, false, inStock).
			Hold("P1")

		d2 := d.Unhold("P1", outOfStock)
		assert.True(t, d2.IsHeld("P1"))

		d3 := d.Unhold("P1", inStock)
		assert.False(t, d3.IsHeld("P1"))
	})

	t.Run("transitions leave the receiver untouched", func(t *testing.T) {
		t.Parallel()
		stock := stockOf(map[string]int{"P1": 10})
		d := orderlogic.NewDraft().
			WithLine(models.OrderItem{ProductID: "P1", Quantity: 5, Price: 10}, false, stock)

		_ = d.Hold("P1")
		assert.False(t, d.IsHeld("P1"))

		_ = d.SetQuantity("P1", 2, stock)
		require.Len(t, d.ActiveItems(), 1)
		assert.Equal(t, 5, d.ActiveItems()[0].Quantity)
	})
}

func TestDraftFromOrder(t *testing.T) {
	t.Parallel()

	o := &models.Order{
		Items: models.ItemList{
			{ProductID: "P1", Quantity: 2, Price: 100, Discount: 5},
		},
		BackorderedItems: models.ItemList{
			{ProductID: "P2", Quantity: 7, Price: 40},
		},
	}
	d := orderlogic.DraftFromOrder(o)
	stock := stockOf(map[string]int{"P1": 10, "P2": 10})

	assert.Equal(t, o.Items, d.ActiveItems())
	assert.Equal(t, o.BackorderedItems, d.HeldItems())

	s := d.Summary(stock)
	assert.InDelta(t, 190, s.Total, 1e-9)
	assert.Equal(t, 2, s.InStockCount)
	assert.Equal(t, 7, s.HeldCount)
}
