package orderlogic

import (
	"sort"

	"github.com/lithursan/webapp/models"
)

// Draft is the order-editing state as one immutable value: every
// transition returns a new Draft and leaves the receiver untouched, so a
// cancelled edit never leaks half-applied field changes.
//
// A line is either active or held. Held lines keep their quantity, price
// and discount but contribute nothing to the total until released.
type Draft struct {
	lines map[string]line
	held  map[string]bool
}

type line struct {
	qty      int
	price    float64
	discount float64
}

// Summary is the aggregate view of a draft's lines.
type Summary struct {
	Total        float64
	InStockCount int
	HeldCount    int
}

// NewDraft returns an empty draft.
func NewDraft() Draft {
	return Draft{lines: map[string]line{}, held: map[string]bool{}}
}

// DraftFromOrder rebuilds the editing state from a persisted order. The
// stored item lists are trusted as-is; the active/backordered partition
// becomes the active/held partition.
func DraftFromOrder(o *models.Order) Draft {
	d := NewDraft()
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			continue
		}
		d.lines[it.ProductID] = line{qty: it.Quantity, price: clampPrice(it.Price), discount: clampDiscount(it.Discount)}
	}
	for _, it := range o.BackorderedItems {
		if it.Quantity <= 0 {
			continue
		}
		d.lines[it.ProductID] = line{qty: it.Quantity, price: clampPrice(it.Price), discount: clampDiscount(it.Discount)}
		d.held[it.ProductID] = true
	}
	return d
}

func (d Draft) clone() Draft {
	nd := Draft{lines: make(map[string]line, len(d.lines)), held: make(map[string]bool, len(d.held))}
	for k, v := range d.lines {
		nd.lines[k] = v
	}
	for k, v := range d.held {
		nd.held[k] = v
	}
	return nd
}

// WithLine enters or replaces a whole line. Quantity is clamped to the
// effective stock unless the line is held (holding past current stock is
// the point of a backorder). A resulting quantity of 0 removes the line.
func (d Draft) WithLine(item models.OrderItem, held bool, stock StockFunc) Draft {
	nd := d.clone()
	qty := item.Quantity
	if qty < 0 {
		qty = 0
	}
	if !held {
		if max := stock(item.ProductID); qty > max {
			qty = max
		}
	}
	if qty <= 0 {
		delete(nd.lines, item.ProductID)
		delete(nd.held, item.ProductID)
		return nd
	}
	nd.lines[item.ProductID] = line{qty: qty, price: clampPrice(item.Price), discount: clampDiscount(item.Discount)}
	if held {
		nd.held[item.ProductID] = true
	} else {
		delete(nd.held, item.ProductID)
	}
	return nd
}

// SetQuantity adjusts one line's quantity, clamped to [0, effective
// stock] for active lines and [0, ∞) for held ones. Quantity 0 removes
// the line entirely so no empty line items persist.
func (d Draft) SetQuantity(productID string, qty int, stock StockFunc) Draft {
	ln, ok := d.lines[productID]
	if !ok {
		return d
	}
	nd := d.clone()
	if qty < 0 {
		qty = 0
	}
	if !nd.held[productID] {
		if max := stock(productID); qty > max {
			qty = max
		}
	}
	if qty <= 0 {
		delete(nd.lines, productID)
		delete(nd.held, productID)
		return nd
	}
	ln.qty = qty
	nd.lines[productID] = ln
	return nd
}

// SetPrice overrides a line's unit price, clamped to ≥ 0.
func (d Draft) SetPrice(productID string, price float64) Draft {
	ln, ok := d.lines[productID]
	if !ok {
		return d
	}
	nd := d.clone()
	ln.price = clampPrice(price)
	nd.lines[productID] = ln
	return nd
}

// SetDiscount overrides a line's discount percent, clamped to [0,100].
func (d Draft) SetDiscount(productID string, pct float64) Draft {
	ln, ok := d.lines[productID]
	if !ok {
		return d
	}
	nd := d.clone()
	ln.discount = clampDiscount(pct)
	nd.lines[productID] = ln
	return nd
}

// Hold moves an active line to the held set. Holding a missing or
// already-held line is a no-op.
func (d Draft) Hold(productID string) Draft {
	if _, ok := d.lines[productID]; !ok || d.held[productID] {
		return d
	}
	nd := d.clone()
	nd.held[productID] = true
	return nd
}

// Unhold releases a held line back to the active set, but only while the
// product has effective stock; releasing an out-of-stock or non-held
// line is a no-op.
func (d Draft) Unhold(productID string, stock StockFunc) Draft {
	if !d.held[productID] {
		return d
	}
	if stock(productID) <= 0 {
		return d
	}
	nd := d.clone()
	delete(nd.held, productID)
	return nd
}

// IsHeld reports whether a line sits in the held set.
func (d Draft) IsHeld(productID string) bool {
	return d.held[productID]
}

// Summary folds the lines into totals. A line counts as held when it is
// in the held set or its effective stock is exactly 0; held lines add
// their quantity to HeldCount only and contribute no money.
func (d Draft) Summary(stock StockFunc) Summary {
	var s Summary
	for id, ln := range d.lines {
		if ln.qty <= 0 {
			continue
		}
		if d.held[id] || stock(id) == 0 {
			s.HeldCount += ln.qty
			continue
		}
		s.Total += ln.price * float64(ln.qty) * (1 - ln.discount/100)
		s.InStockCount += ln.qty
	}
	return s
}

// ActiveItems returns the active partition, sorted by product id.
func (d Draft) ActiveItems() models.ItemList {
	return d.items(false)
}

// HeldItems returns the held partition, sorted by product id.
func (d Draft) HeldItems() models.ItemList {
	return d.items(true)
}

func (d Draft) items(held bool) models.ItemList {
	out := models.ItemList{}
	for id, ln := range d.lines {
		if ln.qty <= 0 || d.held[id] != held {
			continue
		}
		out = append(out, models.OrderItem{ProductID: id, Quantity: ln.qty, Price: ln.price, Discount: ln.discount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func clampPrice(p float64) float64 {
	if p < 0 {
		return 0
	}
	return p
}

func clampDiscount(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
