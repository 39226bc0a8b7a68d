package workflow_test

import (
	"fmt"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/store"
)

// In-memory fakes for the repository interfaces. Get returns copies so
// a workflow mutation only sticks once Update is called, mirroring a
// real round trip.

type fakeOrders struct {
	orders    map[string]models.Order
	updateErr error
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]models.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(o *models.Order) error {
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) Update(o *models.Order) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) Delete(id string) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) Get(id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (f *fakeOrders) List() ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) ListByCustomer(customerID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) NextID() (string, error) {
	return fmt.Sprintf("ORD%03d", len(f.orders)+1), nil
}

type fakeProducts struct {
	products map[string]models.Product
	stockErr error
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Get(id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProducts) List() ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Save(p *models.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) UpdateStock(id string, stock int) error {
	if f.stockErr != nil {
		return f.stockErr
	}
	p := f.products[id]
	p.Stock = stock
	f.products[id] = p
	return nil
}

type fakeCustomers struct {
	customers  map[string]models.Customer
	updateErr  error
	aggregates map[string][2]float64 // id → {totalSpent, outstanding}
}

func newFakeCustomers(customers ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{customers: map[string]models.Customer{}, aggregates: map[string][2]float64{}}
	for _, c := range customers {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) Get(id string) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (f *fakeCustomers) List() ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomers) UpdateAggregates(id string, totalSpent, outstanding float64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.aggregates[id] = [2]float64{totalSpent, outstanding}
	return nil
}

type fakeAllocations struct {
	alloc   *models.DriverAllocation
	saveErr error
	saved   int
}

func (f *fakeAllocations) ForDriverOn(driverID uint, date string) (*models.DriverAllocation, error) {
	if f.alloc == nil || f.alloc.DriverID != driverID || f.alloc.Date != date {
		return nil, nil
	}
	cp := *f.alloc
	return &cp, nil
}

func (f *fakeAllocations) Save(a *models.DriverAllocation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *a
	f.alloc = &cp
	f.saved++
	return nil
}

type fakeCollections struct {
	upserts map[string]models.Collection // keyed by orderID/type
	calls   int
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{upserts: map[string]models.Collection{}}
}

func (f *fakeCollections) Upsert(c *models.Collection) error {
	f.calls++
	f.upserts[c.OrderID+"/"+c.CollectionType] = *c
	return nil
}

type fakeAudit struct {
	entries []models.AuditLog
}

func (f *fakeAudit) Record(e *models.AuditLog) error {
	f.entries = append(f.entries, *e)
	return nil
}

type env struct {
	orders      *fakeOrders
	products    *fakeProducts
	customers   *fakeCustomers
	allocations *fakeAllocations
	collections *fakeCollections
	audit       *fakeAudit
}

func newEnv() *env {
	return &env{
		orders:      newFakeOrders(),
		products:    newFakeProducts(),
		customers:   newFakeCustomers(),
		allocations: &fakeAllocations{},
		collections: newFakeCollections(),
		audit:       &fakeAudit{},
	}
}

func (e *env) stores() store.Stores {
	return store.Stores{
		Orders:      e.orders,
		Products:    e.products,
		Customers:   e.customers,
		Allocations: e.allocations,
		Collections: e.collections,
		Audit:       e.audit,
	}
}
