package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lithursan/webapp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// NewGormStores wires every repository onto one gorm connection.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Orders:      &gormOrders{db},
		Products:    &gormProducts{db},
		Customers:   &gormCustomers{db},
		Allocations: &gormAllocations{db},
		Collections: &gormCollections{db},
		Audit:       &gormAudit{db},
	}
}

type gormOrders struct{ db *gorm.DB }

func (s *gormOrders) Create(o *models.Order) error {
	return s.db.Create(o).Error
}

func (s *gormOrders) Update(o *models.Order) error {
	return s.db.Save(o).Error
}

func (s *gormOrders) Delete(id string) error {
	return s.db.Delete(&models.Order{}, "id = ?", id).Error
}

func (s *gormOrders) Get(id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.Preload("StatusHistory").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *gormOrders) List() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *gormOrders) ListByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("customer_id = ?", customerID).Find(&orders).Error
	return orders, err
}

// NextID scans existing ids for the highest numeric suffix rather than
// counting rows, since admins may delete orders and ids must not repeat.
func (s *gormOrders) NextID() (string, error) {
	var ids []string
	if err := s.db.Model(&models.Order{}).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	maxN := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "ORD")); err == nil && n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("ORD%03d", maxN+1), nil
}

type gormProducts struct{ db *gorm.DB }

func (s *gormProducts) Get(id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormProducts) List() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Order("id asc").Find(&products).Error
	return products, err
}

func (s *gormProducts) Save(p *models.Product) error {
	return s.db.Save(p).Error
}

func (s *gormProducts) UpdateStock(id string, stock int) error {
	return s.db.Model(&models.Product{}).Where("id = ?", id).Update("stock", stock).Error
}

type gormCustomers struct{ db *gorm.DB }

func (s *gormCustomers) Get(id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *gormCustomers) List() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.Order("name asc").Find(&customers).Error
	return customers, err
}

func (s *gormCustomers) UpdateAggregates(id string, totalSpent, outstanding float64) error {
	return s.db.Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_spent":         totalSpent,
		"outstanding_balance": outstanding,
	}).Error
}

type gormAllocations struct{ db *gorm.DB }

func (s *gormAllocations) ForDriverOn(driverID uint, date string) (*models.DriverAllocation, error) {
	var a models.DriverAllocation
	err := s.db.Where("driver_id = ? AND date = ?", driverID, date).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *gormAllocations) Save(a *models.DriverAllocation) error {
	return s.db.Save(a).Error
}

type gormCollections struct{ db *gorm.DB }

func (s *gormCollections) Upsert(c *models.Collection) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "collection_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "customer_id", "updated_at"}),
	}).Create(c).Error
}

type gormAudit struct{ db *gorm.DB }

func (s *gormAudit) Record(e *models.AuditLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return s.db.Create(e).Error
}
