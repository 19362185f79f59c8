package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
)

// CustomerRepository provides access to customers and their saved addresses.
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func withAddresses(db *gorm.DB) *gorm.DB {
	return db.Preload("Addresses", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_default DESC, created_at ASC")
	})
}

func customerSearch(db *gorm.DB, search string) *gorm.DB {
	if strings.TrimSpace(search) == "" {
		return db
	}
	pattern := containsPattern(search)
	return db.Where(
		"LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(COALESCE(backup_phone, '')) LIKE ? OR LOWER(COALESCE(address, '')) LIKE ?",
		pattern, pattern, pattern, pattern)
}

// List returns a page of customers matching search, newest first.
func (r *CustomerRepository) List(ctx context.Context, search string, p Pagination) ([]models.Customer, int64, error) {
	page := p.Normalize()

	var total int64
	if err := customerSearch(r.db.WithContext(ctx).Model(&models.Customer{}), search).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "failed to count customers")
	}
	var customers []models.Customer
	err := customerSearch(r.db.WithContext(ctx), search).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&customers).Error
	return customers, total, wrap(err, "failed to list customers")
}

// Search matches name, phone, backup phone or address, ordered by name.
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := customerSearch(r.db.WithContext(ctx), query).
		Order("name ASC").
		Limit(limit).
		Find(&customers).Error
	return customers, wrap(err, "failed to search customers")
}

// SearchByPhone matches a partial primary or backup phone number.
func (r *CustomerRepository) SearchByPhone(ctx context.Context, partial string, limit int) ([]models.Customer, error) {
	pattern := "%" + strings.TrimSpace(partial) + "%"
	var customers []models.Customer
	err := withAddresses(r.db.WithContext(ctx)).
		Where("phone LIKE ? OR backup_phone LIKE ?", pattern, pattern).
		Order("total_orders DESC, name ASC").
		Limit(limit).
		Find(&customers).Error
	return customers, wrap(err, "failed to search customers by phone")
}

// FindByID loads a customer with addresses, default first.
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := withAddresses(r.db.WithContext(ctx)).First(&customer, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get customer")
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := withAddresses(r.db.WithContext(ctx)).First(&customer, "phone = ?", phone).Error; err != nil {
		return nil, wrap(err, "failed to get customer by phone")
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return wrap(r.db.WithContext(ctx).Create(customer).Error, "failed to create customer")
}

func (r *CustomerRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update customer")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update customer")
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("customer_id = ?", id).Delete(&models.CustomerAddress{}).Error; err != nil {
		return wrap(err, "failed to delete customer addresses")
	}
	result := db.Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete customer")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete customer")
	}
	return nil
}

// SetStats overwrites the derived totals.
func (r *CustomerRepository) SetStats(ctx context.Context, id uuid.UUID, totalOrders int64, totalSpent decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders": totalOrders,
			"total_spent":  totalSpent,
		}).Error
	return wrap(err, "failed to update customer stats")
}

// All returns every customer without addresses, by name.
func (r *CustomerRepository) All(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, wrap(err, "failed to load customers")
}

func (r *CustomerRepository) IDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Pluck("id", &ids).Error
	return ids, wrap(err, "failed to list customer ids")
}

// Addresses lists a customer's addresses, default first.
func (r *CustomerRepository) Addresses(ctx context.Context, customerID uuid.UUID) ([]models.CustomerAddress, error) {
	var addresses []models.CustomerAddress
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	return addresses, wrap(err, "failed to list customer addresses")
}

func (r *CustomerRepository) FindAddress(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error) {
	var address models.CustomerAddress
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get customer address")
	}
	return &address, nil
}

// FindAddressByText matches an address of the customer ignoring case and
// surrounding whitespace. excludeID skips the address being edited.
func (r *CustomerRepository) FindAddressByText(ctx context.Context, customerID uuid.UUID, address string, excludeID *uuid.UUID) (*models.CustomerAddress, error) {
	q := r.db.WithContext(ctx).
		Where("customer_id = ? AND LOWER(TRIM(address)) = ?", customerID, strings.ToLower(strings.TrimSpace(address)))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var found models.CustomerAddress
	if err := q.First(&found).Error; err != nil {
		return nil, wrap(err, "failed to find customer address")
	}
	return &found, nil
}

func (r *CustomerRepository) CreateAddress(ctx context.Context, address *models.CustomerAddress) error {
	return wrap(r.db.WithContext(ctx).Create(address).Error, "failed to create customer address")
}

func (r *CustomerRepository) UpdateAddress(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.CustomerAddress{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update customer address")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update customer address")
	}
	return nil
}

func (r *CustomerRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerAddress{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete customer address")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete customer address")
	}
	return nil
}

// ClearDefaultAddress unsets the default flag on every address of the customer.
func (r *CustomerRepository) ClearDefaultAddress(ctx context.Context, customerID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.CustomerAddress{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
	return wrap(err, "failed to clear default address")
}
