package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	customerNotFound    = "Customer not found"
	addressNotFound     = "Address not found"
	duplicatePhone      = "Customer with this phone number already exists"
	duplicateAddress    = "Address already exists for this customer"
	customerOrdersLimit = 10
	customerSearchLimit = 50
	phoneSearchLimit    = 10
)

type CustomerInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Phone       string  `json:"phone" binding:"required,max=20"`
	BackupPhone *string `json:"backup_phone" binding:"omitempty,max=20"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

type CustomerUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,min=1,max=20"`
	BackupPhone *string `json:"backup_phone" binding:"omitempty,max=20"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

type AddressInput struct {
	Address   string  `json:"address" binding:"required"`
	IsDefault bool    `json:"is_default"`
	Notes     *string `json:"notes"`
}

type AddressUpdateInput struct {
	Address   *string `json:"address" binding:"omitempty,min=1"`
	IsDefault *bool   `json:"is_default"`
	Notes     *string `json:"notes"`
}

// FindOrCreateInput carries the details used when the phone is unknown.
type FindOrCreateInput struct {
	Phone       string  `json:"phone" binding:"required"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	BackupPhone *string `json:"backup_phone"`
	Notes       *string `json:"notes"`
}

type CustomerList struct {
	Customers  []models.Customer `json:"customers"`
	Pagination Page              `json:"pagination"`
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) repo() *repositories.CustomerRepository {
	return repositories.NewCustomerRepository(s.db)
}

func (s *CustomerService) List(ctx context.Context, search string, p repositories.Pagination) (*CustomerList, error) {
	customers, total, err := s.repo().List(ctx, search, p)
	if err != nil {
		return nil, err
	}
	return &CustomerList{Customers: customers, Pagination: newPage(p, total)}, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, customerNotFound, "")
	}
	return customer, nil
}

func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	customer, err := s.repo().FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, translate(err, customerNotFound, "")
	}
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	customer := &models.Customer{
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		BackupPhone: input.BackupPhone,
		Address:     input.Address,
		Notes:       input.Notes,
	}
	if err := s.repo().Create(ctx, customer); err != nil {
		return nil, translate(err, customerNotFound, duplicatePhone)
	}
	log.Info().Str("customer_id", customer.ID.String()).Msg("Customer created")
	return s.Get(ctx, customer.ID)
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input CustomerUpdateInput) (*models.Customer, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.BackupPhone != nil {
		updates["backup_phone"] = *input.BackupPhone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) > 0 {
		if err := s.repo().Update(ctx, id, updates); err != nil {
			return nil, translate(err, customerNotFound, "Phone number already belongs to another customer")
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses customers that are referenced by any order.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := repositories.NewOrderRepository(s.db).CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return Validation("Cannot delete customer with existing orders")
	}
	return inTx(ctx, s.db, func(tx *gorm.DB) error {
		return translate(repositories.NewCustomerRepository(tx).Delete(ctx, id), customerNotFound, "")
	})
}

// Orders returns the customer's latest non-cancelled orders.
func (s *CustomerService) Orders(ctx context.Context, id uuid.UUID) ([]models.Order, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return repositories.NewOrderRepository(s.db).ListByCustomer(ctx, id, customerOrdersLimit)
}

func (s *CustomerService) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Customer{}, nil
	}
	return s.repo().Search(ctx, query, customerSearchLimit)
}

// SearchByPhone matches partial numbers; an empty query returns nothing.
func (s *CustomerService) SearchByPhone(ctx context.Context, partial string, limit int) ([]models.Customer, error) {
	if strings.TrimSpace(partial) == "" {
		return []models.Customer{}, nil
	}
	if limit <= 0 || limit > customerSearchLimit {
		limit = phoneSearchLimit
	}
	return s.repo().SearchByPhone(ctx, partial, limit)
}

// FindOrCreate returns the customer with phone, creating it with a default
// address when none exists.
func (s *CustomerService) FindOrCreate(ctx context.Context, input FindOrCreateInput) (*models.Customer, bool, error) {
	if err := validate(input); err != nil {
		return nil, false, err
	}
	phone := strings.TrimSpace(input.Phone)
	existing, err := s.repo().FindByPhone(ctx, phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, false, Validation("Customer name is required when creating a new customer")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, false, Validation("Address is required when creating a new customer")
	}

	customer := &models.Customer{
		Name:        strings.TrimSpace(input.Name),
		Phone:       phone,
		BackupPhone: input.BackupPhone,
		Address:     &address,
		Notes:       input.Notes,
	}
	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := repositories.NewCustomerRepository(tx)
		if err := repo.Create(ctx, customer); err != nil {
			return err
		}
		return repo.CreateAddress(ctx, &models.CustomerAddress{
			CustomerID: customer.ID,
			Address:    address,
			IsDefault:  true,
			Notes:      input.Notes,
		})
	})
	if err != nil {
		return nil, false, translate(err, customerNotFound, duplicatePhone)
	}
	log.Info().Str("customer_id", customer.ID.String()).Msg("Customer created from phone lookup")

	created, err := s.Get(ctx, customer.ID)
	return created, true, err
}

func (s *CustomerService) Addresses(ctx context.Context, customerID uuid.UUID) ([]models.CustomerAddress, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo().Addresses(ctx, customerID)
}

// CreateAddress rejects an address the customer already has, ignoring case
// and surrounding whitespace. A new default replaces the previous one.
func (s *CustomerService) CreateAddress(ctx context.Context, customerID uuid.UUID, input AddressInput) (*models.CustomerAddress, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}

	address := &models.CustomerAddress{
		CustomerID: customerID,
		Address:    strings.TrimSpace(input.Address),
		IsDefault:  input.IsDefault,
		Notes:      input.Notes,
	}
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := repositories.NewCustomerRepository(tx)
		if err := ensureUniqueAddress(ctx, repo, customerID, address.Address, nil); err != nil {
			return err
		}
		if address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, customerID); err != nil {
				return err
			}
		}
		return repo.CreateAddress(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func ensureUniqueAddress(ctx context.Context, repo *repositories.CustomerRepository, customerID uuid.UUID, address string, exclude *uuid.UUID) error {
	_, err := repo.FindAddressByText(ctx, customerID, address, exclude)
	switch {
	case err == nil:
		return Validation(duplicateAddress)
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	}
	return err
}

func (s *CustomerService) UpdateAddress(ctx context.Context, addressID uuid.UUID, input AddressUpdateInput) (*models.CustomerAddress, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	existing, err := s.repo().FindAddress(ctx, addressID)
	if err != nil {
		return nil, translate(err, addressNotFound, "")
	}

	updates := map[string]interface{}{}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.IsDefault != nil {
		updates["is_default"] = *input.IsDefault
	}
	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := repositories.NewCustomerRepository(tx)
		if input.Address != nil {
			text := strings.TrimSpace(*input.Address)
			if err := ensureUniqueAddress(ctx, repo, existing.CustomerID, text, &addressID); err != nil {
				return err
			}
			updates["address"] = text
		}
		if input.IsDefault != nil && *input.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, existing.CustomerID); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return repo.UpdateAddress(ctx, addressID, updates)
	})
	if err != nil {
		return nil, translate(err, addressNotFound, "")
	}
	return s.repo().FindAddress(ctx, addressID)
}

func (s *CustomerService) DeleteAddress(ctx context.Context, addressID uuid.UUID) error {
	return translate(s.repo().DeleteAddress(ctx, addressID), addressNotFound, "")
}
