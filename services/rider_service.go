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

const riderNotFound = "Rider not found"

type RiderInput struct {
	Name   string             `json:"name" binding:"required,max=100"`
	Phone  string             `json:"phone" binding:"required,max=20"`
	CNIC   *string            `json:"cnic" binding:"omitempty,max=20"`
	Status models.RiderStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

type RiderUpdateInput struct {
	Name   *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Phone  *string            `json:"phone" binding:"omitempty,min=1,max=20"`
	CNIC   *string            `json:"cnic" binding:"omitempty,max=20"`
	Status models.RiderStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

type RiderListInput struct {
	Search string             `form:"search"`
	Status models.RiderStatus `form:"status" binding:"omitempty,oneof=active inactive"`
	Page   int                `form:"page" binding:"omitempty,gte=1"`
	Limit  int                `form:"limit" binding:"omitempty,gte=1"`
}

type RiderList struct {
	Riders     []models.Rider `json:"riders"`
	Pagination Page           `json:"pagination"`
}

type RiderOrderList struct {
	Orders     []models.Order `json:"orders"`
	Pagination Page           `json:"pagination"`
}

type RiderService struct {
	db *gorm.DB
}

func NewRiderService(db *gorm.DB) *RiderService {
	return &RiderService{db: db}
}

func (s *RiderService) repo() *repositories.RiderRepository {
	return repositories.NewRiderRepository(s.db)
}

func (s *RiderService) List(ctx context.Context, input RiderListInput) (*RiderList, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	filter := repositories.RiderFilter{
		Search:     input.Search,
		Status:     input.Status,
		Pagination: repositories.Pagination{Page: input.Page, Limit: input.Limit},
	}
	riders, total, err := s.repo().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &RiderList{Riders: riders, Pagination: newPage(filter.Pagination, total)}, nil
}

func (s *RiderService) Active(ctx context.Context) ([]models.Rider, error) {
	return s.repo().Active(ctx)
}

func (s *RiderService) Get(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	rider, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, riderNotFound, "")
	}
	return rider, nil
}

func (s *RiderService) GetByPhone(ctx context.Context, phone string) (*models.Rider, error) {
	rider, err := s.repo().FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, translate(err, riderNotFound, "")
	}
	return rider, nil
}

// checkUnique reports which of phone or CNIC already belongs to another rider.
func (s *RiderService) checkUnique(ctx context.Context, self *uuid.UUID, phone, cnic *string) error {
	taken := func(r *models.Rider, err error) (bool, error) {
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return self == nil || r.ID != *self, nil
	}
	if phone != nil {
		dup, err := taken(s.repo().FindByPhone(ctx, *phone))
		if err != nil {
			return err
		}
		if dup {
			return Conflict("Rider with this phone number already exists")
		}
	}
	if cnic != nil && *cnic != "" {
		dup, err := taken(s.repo().FindByCNIC(ctx, *cnic))
		if err != nil {
			return err
		}
		if dup {
			return Conflict("Rider with this CNIC already exists")
		}
	}
	return nil
}

func (s *RiderService) Create(ctx context.Context, input RiderInput) (*models.Rider, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(input.Phone)
	if err := s.checkUnique(ctx, nil, &phone, input.CNIC); err != nil {
		return nil, err
	}
	rider := &models.Rider{
		Name:   strings.TrimSpace(input.Name),
		Phone:  phone,
		CNIC:   input.CNIC,
		Status: input.Status,
	}
	if err := s.repo().Create(ctx, rider); err != nil {
		return nil, translate(err, riderNotFound, "Rider already exists")
	}
	log.Info().Str("rider_id", rider.ID.String()).Msg("Rider created")
	return rider, nil
}

func (s *RiderService) Update(ctx context.Context, id uuid.UUID, input RiderUpdateInput) (*models.Rider, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	var phone *string
	if input.Phone != nil {
		trimmed := strings.TrimSpace(*input.Phone)
		phone = &trimmed
	}
	if err := s.checkUnique(ctx, &id, phone, input.CNIC); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if input.CNIC != nil {
		updates["cnic"] = *input.CNIC
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if len(updates) > 0 {
		if err := s.repo().Update(ctx, id, updates); err != nil {
			return nil, translate(err, riderNotFound, "Rider already exists")
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses riders that have ever been assigned an order.
func (s *RiderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := repositories.NewOrderRepository(s.db).CountByRider(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return Validation("Cannot delete rider with assigned orders")
	}
	return translate(s.repo().Delete(ctx, id), riderNotFound, "")
}

func (s *RiderService) ToggleStatus(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	rider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := models.RiderStatusActive
	if rider.Status == models.RiderStatusActive {
		next = models.RiderStatusInactive
	}
	if err := s.repo().Update(ctx, id, map[string]interface{}{"status": next}); err != nil {
		return nil, translate(err, riderNotFound, "")
	}
	log.Info().Str("rider_id", id.String()).Str("status", string(next)).Msg("Rider status toggled")
	rider.Status = next
	return rider, nil
}

// Orders pages through a rider's orders, optionally by delivery status.
func (s *RiderService) Orders(ctx context.Context, id uuid.UUID, status models.DeliveryStatus, p repositories.Pagination) (*RiderOrderList, error) {
	if status != "" && !status.Valid() {
		return nil, Validation("Invalid delivery status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	orders, total, err := repositories.NewOrderRepository(s.db).ListByRider(ctx, id, status, p)
	if err != nil {
		return nil, err
	}
	return &RiderOrderList{Orders: orders, Pagination: newPage(p, total)}, nil
}
