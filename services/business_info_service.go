package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const businessInfoNotFound = "Business info not found"

type BusinessInfoInput struct {
	Key         string  `json:"key" binding:"required,max=100"`
	Value       string  `json:"value" binding:"required"`
	Description *string `json:"description"`
}

type BusinessInfoUpdateInput struct {
	Value       string  `json:"value" binding:"required"`
	Description *string `json:"description"`
}

type BusinessInfoService struct {
	db *gorm.DB
}

func NewBusinessInfoService(db *gorm.DB) *BusinessInfoService {
	return &BusinessInfoService{db: db}
}

func (s *BusinessInfoService) repo() *repositories.BusinessInfoRepository {
	return repositories.NewBusinessInfoRepository(s.db)
}

func (s *BusinessInfoService) List(ctx context.Context) ([]models.BusinessInfo, error) {
	return s.repo().List(ctx)
}

func (s *BusinessInfoService) Get(ctx context.Context, key string) (*models.BusinessInfo, error) {
	entry, err := s.repo().FindByKey(ctx, key)
	if err != nil {
		return nil, translate(err, businessInfoNotFound, "")
	}
	return entry, nil
}

// Settings flattens every entry into a key to value map.
func (s *BusinessInfoService) Settings(ctx context.Context) (map[string]string, error) {
	entries, err := s.repo().List(ctx)
	if err != nil {
		return nil, err
	}
	settings := make(map[string]string, len(entries))
	for _, e := range entries {
		settings[e.Key] = e.Value
	}
	return settings, nil
}

func (s *BusinessInfoService) Create(ctx context.Context, input BusinessInfoInput) (*models.BusinessInfo, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(input.Key)
	entry := &models.BusinessInfo{Key: key, Value: input.Value, Description: input.Description}
	if err := s.repo().Create(ctx, entry); err != nil {
		return nil, translate(err, businessInfoNotFound, fmt.Sprintf("Business info with key '%s' already exists", key))
	}
	return entry, nil
}

func (s *BusinessInfoService) Update(ctx context.Context, key string, input BusinessInfoUpdateInput) (*models.BusinessInfo, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"value": input.Value}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if err := s.repo().Update(ctx, key, updates); err != nil {
		return nil, translate(err, businessInfoNotFound, "")
	}
	return s.Get(ctx, key)
}

// Upsert creates or overwrites the entry for key.
func (s *BusinessInfoService) Upsert(ctx context.Context, key string, input BusinessInfoUpdateInput) (*models.BusinessInfo, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, Validation("Key is required")
	}
	entry := &models.BusinessInfo{Key: key, Value: input.Value, Description: input.Description}
	if err := s.repo().Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return s.Get(ctx, key)
}

// Delete refuses the keys every install depends on.
func (s *BusinessInfoService) Delete(ctx context.Context, key string) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}
	if models.IsCriticalBusinessKey(key) {
		return Validation("Cannot delete critical business info")
	}
	if err := s.repo().Delete(ctx, key); err != nil {
		return translate(err, businessInfoNotFound, "")
	}
	log.Info().Str("key", key).Msg("Business info deleted")
	return nil
}
