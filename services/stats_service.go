package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pos-backend/repositories"
)

// ReconcileResult counts what a reconciliation pass touched.
type ReconcileResult struct {
	Customers int `json:"customers"`
	Riders    int `json:"riders"`
	Failed    int `json:"failed"`
}

// StatsService keeps the derived customer and rider totals in line with orders.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// recomputeCustomerStats overwrites total_orders and total_spent from the
// customer's non-cancelled delivery orders.
func recomputeCustomerStats(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	totals, err := repositories.NewOrderRepository(tx).CustomerTotals(ctx, customerID)
	if err != nil {
		return err
	}
	return repositories.NewCustomerRepository(tx).SetStats(ctx, customerID, totals.Count, totals.TotalAmount)
}

// recomputeRiderStats overwrites total_deliveries and total_cash_collected.
func recomputeRiderStats(ctx context.Context, tx *gorm.DB, riderID uuid.UUID) error {
	deliveries, cash, err := repositories.NewOrderRepository(tx).RiderTotals(ctx, riderID)
	if err != nil {
		return err
	}
	return repositories.NewRiderRepository(tx).SetStats(ctx, riderID, deliveries, cash)
}

func (s *StatsService) RecomputeCustomer(ctx context.Context, customerID uuid.UUID) error {
	return recomputeCustomerStats(ctx, s.db, customerID)
}

func (s *StatsService) RecomputeRider(ctx context.Context, riderID uuid.UUID) error {
	return recomputeRiderStats(ctx, s.db, riderID)
}

// ReconcileAll recomputes every customer and rider. Individual failures are
// logged and skipped; only listing failures abort the pass.
func (s *StatsService) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	customerIDs, err := repositories.NewCustomerRepository(s.db).IDs(ctx)
	if err != nil {
		return result, err
	}
	for _, id := range customerIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err := s.RecomputeCustomer(ctx, id); err != nil {
			log.Warn().Err(err).Str("customer_id", id.String()).Msg("Failed to reconcile customer stats")
			result.Failed++
			continue
		}
		result.Customers++
	}

	riderIDs, err := repositories.NewRiderRepository(s.db).IDs(ctx)
	if err != nil {
		return result, err
	}
	for _, id := range riderIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err := s.RecomputeRider(ctx, id); err != nil {
			log.Warn().Err(err).Str("rider_id", id.String()).Msg("Failed to reconcile rider stats")
			result.Failed++
			continue
		}
		result.Riders++
	}

	log.Info().
		Int("customers", result.Customers).
		Int("riders", result.Riders).
		Int("failed", result.Failed).
		Msg("Stats reconciled")
	return result, nil
}
