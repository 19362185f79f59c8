package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const expenseNotFound = "Expense not found"

type ExpenseInput struct {
	Description   string               `json:"description" binding:"required"`
	Amount        decimal.Decimal      `json:"amount" binding:"gt=0"`
	Category      *string              `json:"category" binding:"omitempty,max=100"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer"`
	Quantity      *decimal.Decimal     `json:"quantity" binding:"omitempty,gt=0"`
	Unit          string               `json:"unit" binding:"omitempty,max=20"`
	UnitPrice     *decimal.Decimal     `json:"unit_price" binding:"omitempty,gte=0"`
	ExpenseDate   string               `json:"expense_date"`
}

type ExpenseUpdateInput struct {
	Description   *string              `json:"description" binding:"omitempty,min=1"`
	Amount        *decimal.Decimal     `json:"amount" binding:"omitempty,gt=0"`
	Category      *string              `json:"category" binding:"omitempty,max=100"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer"`
	Quantity      *decimal.Decimal     `json:"quantity" binding:"omitempty,gt=0"`
	Unit          *string              `json:"unit" binding:"omitempty,min=1,max=20"`
	UnitPrice     *decimal.Decimal     `json:"unit_price" binding:"omitempty,gte=0"`
	ExpenseDate   *string              `json:"expense_date"`
}

type ExpenseListInput struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Category  string `form:"category"`
	Search    string `form:"search"`
	Page      int    `form:"page" binding:"omitempty,gte=1"`
	Limit     int    `form:"limit" binding:"omitempty,gte=1"`
}

type ExpenseList struct {
	Expenses   []models.Expense `json:"expenses"`
	Pagination Page             `json:"pagination"`
}

type ExpenseGroup struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int64           `json:"count"`
}

type ExpenseStatistics struct {
	Period          *DateRange      `json:"period,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalCount      int64           `json:"total_count"`
	AverageAmount   decimal.Decimal `json:"average_amount"`
	ByCategory      []ExpenseGroup  `json:"by_category"`
	ByPaymentMethod []ExpenseGroup  `json:"by_payment_method"`
}

type ExpenseService struct {
	db    *gorm.DB
	clock Clock
}

func NewExpenseService(db *gorm.DB, clock Clock) *ExpenseService {
	return &ExpenseService{db: db, clock: clock}
}

func (s *ExpenseService) repo() *repositories.ExpenseRepository {
	return repositories.NewExpenseRepository(s.db)
}

// expenseDate keeps the time of day when a full timestamp is given and uses
// the start of the local day for a bare date.
func (s *ExpenseService) expenseDate(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	d, err := time.ParseInLocation(DateLayout, value, s.clock.location())
	if err != nil {
		return time.Time{}, Validation("Invalid expense date")
	}
	return d.UTC(), nil
}

func (s *ExpenseService) List(ctx context.Context, input ExpenseListInput) (*ExpenseList, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	rng, err := OptionalDateRange(DateRangeQuery{Start: input.StartDate, End: input.EndDate}, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	filter := repositories.ExpenseFilter{
		Range:      rng.timeRange(),
		Category:   input.Category,
		Search:     input.Search,
		Pagination: repositories.Pagination{Page: input.Page, Limit: input.Limit},
	}
	expenses, total, err := s.repo().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ExpenseList{Expenses: expenses, Pagination: newPage(filter.Pagination, total)}, nil
}

func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, expenseNotFound, "")
	}
	return expense, nil
}

func (s *ExpenseService) Create(ctx context.Context, input ExpenseInput, createdBy *uuid.UUID) (*models.Expense, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	expense := &models.Expense{
		Description:   strings.TrimSpace(input.Description),
		Amount:        models.RoundMoney(input.Amount),
		Category:      input.Category,
		PaymentMethod: input.PaymentMethod,
		Unit:          strings.ToUpper(strings.TrimSpace(input.Unit)),
		CreatedBy:     createdBy,
		ExpenseDate:   s.clock.stamp(),
	}
	if input.Quantity != nil {
		expense.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		expense.UnitPrice = decimal.NewNullDecimal(models.RoundMoney(*input.UnitPrice))
	}
	if input.ExpenseDate != "" {
		d, err := s.expenseDate(input.ExpenseDate)
		if err != nil {
			return nil, err
		}
		expense.ExpenseDate = d
	}
	if err := s.repo().Create(ctx, expense); err != nil {
		return nil, err
	}
	log.Info().
		Str("expense_id", expense.ID.String()).
		Str("amount", expense.Amount.StringFixed(2)).
		Str("category", expense.CategoryName()).
		Msg("Expense recorded")
	return expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, input ExpenseUpdateInput) (*models.Expense, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Amount != nil {
		updates["amount"] = models.RoundMoney(*input.Amount)
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.PaymentMethod != "" {
		updates["payment_method"] = input.PaymentMethod
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.Unit != nil {
		updates["unit"] = strings.ToUpper(strings.TrimSpace(*input.Unit))
	}
	if input.UnitPrice != nil {
		updates["unit_price"] = decimal.NewNullDecimal(models.RoundMoney(*input.UnitPrice))
	}
	if input.ExpenseDate != nil {
		d, err := s.expenseDate(*input.ExpenseDate)
		if err != nil {
			return nil, err
		}
		updates["expense_date"] = d
	}
	if len(updates) > 0 {
		if err := s.repo().Update(ctx, id, updates); err != nil {
			return nil, translate(err, expenseNotFound, "")
		}
	}
	return s.Get(ctx, id)
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.repo().Delete(ctx, id), expenseNotFound, "")
}

func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	return s.repo().Categories(ctx)
}

// Statistics totals expenses dated in the requested period, or all of them
// when no period is given.
func (s *ExpenseService) Statistics(ctx context.Context, q DateRangeQuery) (*ExpenseStatistics, error) {
	rng, err := OptionalDateRange(q, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo().FindInRange(ctx, rng.timeRange())
	if err != nil {
		return nil, err
	}

	total := sumExpenses(expenses)
	stats := &ExpenseStatistics{
		Period:        rng,
		TotalAmount:   total,
		TotalCount:    int64(len(expenses)),
		AverageAmount: average(total, int64(len(expenses))),
	}
	stats.ByCategory = groupExpenses(expenses, func(e models.Expense) string { return e.CategoryName() })
	stats.ByPaymentMethod = groupExpenses(expenses, func(e models.Expense) string { return string(e.PaymentMethod) })
	return stats, nil
}

// groupExpenses sums expenses per key, largest total first.
func groupExpenses(expenses []models.Expense, key func(models.Expense) string) []ExpenseGroup {
	index := make(map[string]int)
	groups := []ExpenseGroup{}
	for _, e := range expenses {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, ExpenseGroup{Name: k, TotalAmount: decimal.Zero})
		}
		groups[i].TotalAmount = groups[i].TotalAmount.Add(e.Amount)
		groups[i].Count++
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalAmount.GreaterThan(groups[j].TotalAmount)
	})
	return groups
}
