package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	RecommendationInfo     = "info"
	RecommendationWarning  = "warning"
	RecommendationCritical = "critical"
)

var (
	minHealthyMargin       = decimal.NewFromInt(20)
	maxExpenseShare        = decimal.NewFromFloat(0.7)
	maxUnprofitableShare   = decimal.NewFromFloat(0.3)
	heavyCategoryThreshold = decimal.NewFromFloat(0.1)
)

type AmountCount struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

type DayExpense struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

type FinancialSummary struct {
	Period  DateRange `json:"period"`
	Revenue struct {
		Total           decimal.Decimal `json:"total"`
		ByPaymentMethod struct {
			Cash           decimal.Decimal `json:"cash"`
			BankTransfer   decimal.Decimal `json:"bank_transfer"`
			CashPercentage decimal.Decimal `json:"cash_percentage"`
			BankPercentage decimal.Decimal `json:"bank_percentage"`
		} `json:"by_payment_method"`
		ByOrderType struct {
			DineIn   decimal.Decimal `json:"dine_in"`
			Delivery decimal.Decimal `json:"delivery"`
		} `json:"by_order_type"`
	} `json:"revenue"`
	Expenses struct {
		Total         decimal.Decimal         `json:"total"`
		Categories    map[string]*AmountCount `json:"categories"`
		Daily         []DayExpense            `json:"daily"`
		AveragePerDay decimal.Decimal         `json:"average_per_day"`
	} `json:"expenses"`
	Profit struct {
		Net                   decimal.Decimal `json:"net"`
		Margin                decimal.Decimal `json:"margin"`
		ExpenseToRevenueRatio decimal.Decimal `json:"expense_to_revenue_ratio"`
	} `json:"profit"`
	KeyMetrics struct {
		Orders            int64           `json:"orders"`
		AverageOrderValue decimal.Decimal `json:"average_order_value"`
		Expenses          int64           `json:"expenses"`
		AverageExpense    decimal.Decimal `json:"average_expense"`
	} `json:"key_metrics"`
}

func sumExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return models.RoundMoney(total)
}

// buildFinancialSummary combines revenue from orders with expenses dated in
// the same period.
func buildFinancialSummary(rng DateRange, orders []models.Order, expenses []models.Expense) *FinancialSummary {
	fs := &FinancialSummary{Period: rng}

	revenue := sumTotals(orders)
	cash := sumTotals(filterOrders(orders, byMethod(models.PaymentMethodCash)))
	bank := sumTotals(filterOrders(orders, byMethod(models.PaymentMethodBankTransfer)))
	fs.Revenue.Total = revenue
	fs.Revenue.ByPaymentMethod.Cash = cash
	fs.Revenue.ByPaymentMethod.BankTransfer = bank
	fs.Revenue.ByPaymentMethod.CashPercentage = percent(cash, revenue)
	fs.Revenue.ByPaymentMethod.BankPercentage = percent(bank, revenue)
	fs.Revenue.ByOrderType.DineIn = sumTotals(filterOrders(orders, byType(models.OrderTypeDineIn)))
	fs.Revenue.ByOrderType.Delivery = sumTotals(filterOrders(orders, byType(models.OrderTypeDelivery)))

	spent := sumExpenses(expenses)
	fs.Expenses.Total = spent
	fs.Expenses.Categories = make(map[string]*AmountCount)
	daily := make(map[string]*DayExpense)
	loc := rng.Start.Location()
	for _, e := range expenses {
		cat, ok := fs.Expenses.Categories[e.CategoryName()]
		if !ok {
			cat = &AmountCount{Amount: decimal.Zero}
			fs.Expenses.Categories[e.CategoryName()] = cat
		}
		cat.Amount = cat.Amount.Add(e.Amount)
		cat.Count++

		day := e.ExpenseDate.In(loc).Format(DateLayout)
		d, ok := daily[day]
		if !ok {
			d = &DayExpense{Date: day, Amount: decimal.Zero}
			daily[day] = d
		}
		d.Amount = d.Amount.Add(e.Amount)
		d.Count++
	}
	fs.Expenses.Daily = make([]DayExpense, 0, len(daily))
	for _, d := range daily {
		fs.Expenses.Daily = append(fs.Expenses.Daily, *d)
	}
	sort.Slice(fs.Expenses.Daily, func(i, j int) bool {
		return fs.Expenses.Daily[i].Date < fs.Expenses.Daily[j].Date
	})
	fs.Expenses.AveragePerDay = average(spent, int64(len(rng.Days())))

	net := revenue.Sub(spent)
	fs.Profit.Net = net
	fs.Profit.Margin = percent(net, revenue)
	if !revenue.IsZero() {
		fs.Profit.ExpenseToRevenueRatio = spent.Div(revenue).Round(4)
	}

	fs.KeyMetrics.Orders = int64(len(orders))
	fs.KeyMetrics.AverageOrderValue = average(revenue, int64(len(orders)))
	fs.KeyMetrics.Expenses = int64(len(expenses))
	fs.KeyMetrics.AverageExpense = average(spent, int64(len(expenses)))
	return fs
}

func (s *ReportService) loadFinancials(ctx context.Context, rng DateRange) ([]models.Order, []models.Expense, error) {
	orders, err := s.load(ctx, rng, repositories.OrderQuery{})
	if err != nil {
		return nil, nil, err
	}
	expenses, err := repositories.NewExpenseRepository(s.db).FindInRange(ctx, rng.TimeRange())
	if err != nil {
		return nil, nil, err
	}
	return orders, expenses, nil
}

func (s *ReportService) FinancialSummary(ctx context.Context, q DateRangeQuery) (*FinancialSummary, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, expenses, err := s.loadFinancials(ctx, rng)
	if err != nil {
		return nil, err
	}
	return buildFinancialSummary(rng, orders, expenses), nil
}

type DailyProfit struct {
	Date      string          `json:"date"`
	DayOfWeek string          `json:"day_of_week"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
	Orders    int64           `json:"orders"`
}

type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

type ProfitLossReport struct {
	*FinancialSummary
	DailyBreakdown []DailyProfit `json:"daily_breakdown"`
	Trends         struct {
		AverageDailyProfit decimal.Decimal `json:"average_daily_profit"`
		ProfitableDays     int             `json:"profitable_days"`
		ProfitabilityRate  decimal.Decimal `json:"profitability_rate"`
		BestDay            *DailyProfit    `json:"best_day"`
		WorstDay           *DailyProfit    `json:"worst_day"`
	} `json:"trends"`
	Recommendations []Recommendation `json:"recommendations"`
}

func dailyProfits(rng DateRange, orders []models.Order, expenses []models.Expense) []DailyProfit {
	stats := dailyStats(rng, orders)
	index := make(map[string]int, len(stats))
	days := make([]DailyProfit, len(stats))
	for i, st := range stats {
		index[st.Date] = i
		days[i] = DailyProfit{
			Date:      st.Date,
			DayOfWeek: st.DayOfWeek,
			Revenue:   st.Revenue,
			Expenses:  decimal.Zero,
			Orders:    st.Orders,
		}
	}
	loc := rng.Start.Location()
	for _, e := range expenses {
		if i, ok := index[e.ExpenseDate.In(loc).Format(DateLayout)]; ok {
			days[i].Expenses = days[i].Expenses.Add(e.Amount)
		}
	}
	for i := range days {
		days[i].Profit = days[i].Revenue.Sub(days[i].Expenses)
		days[i].Margin = percent(days[i].Profit, days[i].Revenue)
	}
	return days
}

// profitRecommendations flags a thin margin, heavy expenses, frequent losing
// days and any expense category above a tenth of revenue.
func profitRecommendations(fs *FinancialSummary, days []DailyProfit) []Recommendation {
	recs := []Recommendation{}
	revenue := fs.Revenue.Total

	if fs.Profit.Margin.LessThan(minHealthyMargin) {
		recs = append(recs, Recommendation{
			Type:    RecommendationWarning,
			Message: "Profit margin is below 20%. Consider reducing costs or increasing prices.",
			Action:  "Review expense categories and menu pricing.",
		})
	}
	if fs.Expenses.Total.GreaterThan(revenue.Mul(maxExpenseShare)) {
		recs = append(recs, Recommendation{
			Type:    RecommendationCritical,
			Message: "Expenses are consuming more than 70% of revenue.",
			Action:  "Implement cost-cutting measures immediately.",
		})
	}

	losing := 0
	for _, d := range days {
		if d.Profit.IsNegative() {
			losing++
		}
	}
	if decimal.NewFromInt(int64(losing)).GreaterThan(decimal.NewFromInt(int64(len(days))).Mul(maxUnprofitableShare)) {
		recs = append(recs, Recommendation{
			Type:    RecommendationWarning,
			Message: fmt.Sprintf("More than 30%% of days are unprofitable (%d out of %d days).", losing, len(days)),
			Action:  "Analyze patterns in unprofitable days.",
		})
	}

	var heavy []string
	for name, cat := range fs.Expenses.Categories {
		if cat.Amount.GreaterThan(revenue.Mul(heavyCategoryThreshold)) {
			heavy = append(heavy, name)
		}
	}
	if len(heavy) > 0 {
		sort.Strings(heavy)
		recs = append(recs, Recommendation{
			Type:    RecommendationInfo,
			Message: "High expense categories: " + strings.Join(heavy, ", "),
			Action:  "Review spending in these categories.",
		})
	}
	return recs
}

func (s *ReportService) ProfitLoss(ctx context.Context, q DateRangeQuery) (*ProfitLossReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, expenses, err := s.loadFinancials(ctx, rng)
	if err != nil {
		return nil, err
	}

	fs := buildFinancialSummary(rng, orders, expenses)
	days := dailyProfits(rng, orders, expenses)
	report := &ProfitLossReport{FinancialSummary: fs, DailyBreakdown: days}

	profit := decimal.Zero
	for i := range days {
		profit = profit.Add(days[i].Profit)
		if days[i].Profit.IsPositive() {
			report.Trends.ProfitableDays++
		}
		if report.Trends.BestDay == nil || days[i].Profit.GreaterThan(report.Trends.BestDay.Profit) {
			report.Trends.BestDay = &days[i]
		}
		if report.Trends.WorstDay == nil || days[i].Profit.LessThan(report.Trends.WorstDay.Profit) {
			report.Trends.WorstDay = &days[i]
		}
	}
	report.Trends.AverageDailyProfit = average(profit, int64(len(days)))
	report.Trends.ProfitabilityRate = percent(decimal.NewFromInt(int64(report.Trends.ProfitableDays)), decimal.NewFromInt(int64(len(days))))
	report.Recommendations = profitRecommendations(fs, days)
	return report, nil
}
