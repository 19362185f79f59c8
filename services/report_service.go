package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	defaultReportLimit = 10
	maxReportLimit     = 100

	IntervalHourly  = "hourly"
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

var hundred = decimal.NewFromInt(100)

// ReportService aggregates orders, expenses, customers and riders into
// read-only reports. All day and hour boundaries use the clock's location.
type ReportService struct {
	db    *gorm.DB
	clock Clock
}

func NewReportService(db *gorm.DB, clock Clock) *ReportService {
	return &ReportService{db: db, clock: clock}
}

func (s *ReportService) orders() *repositories.OrderRepository {
	return repositories.NewOrderRepository(s.db)
}

func (s *ReportService) resolve(q DateRangeQuery) (DateRange, error) {
	return ResolveDateRange(q, s.clock.now(), s.clock.location())
}

func (s *ReportService) load(ctx context.Context, rng DateRange, q repositories.OrderQuery) ([]models.Order, error) {
	q.Range = rng.TimeRange()
	return s.orders().FindForReport(ctx, q)
}

func reportLimit(limit int) int {
	if limit <= 0 {
		return defaultReportLimit
	}
	if limit > maxReportLimit {
		return maxReportLimit
	}
	return limit
}

func sumTotals(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return models.RoundMoney(total)
}

func itemCount(orders []models.Order) int64 {
	var n int64
	for _, o := range orders {
		for _, item := range o.Items {
			n += int64(item.Quantity)
		}
	}
	return n
}

// average divides and rounds to two places; zero when n is zero.
func average(total decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(n)).Round(2)
}

// percent is part as a percentage of whole, zero when whole is zero.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

func filterOrders(orders []models.Order, keep func(*models.Order) bool) []models.Order {
	var out []models.Order
	for i := range orders {
		if keep(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

// CountRevenue pairs an order count with the revenue behind it.
type CountRevenue struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

func countRevenue(orders []models.Order) CountRevenue {
	return CountRevenue{Count: int64(len(orders)), Revenue: sumTotals(orders)}
}

func byType(t models.OrderType) func(*models.Order) bool {
	return func(o *models.Order) bool { return o.OrderType == t }
}

func byMethod(m models.PaymentMethod) func(*models.Order) bool {
	return func(o *models.Order) bool { return o.PaymentMethod == m }
}

type SalesSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
	TotalItems        int64           `json:"total_items"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type TypeBreakdown struct {
	DineIn   CountRevenue `json:"dine_in"`
	Delivery CountRevenue `json:"delivery"`
}

type MethodBreakdown struct {
	Cash         CountRevenue `json:"cash"`
	BankTransfer CountRevenue `json:"bank_transfer"`
}

type DailySalesReport struct {
	Date      string       `json:"date"`
	Summary   SalesSummary `json:"summary"`
	Breakdown struct {
		ByOrderType     TypeBreakdown   `json:"by_order_type"`
		ByPaymentMethod MethodBreakdown `json:"by_payment_method"`
	} `json:"breakdown"`
	Orders []models.Order `json:"orders"`
}

// DailySales reports one local day, today when date is empty.
func (s *ReportService) DailySales(ctx context.Context, date string) (*DailySalesReport, error) {
	day := s.clock.now()
	if date != "" {
		d, err := ParseDay(date, s.clock.location())
		if err != nil {
			return nil, err
		}
		day = d
	}
	rng := DayRange(day, s.clock.location())

	orders, err := s.load(ctx, rng, repositories.OrderQuery{WithItems: true})
	if err != nil {
		return nil, err
	}

	total := sumTotals(orders)
	report := &DailySalesReport{
		Date: rng.Start.Format(DateLayout),
		Summary: SalesSummary{
			TotalRevenue:      total,
			TotalOrders:       int64(len(orders)),
			TotalItems:        itemCount(orders),
			AverageOrderValue: average(total, int64(len(orders))),
		},
	}
	report.Breakdown.ByOrderType = TypeBreakdown{
		DineIn:   countRevenue(filterOrders(orders, byType(models.OrderTypeDineIn))),
		Delivery: countRevenue(filterOrders(orders, byType(models.OrderTypeDelivery))),
	}
	report.Breakdown.ByPaymentMethod = MethodBreakdown{
		Cash:         countRevenue(filterOrders(orders, byMethod(models.PaymentMethodCash))),
		BankTransfer: countRevenue(filterOrders(orders, byMethod(models.PaymentMethodBankTransfer))),
	}

	// newest first
	report.Orders = make([]models.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		report.Orders = append(report.Orders, orders[i])
	}
	return report, nil
}

type DayStat struct {
	Date      string          `json:"date"`
	DayOfWeek string          `json:"day_of_week"`
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// dailyStats returns one entry per day of rng, including empty days.
func dailyStats(rng DateRange, orders []models.Order) []DayStat {
	index := make(map[string]int)
	stats := make([]DayStat, 0)
	for _, day := range rng.Days() {
		key := day.Format(DateLayout)
		index[key] = len(stats)
		stats = append(stats, DayStat{Date: key, DayOfWeek: day.Weekday().String(), Revenue: decimal.Zero})
	}
	loc := rng.Start.Location()
	for _, o := range orders {
		i, ok := index[o.CreatedAt.In(loc).Format(DateLayout)]
		if !ok {
			continue
		}
		stats[i].Orders++
		stats[i].Revenue = stats[i].Revenue.Add(o.TotalAmount)
	}
	return stats
}

// ItemRevenue is a menu item's sold quantity and revenue.
type ItemRevenue struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type MonthlySalesReport struct {
	Period  string `json:"period"`
	Summary struct {
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
		TotalOrders       int64           `json:"total_orders"`
		AverageOrderValue decimal.Decimal `json:"average_order_value"`
		DailyAverage      decimal.Decimal `json:"daily_average"`
	} `json:"summary"`
	DailyStats []DayStat     `json:"daily_stats"`
	TopItems   []ItemRevenue `json:"top_items"`
}

// MonthlySales defaults to the current year and month when either is zero.
func (s *ReportService) MonthlySales(ctx context.Context, year, month int) (*MonthlySalesReport, error) {
	now := s.clock.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, Validation("Invalid month")
	}

	loc := s.clock.location()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	rng := DateRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1), loc)}

	orders, err := s.load(ctx, rng, repositories.OrderQuery{WithItems: true})
	if err != nil {
		return nil, err
	}

	report := &MonthlySalesReport{Period: start.Format("2006-01")}
	report.DailyStats = dailyStats(rng, orders)
	total := sumTotals(orders)
	report.Summary.TotalRevenue = total
	report.Summary.TotalOrders = int64(len(orders))
	report.Summary.AverageOrderValue = average(total, int64(len(orders)))
	report.Summary.DailyAverage = average(total, int64(len(report.DailyStats)))

	items := aggregateItems(orders)
	report.TopItems = make([]ItemRevenue, 0, defaultReportLimit)
	for i, item := range items {
		if i == defaultReportLimit {
			break
		}
		report.TopItems = append(report.TopItems, ItemRevenue{
			ID: item.ID, Name: item.Name, Quantity: item.Quantity, Revenue: item.Revenue,
		})
	}
	return report, nil
}

type MonthStat struct {
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type YearlySalesReport struct {
	Year    int `json:"year"`
	Summary struct {
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
		TotalOrders       int64           `json:"total_orders"`
		AverageOrderValue decimal.Decimal `json:"average_order_value"`
		MonthlyAverage    decimal.Decimal `json:"monthly_average"`
	} `json:"summary"`
	MonthlyStats []MonthStat `json:"monthly_stats"`
}

func (s *ReportService) YearlySales(ctx context.Context, year int) (*YearlySalesReport, error) {
	if year == 0 {
		year = s.clock.now().Year()
	}
	if year < 1 {
		return nil, Validation("Invalid year")
	}
	loc := s.clock.location()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	rng := DateRange{Start: start, End: endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, loc), loc)}

	orders, err := s.load(ctx, rng, repositories.OrderQuery{})
	if err != nil {
		return nil, err
	}

	report := &YearlySalesReport{Year: year, MonthlyStats: make([]MonthStat, 12)}
	for i := range report.MonthlyStats {
		m := time.Month(i + 1)
		report.MonthlyStats[i] = MonthStat{Month: i + 1, MonthName: m.String()[:3], Revenue: decimal.Zero}
	}
	for _, o := range orders {
		i := int(o.CreatedAt.In(loc).Month()) - 1
		report.MonthlyStats[i].Orders++
		report.MonthlyStats[i].Revenue = report.MonthlyStats[i].Revenue.Add(o.TotalAmount)
	}

	total := sumTotals(orders)
	report.Summary.TotalRevenue = total
	report.Summary.TotalOrders = int64(len(orders))
	report.Summary.AverageOrderValue = average(total, int64(len(orders)))
	report.Summary.MonthlyAverage = average(total, 12)
	return report, nil
}

type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type OrderSummaryReport struct {
	Period  DateRange `json:"period"`
	Summary struct {
		TotalRevenue         decimal.Decimal `json:"total_revenue"`
		TotalOrders          int64           `json:"total_orders"`
		TotalCustomers       int64           `json:"total_customers"`
		TotalItems           int64           `json:"total_items"`
		AverageOrderValue    decimal.Decimal `json:"average_order_value"`
		AverageItemsPerOrder decimal.Decimal `json:"average_items_per_order"`
	} `json:"summary"`
	Breakdown struct {
		ByStatus        map[models.OrderStatus]int64   `json:"by_status"`
		ByOrderType     map[models.OrderType]int64     `json:"by_order_type"`
		ByPaymentMethod map[models.PaymentMethod]int64 `json:"by_payment_method"`
	} `json:"breakdown"`
	PeakHours []HourCount `json:"peak_hours"`
}

func (s *ReportService) OrderSummary(ctx context.Context, q DateRangeQuery) (*OrderSummaryReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{WithItems: true})
	if err != nil {
		return nil, err
	}

	report := &OrderSummaryReport{Period: rng}
	report.Breakdown.ByStatus = map[models.OrderStatus]int64{
		models.OrderStatusPending:   0,
		models.OrderStatusPreparing: 0,
		models.OrderStatusReady:     0,
		models.OrderStatusCompleted: 0,
		models.OrderStatusCancelled: 0,
	}
	report.Breakdown.ByOrderType = map[models.OrderType]int64{
		models.OrderTypeDineIn:   0,
		models.OrderTypeDelivery: 0,
	}
	report.Breakdown.ByPaymentMethod = map[models.PaymentMethod]int64{
		models.PaymentMethodCash:         0,
		models.PaymentMethodBankTransfer: 0,
	}

	customers := make(map[uuid.UUID]bool)
	var hours [24]int64
	for _, o := range orders {
		report.Breakdown.ByStatus[o.OrderStatus]++
		report.Breakdown.ByOrderType[o.OrderType]++
		report.Breakdown.ByPaymentMethod[o.PaymentMethod]++
		if o.CustomerID != nil {
			customers[*o.CustomerID] = true
		}
		hours[o.CreatedAt.In(s.clock.location()).Hour()]++
	}

	n := int64(len(orders))
	total := sumTotals(orders)
	items := itemCount(orders)
	report.Summary.TotalRevenue = total
	report.Summary.TotalOrders = n
	report.Summary.TotalCustomers = int64(len(customers))
	report.Summary.TotalItems = items
	report.Summary.AverageOrderValue = average(total, n)
	report.Summary.AverageItemsPerOrder = average(decimal.NewFromInt(items), n)

	report.PeakHours = []HourCount{}
	for h, count := range hours {
		if count > 0 {
			report.PeakHours = append(report.PeakHours, HourCount{Hour: h, Count: count})
		}
	}
	return report, nil
}

// TimelineBucket is one interval of the order timeline. Which label fields
// are set depends on the interval.
type TimelineBucket struct {
	Time      string          `json:"time,omitempty"`
	Date      string          `json:"date,omitempty"`
	DayOfWeek string          `json:"day_of_week,omitempty"`
	WeekStart string          `json:"week_start,omitempty"`
	WeekEnd   string          `json:"week_end,omitempty"`
	Month     string          `json:"month,omitempty"`
	MonthName string          `json:"month_name,omitempty"`
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TimelineReport struct {
	Interval string           `json:"interval"`
	Period   DateRange        `json:"period"`
	Timeline []TimelineBucket `json:"timeline"`
	Summary  struct {
		TotalOrders               int64           `json:"total_orders"`
		TotalRevenue              decimal.Decimal `json:"total_revenue"`
		AverageOrdersPerInterval  decimal.Decimal `json:"average_orders_per_interval"`
		AverageRevenuePerInterval decimal.Decimal `json:"average_revenue_per_interval"`
	} `json:"summary"`
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	d := startOfDay(t, loc)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// timelineBuckets lays out every bucket of rng and returns the key function
// used to place an order timestamp into one of them.
func timelineBuckets(rng DateRange, interval string) ([]TimelineBucket, func(time.Time) string, error) {
	loc := rng.Start.Location()
	var (
		buckets []TimelineBucket
		key     func(time.Time) string
	)
	switch interval {
	case IntervalHourly:
		key = func(t time.Time) string { return t.In(loc).Format("2006-01-02 15:00") }
		for _, day := range rng.Days() {
			for h := 0; h < 24; h++ {
				at := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, loc)
				buckets = append(buckets, TimelineBucket{Time: key(at)})
			}
		}
	case IntervalDaily, "":
		key = func(t time.Time) string { return t.In(loc).Format(DateLayout) }
		for _, day := range rng.Days() {
			buckets = append(buckets, TimelineBucket{Date: key(day), DayOfWeek: day.Weekday().String()})
		}
	case IntervalWeekly:
		key = func(t time.Time) string { return startOfWeek(t, loc).Format(DateLayout) }
		for w := startOfWeek(rng.Start, loc); !w.After(rng.End); w = w.AddDate(0, 0, 7) {
			buckets = append(buckets, TimelineBucket{
				WeekStart: w.Format(DateLayout),
				WeekEnd:   w.AddDate(0, 0, 6).Format(DateLayout),
			})
		}
	case IntervalMonthly:
		key = func(t time.Time) string { return t.In(loc).Format("2006-01") }
		first := time.Date(rng.Start.Year(), rng.Start.Month(), 1, 0, 0, 0, 0, loc)
		for m := first; !m.After(rng.End); m = m.AddDate(0, 1, 0) {
			buckets = append(buckets, TimelineBucket{Month: key(m), MonthName: m.Format("January 2006")})
		}
	default:
		return nil, nil, Validation("Invalid interval")
	}
	return buckets, key, nil
}

func bucketKey(b TimelineBucket) string {
	switch {
	case b.Time != "":
		return b.Time
	case b.Date != "":
		return b.Date
	case b.WeekStart != "":
		return b.WeekStart
	}
	return b.Month
}

// Timeline returns dense buckets: intervals without orders are present with zeros.
func (s *ReportService) Timeline(ctx context.Context, q DateRangeQuery, interval string) (*TimelineReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	buckets, key, err := timelineBuckets(rng, interval)
	if err != nil {
		return nil, err
	}
	if interval == "" {
		interval = IntervalDaily
	}

	orders, err := s.load(ctx, rng, repositories.OrderQuery{})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(buckets))
	for i := range buckets {
		buckets[i].Revenue = decimal.Zero
		index[bucketKey(buckets[i])] = i
	}
	for _, o := range orders {
		if i, ok := index[key(o.CreatedAt)]; ok {
			buckets[i].Orders++
			buckets[i].Revenue = buckets[i].Revenue.Add(o.TotalAmount)
		}
	}

	report := &TimelineReport{Interval: interval, Period: rng, Timeline: buckets}
	total := decimal.Zero
	var count int64
	for _, b := range buckets {
		count += b.Orders
		total = total.Add(b.Revenue)
	}
	n := int64(len(buckets))
	report.Summary.TotalOrders = count
	report.Summary.TotalRevenue = models.RoundMoney(total)
	report.Summary.AverageOrdersPerInterval = average(decimal.NewFromInt(count), n)
	report.Summary.AverageRevenuePerInterval = average(total, n)
	return report, nil
}

// ItemPerformance is a menu item's sales over a period.
type ItemPerformance struct {
	ID                      uuid.UUID       `json:"id"`
	Name                    string          `json:"name"`
	Category                string          `json:"category"`
	Quantity                int64           `json:"quantity"`
	Revenue                 decimal.Decimal `json:"revenue"`
	OrderCount              int64           `json:"order_count"`
	AverageQuantityPerOrder decimal.Decimal `json:"average_quantity_per_order"`
}

// aggregateItems groups order lines by menu item, highest revenue first.
func aggregateItems(orders []models.Order) []ItemPerformance {
	byItem := make(map[uuid.UUID]*ItemPerformance)
	seen := make(map[uuid.UUID]map[uuid.UUID]bool)
	var order []uuid.UUID
	for _, o := range orders {
		for _, line := range o.Items {
			rec, ok := byItem[line.MenuItemID]
			if !ok {
				rec = &ItemPerformance{ID: line.MenuItemID, Revenue: decimal.Zero}
				if line.MenuItem != nil {
					rec.Name = line.MenuItem.Name
					if line.MenuItem.Category != nil {
						rec.Category = line.MenuItem.Category.Name
					}
				}
				byItem[line.MenuItemID] = rec
				seen[line.MenuItemID] = make(map[uuid.UUID]bool)
				order = append(order, line.MenuItemID)
			}
			rec.Quantity += int64(line.Quantity)
			rec.Revenue = rec.Revenue.Add(line.LineTotal())
			if !seen[line.MenuItemID][o.ID] {
				seen[line.MenuItemID][o.ID] = true
				rec.OrderCount++
			}
		}
	}

	out := make([]ItemPerformance, 0, len(order))
	for _, id := range order {
		rec := byItem[id]
		rec.Revenue = models.RoundMoney(rec.Revenue)
		rec.AverageQuantityPerOrder = average(decimal.NewFromInt(rec.Quantity), rec.OrderCount)
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

type TopItemsReport struct {
	Period  DateRange         `json:"period"`
	Items   []ItemPerformance `json:"items"`
	Summary struct {
		TotalItemsSold int64           `json:"total_items_sold"`
		TotalRevenue   decimal.Decimal `json:"total_revenue"`
		UniqueItems    int             `json:"unique_items"`
	} `json:"summary"`
}

func (s *ReportService) TopItems(ctx context.Context, q DateRangeQuery, limit int) (*TopItemsReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{WithItems: true})
	if err != nil {
		return nil, err
	}

	items := aggregateItems(orders)
	report := &TopItemsReport{Period: rng}
	total := decimal.Zero
	for _, item := range items {
		report.Summary.TotalItemsSold += item.Quantity
		total = total.Add(item.Revenue)
	}
	report.Summary.TotalRevenue = total
	report.Summary.UniqueItems = len(items)

	if limit = reportLimit(limit); len(items) > limit {
		items = items[:limit]
	}
	report.Items = items
	return report, nil
}

type LowStockReport struct {
	Count   int               `json:"count"`
	Items   []models.MenuItem `json:"items"`
	Summary string            `json:"summary"`
}

// LowStock lists menu items currently marked unavailable.
func (s *ReportService) LowStock(ctx context.Context) (*LowStockReport, error) {
	unavailable := false
	items, err := repositories.NewMenuRepository(s.db).ListItems(ctx, repositories.MenuItemFilter{Available: &unavailable})
	if err != nil {
		return nil, err
	}
	return &LowStockReport{
		Count:   len(items),
		Items:   items,
		Summary: fmt.Sprintf("Found %d unavailable items", len(items)),
	}, nil
}
