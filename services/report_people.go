package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos-backend/models"
	"pos-backend/repositories"
)

// Loyalty segment bounds by orders placed in the period.
const (
	SegmentNew     = "new"
	SegmentRegular = "regular"
	SegmentLoyal   = "loyal"
	SegmentVIP     = "vip"
)

// LoyaltySegment names the segment for an order count, or "" for none.
func LoyaltySegment(orders int) string {
	switch {
	case orders == 1:
		return SegmentNew
	case orders >= 2 && orders <= 5:
		return SegmentRegular
	case orders >= 6 && orders <= 10:
		return SegmentLoyal
	case orders > 10:
		return SegmentVIP
	}
	return ""
}

type CustomerValue struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	TotalOrders       int64           `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalItems        int64           `json:"total_items"`
	LastOrderDate     *time.Time      `json:"last_order_date"`
}

type TopCustomersReport struct {
	Period    DateRange       `json:"period"`
	Customers []CustomerValue `json:"customers"`
	Summary   struct {
		TotalCustomers       int             `json:"total_customers"`
		TotalRevenue         decimal.Decimal `json:"total_revenue"`
		AverageCustomerValue decimal.Decimal `json:"average_customer_value"`
	} `json:"summary"`
}

// ordersByCustomer groups orders that have a customer, keeping first-seen order.
func ordersByCustomer(orders []models.Order) ([]uuid.UUID, map[uuid.UUID][]models.Order) {
	grouped := make(map[uuid.UUID][]models.Order)
	var ids []uuid.UUID
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		id := *o.CustomerID
		if _, ok := grouped[id]; !ok {
			ids = append(ids, id)
		}
		grouped[id] = append(grouped[id], o)
	}
	return ids, grouped
}

func (s *ReportService) TopCustomers(ctx context.Context, q DateRangeQuery, limit int) (*TopCustomersReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{WithItems: true, WithCustomer: true})
	if err != nil {
		return nil, err
	}

	ids, grouped := ordersByCustomer(orders)
	customers := make([]CustomerValue, 0, len(ids))
	revenue := decimal.Zero
	for _, id := range ids {
		list := grouped[id]
		spent := sumTotals(list)
		last := list[len(list)-1].CreatedAt
		cv := CustomerValue{
			ID:                id,
			TotalSpent:        spent,
			TotalOrders:       int64(len(list)),
			AverageOrderValue: average(spent, int64(len(list))),
			TotalItems:        itemCount(list),
			LastOrderDate:     &last,
		}
		if c := list[0].Customer; c != nil {
			cv.Name = c.Name
			cv.Phone = c.Phone
		}
		revenue = revenue.Add(spent)
		customers = append(customers, cv)
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent.GreaterThan(customers[j].TotalSpent)
	})

	report := &TopCustomersReport{Period: rng}
	report.Summary.TotalCustomers = len(customers)
	report.Summary.TotalRevenue = revenue
	report.Summary.AverageCustomerValue = average(revenue, int64(len(customers)))
	if limit = reportLimit(limit); len(customers) > limit {
		customers = customers[:limit]
	}
	report.Customers = customers
	return report, nil
}

type LoyaltyCustomer struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	OrderCount        int             `json:"order_count"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type LoyaltyBucket struct {
	Count      int               `json:"count"`
	Customers  []LoyaltyCustomer `json:"customers"`
	TotalSpent decimal.Decimal   `json:"total_spent"`
}

type LoyaltyReport struct {
	Period   DateRange                 `json:"period"`
	Segments map[string]*LoyaltyBucket `json:"segments"`
	Summary  struct {
		TotalCustomers           int             `json:"total_customers"`
		TotalRevenue             decimal.Decimal `json:"total_revenue"`
		AverageOrdersPerCustomer decimal.Decimal `json:"average_orders_per_customer"`
	} `json:"summary"`
}

// CustomerLoyalty segments every customer by the orders they placed in the
// period. Customers without orders count toward the total but no segment.
func (s *ReportService) CustomerLoyalty(ctx context.Context, q DateRangeQuery) (*LoyaltyReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	customers, err := repositories.NewCustomerRepository(s.db).All(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{})
	if err != nil {
		return nil, err
	}
	_, grouped := ordersByCustomer(orders)

	report := &LoyaltyReport{Period: rng, Segments: make(map[string]*LoyaltyBucket)}
	for _, name := range []string{SegmentNew, SegmentRegular, SegmentLoyal, SegmentVIP} {
		report.Segments[name] = &LoyaltyBucket{Customers: []LoyaltyCustomer{}, TotalSpent: decimal.Zero}
	}

	revenue := decimal.Zero
	var orderTotal int64
	for _, c := range customers {
		list := grouped[c.ID]
		segment := LoyaltySegment(len(list))
		if segment == "" {
			continue
		}
		spent := sumTotals(list)
		bucket := report.Segments[segment]
		bucket.Count++
		bucket.TotalSpent = bucket.TotalSpent.Add(spent)
		bucket.Customers = append(bucket.Customers, LoyaltyCustomer{
			ID:                c.ID,
			Name:              c.Name,
			Phone:             c.Phone,
			OrderCount:        len(list),
			TotalSpent:        spent,
			AverageOrderValue: average(spent, int64(len(list))),
		})
		revenue = revenue.Add(spent)
		orderTotal += int64(len(list))
	}

	report.Summary.TotalCustomers = len(customers)
	report.Summary.TotalRevenue = revenue
	report.Summary.AverageOrdersPerCustomer = average(decimal.NewFromInt(orderTotal), int64(len(customers)))
	return report, nil
}

type RiderMetrics struct {
	TotalDeliveries     int64           `json:"total_deliveries"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	CashCollected       decimal.Decimal `json:"cash_collected"`
	PendingDeliveries   int64           `json:"pending_deliveries"`
	AverageDeliveryTime int64           `json:"average_delivery_time"`
	SuccessRate         decimal.Decimal `json:"success_rate"`
}

type RiderPerformance struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Metrics RiderMetrics   `json:"metrics"`
	Orders  []models.Order `json:"orders"`
}

type RiderPerformanceReport struct {
	Period  DateRange          `json:"period"`
	Riders  []RiderPerformance `json:"riders"`
	Summary struct {
		TotalRiders        int             `json:"total_riders"`
		TotalDeliveries    int64           `json:"total_deliveries"`
		TotalRevenue       decimal.Decimal `json:"total_revenue"`
		AverageSuccessRate decimal.Decimal `json:"average_success_rate"`
	} `json:"summary"`
}

const recentDeliveries = 5

// riderMetrics summarises one rider's orders. Delivery time averages only
// orders that carry both the assignment and delivery timestamps.
func riderMetrics(orders []models.Order) (RiderMetrics, []models.Order) {
	m := RiderMetrics{TotalRevenue: decimal.Zero, CashCollected: decimal.Zero}
	var delivered []models.Order
	var minutes float64
	var timed int
	for _, o := range orders {
		if o.DeliveryStatus == nil || *o.DeliveryStatus != models.DeliveryStatusDelivered {
			m.PendingDeliveries++
			continue
		}
		delivered = append(delivered, o)
		m.TotalRevenue = m.TotalRevenue.Add(o.TotalAmount)
		if o.PaymentMethod == models.PaymentMethodCash {
			m.CashCollected = m.CashCollected.Add(o.TotalAmount)
		}
		if o.AssignedAt != nil && o.DeliveredAt != nil {
			minutes += o.DeliveredAt.Sub(*o.AssignedAt).Minutes()
			timed++
		}
	}
	m.TotalDeliveries = int64(len(delivered))
	if timed > 0 {
		m.AverageDeliveryTime = int64(minutes/float64(timed) + 0.5)
	}
	m.SuccessRate = percent(decimal.NewFromInt(m.TotalDeliveries), decimal.NewFromInt(int64(len(orders))))

	recent := make([]models.Order, 0, recentDeliveries)
	for i := len(delivered) - 1; i >= 0 && len(recent) < recentDeliveries; i-- {
		recent = append(recent, delivered[i])
	}
	return m, recent
}

// RiderPerformance covers active riders with at least one order in the period.
func (s *ReportService) RiderPerformance(ctx context.Context, q DateRangeQuery) (*RiderPerformanceReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{
		OrderType:    models.OrderTypeDelivery,
		WithRider:    true,
		WithCustomer: true,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]models.Order)
	riders := make(map[uuid.UUID]*models.Rider)
	var ids []uuid.UUID
	for _, o := range orders {
		if o.RiderID == nil || o.Rider == nil || o.Rider.Status != models.RiderStatusActive {
			continue
		}
		id := *o.RiderID
		if _, ok := grouped[id]; !ok {
			ids = append(ids, id)
			riders[id] = o.Rider
		}
		grouped[id] = append(grouped[id], o)
	}

	report := &RiderPerformanceReport{Period: rng, Riders: make([]RiderPerformance, 0, len(ids))}
	revenue := decimal.Zero
	successSum := decimal.Zero
	for _, id := range ids {
		metrics, recent := riderMetrics(grouped[id])
		rider := riders[id]
		report.Riders = append(report.Riders, RiderPerformance{
			ID:      id,
			Name:    rider.Name,
			Phone:   rider.Phone,
			Metrics: metrics,
			Orders:  recent,
		})
		report.Summary.TotalDeliveries += metrics.TotalDeliveries
		revenue = revenue.Add(metrics.TotalRevenue)
		successSum = successSum.Add(metrics.SuccessRate)
	}
	sort.SliceStable(report.Riders, func(i, j int) bool {
		return report.Riders[i].Metrics.TotalDeliveries > report.Riders[j].Metrics.TotalDeliveries
	})

	report.Summary.TotalRiders = len(report.Riders)
	report.Summary.TotalRevenue = models.RoundMoney(revenue)
	report.Summary.AverageSuccessRate = average(successSum, int64(len(report.Riders)))
	return report, nil
}
