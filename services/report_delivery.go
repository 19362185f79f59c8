package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos-backend/models"
	"pos-backend/repositories"
)

const unknownArea = "Unknown"

func deliveryStatusIs(o *models.Order, statuses ...models.DeliveryStatus) bool {
	if o.DeliveryStatus == nil {
		return false
	}
	for _, st := range statuses {
		if *o.DeliveryStatus == st {
			return true
		}
	}
	return false
}

// amountSummary counts orders and sums their totals.
func amountSummary(orders []models.Order) repositories.AmountSummary {
	return repositories.AmountSummary{Count: int64(len(orders)), TotalAmount: sumTotals(orders)}
}

type DeliveryTrendPoint struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DeliveryOverviewReport struct {
	Period  DateRange `json:"period"`
	Summary struct {
		TotalOrders       int64           `json:"total_orders"`
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
		AverageOrderValue decimal.Decimal `json:"average_order_value"`
		DeliveredOrders   int64           `json:"delivered_orders"`
		PendingOrders     int64           `json:"pending_orders"`
		CancelledOrders   int64           `json:"cancelled_orders"`
	} `json:"summary"`
	PaymentBreakdown struct {
		Cash        repositories.AmountSummary `json:"cash"`
		Bank        repositories.AmountSummary `json:"bank"`
		CODPending  repositories.AmountSummary `json:"cod_pending"`
		CODReceived repositories.AmountSummary `json:"cod_received"`
	} `json:"payment_breakdown"`
	Trend []DeliveryTrendPoint `json:"trend"`
}

// DeliveryOverview includes cancelled delivery orders so they can be counted.
func (s *ReportService) DeliveryOverview(ctx context.Context, q DateRangeQuery) (*DeliveryOverviewReport, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{
		OrderType:        models.OrderTypeDelivery,
		IncludeCancelled: true,
	})
	if err != nil {
		return nil, err
	}

	report := &DeliveryOverviewReport{Period: rng}
	total := sumTotals(orders)
	n := int64(len(orders))
	report.Summary.TotalOrders = n
	report.Summary.TotalRevenue = total
	report.Summary.AverageOrderValue = average(total, n)
	for i := range orders {
		switch {
		case deliveryStatusIs(&orders[i], models.DeliveryStatusDelivered):
			report.Summary.DeliveredOrders++
		case deliveryStatusIs(&orders[i], models.DeliveryStatusPending, models.DeliveryStatusOutForDelivery):
			report.Summary.PendingOrders++
		case deliveryStatusIs(&orders[i], models.DeliveryStatusCancelled):
			report.Summary.CancelledOrders++
		}
	}

	paid := func(m models.PaymentMethod, st models.PaymentStatus) func(*models.Order) bool {
		return func(o *models.Order) bool { return o.PaymentMethod == m && o.PaymentStatus == st }
	}
	pb := &report.PaymentBreakdown
	pb.Cash = amountSummary(filterOrders(orders, paid(models.PaymentMethodCash, models.PaymentStatusCompleted)))
	pb.Bank = amountSummary(filterOrders(orders, paid(models.PaymentMethodBankTransfer, models.PaymentStatusCompleted)))
	pb.CODPending = amountSummary(filterOrders(orders, paid(models.PaymentMethodCash, models.PaymentStatusPending)))
	pb.CODReceived = amountSummary(filterOrders(orders, func(o *models.Order) bool {
		return paid(models.PaymentMethodCash, models.PaymentStatusCompleted)(o) &&
			deliveryStatusIs(o, models.DeliveryStatusDelivered)
	}))

	stats := dailyStats(rng, orders)
	report.Trend = make([]DeliveryTrendPoint, 0, len(stats))
	for _, st := range stats {
		report.Trend = append(report.Trend, DeliveryTrendPoint{Date: st.Date, Orders: st.Orders, Revenue: st.Revenue})
	}
	return report, nil
}

// ExtractArea derives a locality from a free-form address: the segment
// before the last comma, or the last two words of a comma-free address.
func ExtractArea(address string) string {
	address = strings.TrimSpace(address)
	if address == "" || address == "N/A" {
		return unknownArea
	}
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		area := strings.TrimSpace(parts[len(parts)-2])
		if area == "" {
			return unknownArea
		}
		return area
	}
	words := strings.Fields(address)
	if len(words) > 2 {
		return strings.Join(words[len(words)-2:], " ")
	}
	return address
}

type AreaStats struct {
	Area              string          `json:"area"`
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	DeliveredOrders   int64           `json:"delivered_orders"`
	PendingOrders     int64           `json:"pending_orders"`
}

// DeliveryAreas groups delivery orders with an address by area, highest
// revenue first.
func (s *ReportService) DeliveryAreas(ctx context.Context, q DateRangeQuery) ([]AreaStats, error) {
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{OrderType: models.OrderTypeDelivery})
	if err != nil {
		return nil, err
	}

	byArea := make(map[string]*AreaStats)
	var names []string
	for i := range orders {
		o := &orders[i]
		if o.DeliveryAddress == nil {
			continue
		}
		area := ExtractArea(*o.DeliveryAddress)
		st, ok := byArea[area]
		if !ok {
			st = &AreaStats{Area: area, TotalRevenue: decimal.Zero}
			byArea[area] = st
			names = append(names, area)
		}
		st.TotalOrders++
		st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		switch {
		case deliveryStatusIs(o, models.DeliveryStatusDelivered):
			st.DeliveredOrders++
		case deliveryStatusIs(o, models.DeliveryStatusPending, models.DeliveryStatusOutForDelivery):
			st.PendingOrders++
		}
	}

	areas := make([]AreaStats, 0, len(names))
	for _, name := range names {
		st := byArea[name]
		st.AverageOrderValue = average(st.TotalRevenue, st.TotalOrders)
		areas = append(areas, *st)
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].TotalRevenue.GreaterThan(areas[j].TotalRevenue)
	})
	return areas, nil
}

const (
	CODPending  = "pending"
	CODReceived = "received"
)

type CODOrder struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     int                   `json:"order_number"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone"`
	DeliveryAddress string                `json:"delivery_address"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	DeliveryCharge  decimal.Decimal       `json:"delivery_charge"`
	DeliveryStatus  models.DeliveryStatus `json:"delivery_status"`
	PaymentStatus   models.PaymentStatus  `json:"payment_status"`
	RiderName       *string               `json:"rider_name"`
	CreatedAt       time.Time             `json:"created_at"`
	DeliveredAt     *time.Time            `json:"delivered_at"`
}

type CODReport struct {
	Orders []CODOrder `json:"orders"`
	Totals struct {
		Count  int64           `json:"count"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"totals"`
}

// CODOrders lists cash-on-delivery orders still owed (pending) or settled
// (received), newest first.
func (s *ReportService) CODOrders(ctx context.Context, status string, q DateRangeQuery) (*CODReport, error) {
	var paymentStatus models.PaymentStatus
	switch status {
	case CODPending, "":
		paymentStatus = models.PaymentStatusPending
	case CODReceived:
		paymentStatus = models.PaymentStatusCompleted
	default:
		return nil, Validation("Status must be pending or received")
	}
	rng, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	orders, err := s.load(ctx, rng, repositories.OrderQuery{
		OrderType:        models.OrderTypeDelivery,
		PaymentMethod:    models.PaymentMethodCash,
		PaymentStatus:    paymentStatus,
		IncludeCancelled: true,
		WithCustomer:     true,
		WithRider:        true,
	})
	if err != nil {
		return nil, err
	}

	report := &CODReport{Orders: make([]CODOrder, 0, len(orders))}
	total := decimal.Zero
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		row := CODOrder{
			ID:              o.ID,
			OrderNumber:     o.OrderNumber,
			CustomerName:    "Guest",
			CustomerPhone:   "N/A",
			DeliveryAddress: "N/A",
			TotalAmount:     o.TotalAmount,
			DeliveryCharge:  o.DeliveryCharge,
			DeliveryStatus:  models.DeliveryStatusPending,
			PaymentStatus:   o.PaymentStatus,
			CreatedAt:       o.CreatedAt,
			DeliveredAt:     o.DeliveredAt,
		}
		if o.Customer != nil {
			row.CustomerName = o.Customer.Name
			row.CustomerPhone = o.Customer.Phone
		}
		if o.DeliveryAddress != nil && *o.DeliveryAddress != "" {
			row.DeliveryAddress = *o.DeliveryAddress
		}
		if o.DeliveryStatus != nil {
			row.DeliveryStatus = *o.DeliveryStatus
		}
		if o.Rider != nil {
			name := o.Rider.Name
			row.RiderName = &name
		}
		report.Orders = append(report.Orders, row)
		total = total.Add(o.TotalAmount)
	}
	report.Totals.Count = int64(len(report.Orders))
	report.Totals.Amount = models.RoundMoney(total)
	return report, nil
}
