package repositories

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
)

// orderIntakeLockKey identifies the postgres advisory lock taken while an
// order number is assigned.
const orderIntakeLockKey int64 = 7_304_112

// OrderFilter is the closed set of filters accepted by the order list.
type OrderFilter struct {
	OrderType      models.OrderType
	PaymentStatus  models.PaymentStatus
	OrderStatus    models.OrderStatus
	DeliveryStatus models.DeliveryStatus
	Range          *TimeRange
	Search         string
	Pagination
}

// OrderQuery selects orders for report aggregation.
type OrderQuery struct {
	Range            *TimeRange
	OrderType        models.OrderType
	PaymentMethod    models.PaymentMethod
	PaymentStatus    models.PaymentStatus
	RiderID          *uuid.UUID
	IncludeCancelled bool
	WithItems        bool
	WithCustomer     bool
	WithRider        bool
}

func (q OrderQuery) scope(db *gorm.DB) *gorm.DB {
	db = q.Range.apply(db, "orders.created_at")
	if !q.IncludeCancelled {
		db = db.Where("orders.order_status <> ?", models.OrderStatusCancelled)
	}
	if q.OrderType != "" {
		db = db.Where("orders.order_type = ?", q.OrderType)
	}
	if q.PaymentMethod != "" {
		db = db.Where("orders.payment_method = ?", q.PaymentMethod)
	}
	if q.PaymentStatus != "" {
		db = db.Where("orders.payment_status = ?", q.PaymentStatus)
	}
	if q.RiderID != nil {
		db = db.Where("orders.rider_id = ?", *q.RiderID)
	}
	return db
}

// AmountSummary is the number of matching orders and their summed total.
type AmountSummary struct {
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DineInStats splits open and settled dine-in orders.
type DineInStats struct {
	PendingOrders    int64           `json:"pending_orders"`
	CompletedOrders  int64           `json:"completed_orders"`
	PendingRevenue   decimal.Decimal `json:"pending_revenue"`
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
	TotalOrders      int64           `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

type DeliveryStats struct {
	PendingPayments     AmountSummary   `json:"pending_payments"`
	ReceivedPayments    AmountSummary   `json:"received_payments"`
	PendingDeliveries   AmountSummary   `json:"pending_deliveries"`
	CompletedDeliveries AmountSummary   `json:"completed_deliveries"`
	CODPending          AmountSummary   `json:"cod_pending"`
	CashPayments        AmountSummary   `json:"cash_payments"`
	BankPayments        AmountSummary   `json:"bank_payments"`
	TotalOrders         int64           `json:"total_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AverageOrderValue   decimal.Decimal `json:"average_order_value"`
}

type OrderStatistics struct {
	TotalOrders     int64           `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	DineInOrders    int64           `json:"dine_in_orders"`
	DeliveryOrders  int64           `json:"delivery_orders"`
	DineInRevenue   decimal.Decimal `json:"dine_in_revenue"`
	DeliveryRevenue decimal.Decimal `json:"delivery_revenue"`
	CashOrdersCount int64           `json:"cash_orders_count"`
	CashRevenue     decimal.Decimal `json:"cash_revenue"`
	BankOrdersCount int64           `json:"bank_orders_count"`
	BankRevenue     decimal.Decimal `json:"bank_revenue"`
	PendingOrders   int64           `json:"pending_orders"`
}

// ItemSales is one row of the per menu item sales report.
type ItemSales struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Quantity     int64           `json:"quantity"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int64           `json:"order_count"`
}

// OccupiedTable is the latest unpaid dine-in order sitting on a table.
type OccupiedTable struct {
	TableNumber int       `json:"table_number"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int       `json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderRepository provides access to orders, their items and edit history.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC") }).
		Preload("Items.MenuItem").
		Preload("Customer").
		Preload("Rider")
}

// LockIntake serialises order number assignment for the rest of the
// transaction. SQLite serialises writers on its own.
func (r *OrderRepository) LockIntake(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", orderIntakeLockKey).Error
	return wrap(err, "failed to lock order intake")
}

// CountByBusinessDate counts every order, cancelled included, taken on date.
func (r *OrderRepository) CountByBusinessDate(ctx context.Context, businessDate string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("business_date = ?", businessDate).
		Count(&count).Error
	return count, wrap(err, "failed to count orders for business date")
}

// FindOccupyingOrder returns the newest unpaid, non-cancelled dine-in order on a table.
func (r *OrderRepository) FindOccupyingOrder(ctx context.Context, tableNumber int) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("order_type = ? AND payment_status = ? AND order_status <> ? AND table_number = ?",
			models.OrderTypeDineIn, models.PaymentStatusPending, models.OrderStatusCancelled, tableNumber).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, wrap(err, "failed to find occupying order")
	}
	return &order, nil
}

// Create inserts the order together with its items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return wrap(r.db.WithContext(ctx).Create(order).Error, "failed to create order")
}

// FindByID loads an order with items, menu items, customer and rider.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := withOrderDetails(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err, "failed to get order")
	}
	return &order, nil
}

// Update applies column updates to a single order.
func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update order")
	}
	return nil
}

// Items returns the order's items with their menu items, oldest first.
func (r *OrderRepository) Items(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("MenuItem").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, wrap(err, "failed to get order items")
}

// ReplaceItems deletes every item of the order and inserts items in their place.
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return wrap(err, "failed to delete order items")
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return wrap(db.Create(&items).Error, "failed to create order items")
}

func (r *OrderRepository) CreateEditHistory(ctx context.Context, entry *models.OrderEditHistory) error {
	return wrap(r.db.WithContext(ctx).Create(entry).Error, "failed to create order edit history")
}

// EditHistory lists edits of an order, newest first.
func (r *OrderRepository) EditHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderEditHistory, error) {
	var history []models.OrderEditHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("edited_at DESC").
		Find(&history).Error
	return history, wrap(err, "failed to get order edit history")
}

func (f OrderFilter) scope(db *gorm.DB) *gorm.DB {
	if f.OrderStatus != "" {
		db = db.Where("orders.order_status = ?", f.OrderStatus)
	} else {
		db = db.Where("orders.order_status <> ?", models.OrderStatusCancelled)
	}
	if f.OrderType != "" {
		db = db.Where("orders.order_type = ?", f.OrderType)
	}
	if f.PaymentStatus != "" {
		db = db.Where("orders.payment_status = ?", f.PaymentStatus)
	}
	if f.DeliveryStatus != "" {
		db = db.Where("orders.delivery_status = ?", f.DeliveryStatus)
	}
	db = f.Range.apply(db, "orders.created_at")

	search := strings.TrimSpace(f.Search)
	if search == "" {
		return db
	}
	pattern := containsPattern(search)
	customers := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Customer{}).
		Select("id").
		Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ?", pattern, pattern)
	cond := db.Session(&gorm.Session{NewDB: true}).
		Where("orders.customer_id IN (?)", customers).
		Or("LOWER(orders.delivery_address) LIKE ?", pattern)
	if n, err := strconv.Atoi(search); err == nil {
		cond = cond.Or("orders.order_number = ?", n).Or("orders.table_number = ?", n)
	}
	return db.Where(cond)
}

// List returns one page of orders matching f, newest first, and the total match count.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	page := f.Pagination.Normalize()
	base := r.db.WithContext(ctx).Model(&models.Order{})

	var total int64
	if err := f.scope(base).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "failed to count orders")
	}

	var orders []models.Order
	err := withOrderDetails(f.scope(r.db.WithContext(ctx))).
		Order("orders.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, wrap(err, "failed to list orders")
	}
	return orders, total, nil
}

// ListDineIn lists non-cancelled dine-in orders by payment status, highest order number first.
func (r *OrderRepository) ListDineIn(ctx context.Context, status models.PaymentStatus, rng *TimeRange) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Where("order_type = ? AND order_status <> ?", models.OrderTypeDineIn, models.OrderStatusCancelled)
	if status != "" {
		q = q.Where("payment_status = ?", status)
	}
	q = rng.apply(q, "created_at")

	var orders []models.Order
	err := withOrderDetails(q).Order("business_date DESC, order_number DESC").Find(&orders).Error
	return orders, wrap(err, "failed to list dine-in orders")
}

// ListDelivery lists non-cancelled delivery orders, newest first. A completed
// delivery order is both completed and paid; pending is everything else.
func (r *OrderRepository) ListDelivery(ctx context.Context, status models.PaymentStatus, rng *TimeRange) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Where("order_type = ? AND order_status <> ?", models.OrderTypeDelivery, models.OrderStatusCancelled)
	switch status {
	case models.PaymentStatusCompleted:
		q = q.Where("order_status = ? AND payment_status = ?", models.OrderStatusCompleted, models.PaymentStatusCompleted)
	case models.PaymentStatusPending:
		q = q.Where("order_status <> ? OR payment_status <> ?", models.OrderStatusCompleted, models.PaymentStatusCompleted)
	}
	q = rng.apply(q, "created_at")

	var orders []models.Order
	err := withOrderDetails(q).Order("created_at DESC").Find(&orders).Error
	return orders, wrap(err, "failed to list delivery orders")
}

// FindForReport loads orders for in-memory aggregation, oldest first.
func (r *OrderRepository) FindForReport(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	db := q.scope(r.db.WithContext(ctx))
	if q.WithItems {
		db = db.Preload("Items").Preload("Items.MenuItem").Preload("Items.MenuItem.Category")
	}
	if q.WithCustomer {
		db = db.Preload("Customer")
	}
	if q.WithRider {
		db = db.Preload("Rider")
	}
	var orders []models.Order
	err := db.Order("orders.created_at ASC").Find(&orders).Error
	return orders, wrap(err, "failed to load orders for report")
}

// Summarize counts q's orders and sums their totals.
func (r *OrderRepository) Summarize(ctx context.Context, q OrderQuery, extra ...func(*gorm.DB) *gorm.DB) (AmountSummary, error) {
	db := q.scope(r.db.WithContext(ctx).Model(&models.Order{}))
	for _, fn := range extra {
		db = fn(db)
	}
	var row struct {
		Count int64
		Total decimal.NullDecimal
	}
	if err := db.Select("COUNT(*) AS count, SUM(orders.total_amount) AS total").Scan(&row).Error; err != nil {
		return AmountSummary{}, wrap(err, "failed to summarize orders")
	}
	return AmountSummary{Count: row.Count, TotalAmount: models.RoundMoney(row.Total.Decimal)}, nil
}

func where(query string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

func (r *OrderRepository) DineInStats(ctx context.Context, rng *TimeRange) (*DineInStats, error) {
	q := OrderQuery{Range: rng, OrderType: models.OrderTypeDineIn}

	pending, err := r.Summarize(ctx, q, where("orders.payment_status = ?", models.PaymentStatusPending))
	if err != nil {
		return nil, err
	}
	completed, err := r.Summarize(ctx, q, where("orders.payment_status = ?", models.PaymentStatusCompleted))
	if err != nil {
		return nil, err
	}
	return &DineInStats{
		PendingOrders:    pending.Count,
		CompletedOrders:  completed.Count,
		PendingRevenue:   pending.TotalAmount,
		CompletedRevenue: completed.TotalAmount,
		TotalOrders:      pending.Count + completed.Count,
		TotalRevenue:     pending.TotalAmount.Add(completed.TotalAmount),
	}, nil
}

type summaryBucket struct {
	dst  *AmountSummary
	cond func(*gorm.DB) *gorm.DB
}

func (r *OrderRepository) DeliveryStats(ctx context.Context, rng *TimeRange) (*DeliveryStats, error) {
	q := OrderQuery{Range: rng, OrderType: models.OrderTypeDelivery}
	stats := &DeliveryStats{}
	buckets := []summaryBucket{
		{&stats.PendingPayments, where("orders.payment_status = ?", models.PaymentStatusPending)},
		{&stats.ReceivedPayments, where("orders.payment_status = ?", models.PaymentStatusCompleted)},
		{&stats.PendingDeliveries, where("orders.delivery_status <> ?", models.DeliveryStatusDelivered)},
		{&stats.CompletedDeliveries, where("orders.delivery_status = ?", models.DeliveryStatusDelivered)},
		{&stats.CODPending, where("orders.payment_method = ? AND orders.payment_status = ?", models.PaymentMethodCash, models.PaymentStatusPending)},
		{&stats.CashPayments, where("orders.payment_method = ?", models.PaymentMethodCash)},
		{&stats.BankPayments, where("orders.payment_method = ?", models.PaymentMethodBankTransfer)},
	}
	for _, b := range buckets {
		summary, err := r.Summarize(ctx, q, b.cond)
		if err != nil {
			return nil, err
		}
		*b.dst = summary
	}

	stats.TotalOrders = stats.PendingPayments.Count + stats.ReceivedPayments.Count
	stats.TotalRevenue = stats.PendingPayments.TotalAmount.Add(stats.ReceivedPayments.TotalAmount)
	stats.AverageOrderValue = decimal.Zero
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = models.RoundMoney(stats.TotalRevenue.Div(decimal.NewFromInt(stats.TotalOrders)))
	}
	return stats, nil
}

func (r *OrderRepository) Statistics(ctx context.Context, rng *TimeRange) (*OrderStatistics, error) {
	q := OrderQuery{Range: rng}

	all, err := r.Summarize(ctx, q)
	if err != nil {
		return nil, err
	}
	dineIn, err := r.Summarize(ctx, q, where("orders.order_type = ?", models.OrderTypeDineIn))
	if err != nil {
		return nil, err
	}
	delivery, err := r.Summarize(ctx, q, where("orders.order_type = ?", models.OrderTypeDelivery))
	if err != nil {
		return nil, err
	}
	cash, err := r.Summarize(ctx, q, where("orders.payment_method = ?", models.PaymentMethodCash))
	if err != nil {
		return nil, err
	}
	bank, err := r.Summarize(ctx, q, where("orders.payment_method = ?", models.PaymentMethodBankTransfer))
	if err != nil {
		return nil, err
	}
	pending, err := r.Summarize(ctx, q, where("orders.payment_status = ?", models.PaymentStatusPending))
	if err != nil {
		return nil, err
	}

	return &OrderStatistics{
		TotalOrders:     all.Count,
		TotalRevenue:    all.TotalAmount,
		DineInOrders:    dineIn.Count,
		DeliveryOrders:  delivery.Count,
		DineInRevenue:   dineIn.TotalAmount,
		DeliveryRevenue: delivery.TotalAmount,
		CashOrdersCount: cash.Count,
		CashRevenue:     cash.TotalAmount,
		BankOrdersCount: bank.Count,
		BankRevenue:     bank.TotalAmount,
		PendingOrders:   pending.Count,
	}, nil
}

// ItemsSales aggregates order items of non-cancelled orders per menu item,
// highest revenue first.
func (r *OrderRepository) ItemsSales(ctx context.Context, rng *TimeRange) ([]ItemSales, error) {
	var rows []struct {
		ItemID       uuid.UUID
		ItemName     string
		Quantity     int64
		TotalRevenue decimal.NullDecimal
		OrderCount   int64
	}
	q := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.menu_item_id AS item_id,
			COALESCE(menu_items.name, '') AS item_name,
			SUM(order_items.quantity) AS quantity,
			SUM(order_items.price * order_items.quantity) AS total_revenue,
			COUNT(DISTINCT order_items.order_id) AS order_count`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("orders.order_status <> ?", models.OrderStatusCancelled)
	q = rng.apply(q, "orders.created_at")

	err := q.Group("order_items.menu_item_id, menu_items.name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err, "failed to aggregate item sales")
	}

	sales := make([]ItemSales, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, ItemSales{
			ItemID:       row.ItemID,
			ItemName:     row.ItemName,
			Quantity:     row.Quantity,
			TotalRevenue: models.RoundMoney(row.TotalRevenue.Decimal),
			OrderCount:   row.OrderCount,
		})
	}
	return sales, nil
}

// OccupiedTables returns the latest occupying order per table.
func (r *OrderRepository) OccupiedTables(ctx context.Context) ([]OccupiedTable, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Select("id, table_number, order_number, created_at").
		Where("order_type = ? AND payment_status = ? AND order_status <> ? AND table_number IS NOT NULL",
			models.OrderTypeDineIn, models.PaymentStatusPending, models.OrderStatusCancelled).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, wrap(err, "failed to get occupied tables")
	}

	seen := make(map[int]bool)
	tables := make([]OccupiedTable, 0, len(orders))
	for _, o := range orders {
		if o.TableNumber == nil || seen[*o.TableNumber] {
			continue
		}
		seen[*o.TableNumber] = true
		tables = append(tables, OccupiedTable{
			TableNumber: *o.TableNumber,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			CreatedAt:   o.CreatedAt,
		})
	}
	return tables, nil
}

// CustomerTotals derives a customer's order count and spend from non-cancelled delivery orders.
func (r *OrderRepository) CustomerTotals(ctx context.Context, customerID uuid.UUID) (AmountSummary, error) {
	return r.Summarize(ctx,
		OrderQuery{OrderType: models.OrderTypeDelivery},
		where("orders.customer_id = ?", customerID))
}

// RiderTotals derives delivered count and cash collected for a rider.
func (r *OrderRepository) RiderTotals(ctx context.Context, riderID uuid.UUID) (int64, decimal.Decimal, error) {
	q := OrderQuery{RiderID: &riderID}
	delivered, err := r.Summarize(ctx, q, where("orders.delivery_status = ?", models.DeliveryStatusDelivered))
	if err != nil {
		return 0, decimal.Zero, err
	}
	cash, err := r.Summarize(ctx, q, where("orders.delivery_status = ? AND orders.payment_method = ? AND orders.payment_status = ?",
		models.DeliveryStatusDelivered, models.PaymentMethodCash, models.PaymentStatusCompleted))
	if err != nil {
		return 0, decimal.Zero, err
	}
	return delivered.Count, cash.TotalAmount, nil
}

// CountByCustomer counts all orders, cancelled included, referencing the customer.
func (r *OrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, wrap(err, "failed to count customer orders")
}

func (r *OrderRepository) CountByRider(ctx context.Context, riderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("rider_id = ?", riderID).Count(&count).Error
	return count, wrap(err, "failed to count rider orders")
}

func (r *OrderRepository) CountItemsByMenuItem(ctx context.Context, menuItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("menu_item_id = ?", menuItemID).Count(&count).Error
	return count, wrap(err, "failed to count order items for menu item")
}

// ListByCustomer returns the customer's latest non-cancelled orders.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := withOrderDetails(r.db.WithContext(ctx)).
		Where("customer_id = ? AND order_status <> ?", customerID, models.OrderStatusCancelled).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, wrap(err, "failed to list customer orders")
}

// ListByRider returns a page of the rider's orders, optionally by delivery status.
func (r *OrderRepository) ListByRider(ctx context.Context, riderID uuid.UUID, status models.DeliveryStatus, p Pagination) ([]models.Order, int64, error) {
	page := p.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("rider_id = ?", riderID)
		if status != "" {
			db = db.Where("delivery_status = ?", status)
		}
		return db
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Order{})).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "failed to count rider orders")
	}
	var orders []models.Order
	err := withOrderDetails(scope(r.db.WithContext(ctx))).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&orders).Error
	return orders, total, wrap(err, "failed to list rider orders")
}
