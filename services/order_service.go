package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	defaultCashierName = "Cashier"
	defaultEditor      = "System"
	defaultEditReason  = "Order updated"
	orderNotFound      = "Order not found"
	orderConflict      = "Order conflicts with an existing order"
)

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	MenuItemID uuid.UUID       `json:"menu_item_id" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,gt=0"`
	Price      decimal.Decimal `json:"price" binding:"gt=0"`
}

type CreateOrderInput struct {
	Items               []OrderItemInput     `json:"items" binding:"required,min=1,dive"`
	OrderType           models.OrderType     `json:"order_type" binding:"omitempty,oneof=dine_in delivery"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer"`
	PaymentStatus       models.PaymentStatus `json:"payment_status" binding:"omitempty,oneof=pending completed"`
	DiscountPercent     *decimal.Decimal     `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
	DeliveryCharge      *decimal.Decimal     `json:"delivery_charge" binding:"omitempty,gte=0"`
	TableNumber         *int                 `json:"table_number" binding:"omitempty,gt=0"`
	CustomerID          *uuid.UUID           `json:"customer_id"`
	DeliveryAddress     *string              `json:"delivery_address"`
	DeliveryNotes       *string              `json:"delivery_notes"`
	SpecialInstructions *string              `json:"special_instructions"`
	AmountTaken         *decimal.Decimal     `json:"amount_taken" binding:"omitempty,gte=0"`
	ReturnAmount        *decimal.Decimal     `json:"return_amount"`
	// TotalAmount is accepted for compatibility; the total is always computed.
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// OptionalID tells an absent JSON field apart from an explicit null.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

type UpdateOrderInput struct {
	Items               []OrderItemInput     `json:"items" binding:"omitempty,dive"`
	TotalAmount         *decimal.Decimal     `json:"total_amount" binding:"omitempty,gte=0"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer"`
	OrderType           models.OrderType     `json:"order_type" binding:"omitempty,oneof=dine_in delivery"`
	PaymentStatus       models.PaymentStatus `json:"payment_status" binding:"omitempty,oneof=pending completed"`
	DeliveryCharge      *decimal.Decimal     `json:"delivery_charge" binding:"omitempty,gte=0"`
	DeliveryAddress     *string              `json:"delivery_address"`
	DeliveryNotes       *string              `json:"delivery_notes"`
	TableNumber         *int                 `json:"table_number" binding:"omitempty,gt=0"`
	SpecialInstructions *string              `json:"special_instructions"`
	CustomerID          OptionalID           `json:"customer_id"`
	AmountTaken         *decimal.Decimal     `json:"amount_taken" binding:"omitempty,gte=0"`
	ReturnAmount        *decimal.Decimal     `json:"return_amount"`
	ChangeReason        string               `json:"change_reason"`
}

// Editor identifies who made a change and from where.
type Editor struct {
	Name      string
	IPAddress string
}

type MarkPaidInput struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,oneof=cash bank_transfer"`
	AmountTaken   *decimal.Decimal     `json:"amount_taken" binding:"omitempty,gte=0"`
	ReturnAmount  *decimal.Decimal     `json:"return_amount"`
}

// OrderListInput is the query string form of the order list filter.
type OrderListInput struct {
	OrderType      models.OrderType      `form:"order_type" binding:"omitempty,oneof=dine_in delivery"`
	PaymentStatus  models.PaymentStatus  `form:"payment_status" binding:"omitempty,oneof=pending completed"`
	OrderStatus    models.OrderStatus    `form:"order_status" binding:"omitempty,oneof=pending preparing ready completed cancelled"`
	DeliveryStatus models.DeliveryStatus `form:"delivery_status" binding:"omitempty,oneof=pending preparing ready out_for_delivery delivered cancelled"`
	StartDate      string                `form:"start_date"`
	EndDate        string                `form:"end_date"`
	Search         string                `form:"search"`
	Page           int                   `form:"page" binding:"omitempty,gte=1"`
	Limit          int                   `form:"limit" binding:"omitempty,gte=1"`
}

type OrderList struct {
	Orders     []models.Order `json:"orders"`
	Pagination Page           `json:"pagination"`
}

// OrderService owns the order lifecycle.
type OrderService struct {
	db    *gorm.DB
	clock Clock
}

func NewOrderService(db *gorm.DB, clock Clock) *OrderService {
	return &OrderService{db: db, clock: clock}
}

func (s *OrderService) orders() *repositories.OrderRepository {
	return repositories.NewOrderRepository(s.db)
}

// checkCustomer fails when a referenced customer does not exist.
func (s *OrderService) checkCustomer(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := repositories.NewCustomerRepository(s.db).FindByID(ctx, *id)
	return translate(err, customerNotFound, "")
}

// checkMenuItems fails with the ids that are unknown or unavailable, in request order.
func (s *OrderService) checkMenuItems(ctx context.Context, items []OrderItemInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			ids = append(ids, item.MenuItemID)
		}
	}

	found, err := repositories.NewMenuRepository(s.db).FindAvailableItems(ctx, ids)
	if err != nil {
		return err
	}
	available := make(map[uuid.UUID]bool, len(found))
	for _, m := range found {
		available[m.ID] = true
	}

	var missing []string
	for _, id := range ids {
		if !available[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return Validation("Menu items not found: " + strings.Join(missing, ", "))
	}
	return nil
}

func toOrderItems(items []OrderItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return out
}

func subtotalOf(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return models.RoundMoney(subtotal)
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(models.RoundMoney(*d))
}

func tableOccupied(table int) error {
	return Validationf("Table #%d is already occupied", table)
}

// CreateOrder validates and persists a new order with its items. Number
// assignment, the table check and the insert share one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput, cashierName string) (*models.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	orderType := input.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}
	if orderType == models.OrderTypeDelivery && input.CustomerID == nil {
		return nil, Validation("Customer is required for delivery orders")
	}
	if err := s.checkCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if err := s.checkMenuItems(ctx, input.Items); err != nil {
		return nil, err
	}

	items := toOrderItems(input.Items)
	discount := decimal.Zero
	if input.DiscountPercent != nil {
		discount = *input.DiscountPercent
	}
	charge := decimal.Zero
	if input.DeliveryCharge != nil {
		charge = models.RoundMoney(*input.DeliveryCharge)
	}
	subtotal := subtotalOf(items)

	if strings.TrimSpace(cashierName) == "" {
		cashierName = defaultCashierName
	}
	now := s.clock.now()
	order := &models.Order{
		BusinessDate:        now.Format(DateLayout),
		OrderType:           orderType,
		OrderStatus:         models.OrderStatusPending,
		PaymentStatus:       models.PaymentStatusPending,
		PaymentMethod:       paymentMethod,
		Subtotal:            subtotal,
		DiscountPercent:     discount,
		DeliveryCharge:      charge,
		TotalAmount:         models.OrderTotal(subtotal, discount, charge),
		DeliveryAddress:     input.DeliveryAddress,
		DeliveryNotes:       input.DeliveryNotes,
		SpecialInstructions: input.SpecialInstructions,
		CashierName:         cashierName,
		Items:               items,
		CreatedAt:           now.UTC(),
	}
	if input.PaymentStatus != "" {
		order.PaymentStatus = input.PaymentStatus
	}
	if orderType == models.OrderTypeDelivery {
		pending := models.DeliveryStatusPending
		order.DeliveryStatus = &pending
		order.CustomerID = input.CustomerID
	} else {
		order.TableNumber = input.TableNumber
		order.CustomerID = input.CustomerID
	}
	if paymentMethod == models.PaymentMethodCash {
		order.AmountTaken = nullable(input.AmountTaken)
		order.ReturnAmount = nullable(input.ReturnAmount)
	}

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		if err := orders.LockIntake(ctx); err != nil {
			return err
		}

		if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
			_, err := orders.FindOccupyingOrder(ctx, *order.TableNumber)
			if err == nil {
				return tableOccupied(*order.TableNumber)
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
		}

		count, err := orders.CountByBusinessDate(ctx, order.BusinessDate)
		if err != nil {
			return err
		}
		order.OrderNumber = int(count) + 1

		if err := orders.Create(ctx, order); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				if order.TableNumber != nil && order.OrderType == models.OrderTypeDineIn {
					if _, findErr := orders.FindOccupyingOrder(ctx, *order.TableNumber); findErr == nil {
						return tableOccupied(*order.TableNumber)
					}
				}
				return Conflict("Order number already taken, please retry")
			}
			return err
		}

		if order.OrderType == models.OrderTypeDelivery && order.CustomerID != nil {
			return recomputeCustomerStats(ctx, tx, *order.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Int("order_number", order.OrderNumber).
		Str("order_type", string(order.OrderType)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("Order created")

	return s.GetOrderByID(ctx, order.ID)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, orderNotFound, "")
	}
	return order, nil
}

func (s *OrderService) GetOrderItems(ctx context.Context, id uuid.UUID) ([]models.OrderItem, error) {
	if _, err := s.GetOrderByID(ctx, id); err != nil {
		return nil, err
	}
	return s.orders().Items(ctx, id)
}

func (s *OrderService) GetOrderEditHistory(ctx context.Context, id uuid.UUID) ([]models.OrderEditHistory, error) {
	if _, err := s.GetOrderByID(ctx, id); err != nil {
		return nil, err
	}
	return s.orders().EditHistory(ctx, id)
}

// UpdateOrder applies a manual correction and records it in the edit history.
// The total is never recomputed from items; callers send the new total.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput, editor Editor) (*models.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	existing, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CustomerID.Set {
		if err := s.checkCustomer(ctx, input.CustomerID.ID); err != nil {
			return nil, err
		}
	}
	if len(input.Items) > 0 {
		if err := s.checkMenuItems(ctx, input.Items); err != nil {
			return nil, err
		}
	}

	paymentMethod := existing.PaymentMethod
	if input.PaymentMethod != "" {
		paymentMethod = input.PaymentMethod
	}
	newTotal := existing.TotalAmount
	if input.TotalAmount != nil {
		newTotal = models.RoundMoney(*input.TotalAmount)
	}

	updates := map[string]interface{}{
		"total_amount":   newTotal,
		"payment_method": paymentMethod,
	}
	if input.OrderType != "" {
		updates["order_type"] = input.OrderType
		if input.OrderType == models.OrderTypeDelivery && existing.DeliveryStatus == nil {
			updates["delivery_status"] = models.DeliveryStatusPending
		}
	}
	if input.PaymentStatus != "" {
		updates["payment_status"] = input.PaymentStatus
	}
	if input.DeliveryCharge != nil {
		updates["delivery_charge"] = models.RoundMoney(*input.DeliveryCharge)
	}
	if input.DeliveryAddress != nil {
		updates["delivery_address"] = *input.DeliveryAddress
	}
	if input.DeliveryNotes != nil {
		updates["delivery_notes"] = *input.DeliveryNotes
	}
	if input.TableNumber != nil {
		updates["table_number"] = *input.TableNumber
	}
	if input.SpecialInstructions != nil {
		updates["special_instructions"] = *input.SpecialInstructions
	}
	if input.CustomerID.Set {
		updates["customer_id"] = input.CustomerID.ID
	}

	newAmountTaken := existing.AmountTaken
	newReturnAmount := existing.ReturnAmount
	if paymentMethod == models.PaymentMethodCash {
		if input.AmountTaken != nil {
			newAmountTaken = nullable(input.AmountTaken)
		}
		if input.ReturnAmount != nil {
			newReturnAmount = nullable(input.ReturnAmount)
		}
	} else {
		newAmountTaken = decimal.NullDecimal{}
		newReturnAmount = decimal.NullDecimal{}
	}
	updates["amount_taken"] = newAmountTaken
	updates["return_amount"] = newReturnAmount

	newItems := []models.EditItem{}
	var replacement []models.OrderItem
	if len(input.Items) > 0 {
		replacement = toOrderItems(input.Items)
		newItems = models.EditItemsFromOrderItems(replacement)
		for i := range newItems {
			newItems[i].ID = nil
		}
	}

	editedBy := strings.TrimSpace(editor.Name)
	if editedBy == "" {
		editedBy = defaultEditor
	}
	reason := strings.TrimSpace(input.ChangeReason)
	if reason == "" {
		reason = defaultEditReason
	}
	history := &models.OrderEditHistory{
		OrderID:          id,
		EditedBy:         editedBy,
		EditedAt:         s.clock.stamp(),
		OldTotalAmount:   existing.TotalAmount,
		NewTotalAmount:   newTotal,
		OldPaymentMethod: existing.PaymentMethod,
		NewPaymentMethod: paymentMethod,
		OldAmountTaken:   existing.AmountTaken,
		NewAmountTaken:   newAmountTaken,
		OldReturnAmount:  existing.ReturnAmount,
		NewReturnAmount:  newReturnAmount,
		OldItems:         models.EditItemsFromOrderItems(existing.Items),
		NewItems:         newItems,
		ChangeReason:     reason,
		IPAddress:        editor.IPAddress,
	}

	oldCustomer := existing.CustomerID
	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		if err := orders.CreateEditHistory(ctx, history); err != nil {
			return err
		}
		if replacement != nil {
			if err := orders.ReplaceItems(ctx, id, replacement); err != nil {
				return err
			}
		}
		if err := orders.Update(ctx, id, updates); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) && input.TableNumber != nil {
				return tableOccupied(*input.TableNumber)
			}
			return err
		}

		if oldCustomer != nil {
			if err := recomputeCustomerStats(ctx, tx, *oldCustomer); err != nil {
				return err
			}
		}
		if input.CustomerID.Set && input.CustomerID.ID != nil && !sameID(oldCustomer, input.CustomerID.ID) {
			return recomputeCustomerStats(ctx, tx, *input.CustomerID.ID)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, orderNotFound, orderConflict)
	}

	log.Info().
		Str("order_id", id.String()).
		Str("edited_by", editedBy).
		Str("old_total", existing.TotalAmount.StringFixed(2)).
		Str("new_total", newTotal.StringFixed(2)).
		Msg("Order updated")

	return s.GetOrderByID(ctx, id)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MarkOrderAsPaid settles an order. A cash payment short of the total is
// accepted and leaves a negative return amount.
func (s *OrderService) MarkOrderAsPaid(ctx context.Context, id uuid.UUID, input MarkPaidInput) (*models.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusCompleted,
		"payment_method": input.PaymentMethod,
	}
	if input.PaymentMethod == models.PaymentMethodCash {
		if input.AmountTaken == nil {
			return nil, Validation("Amount taken is required for cash payments")
		}
		taken := models.RoundMoney(*input.AmountTaken)
		returned := taken.Sub(order.TotalAmount)
		if input.ReturnAmount != nil {
			returned = *input.ReturnAmount
		}
		updates["amount_taken"] = decimal.NewNullDecimal(taken)
		updates["return_amount"] = decimal.NewNullDecimal(models.RoundMoney(returned))
	} else {
		updates["amount_taken"] = decimal.NullDecimal{}
		updates["return_amount"] = decimal.NullDecimal{}
	}

	if err := s.updateWithStats(ctx, order, updates); err != nil {
		return nil, err
	}
	return s.GetOrderByID(ctx, id)
}

// UpdateOrderStatus sets any of the five order states from any state.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, Validation("Invalid order status")
	}
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.updateWithStats(ctx, order, map[string]interface{}{"order_status": status}); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", id.String()).Str("order_status", string(status)).Msg("Order status updated")
	return s.GetOrderByID(ctx, id)
}

func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, id, models.OrderStatusCancelled)
}

// UpdateDeliveryStatus moves a delivery along. Delivery completes the payment
// and stamps delivered_at once.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, Validation("Invalid delivery status")
	}
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsDelivery() {
		return nil, Validation("Only delivery orders have delivery status")
	}

	updates := map[string]interface{}{"delivery_status": status}
	if status == models.DeliveryStatusDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = s.clock.stamp()
		updates["payment_status"] = models.PaymentStatusCompleted
	}
	if err := s.updateWithStats(ctx, order, updates); err != nil {
		return nil, err
	}
	return s.GetOrderByID(ctx, id)
}

// AssignRiderToOrder attaches a rider to a delivery order.
func (s *OrderService) AssignRiderToOrder(ctx context.Context, id, riderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsDelivery() {
		return nil, Validation("Only delivery orders can have riders assigned")
	}
	if _, err := repositories.NewRiderRepository(s.db).FindByID(ctx, riderID); err != nil {
		return nil, translate(err, "Rider not found", "")
	}

	updates := map[string]interface{}{
		"rider_id":    riderID,
		"assigned_at": s.clock.stamp(),
	}
	if err := s.updateWithStats(ctx, order, updates); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", id.String()).Str("rider_id", riderID.String()).Msg("Rider assigned")
	return s.GetOrderByID(ctx, id)
}

// updateWithStats applies updates and refreshes the totals of the order's
// customer and rider, including a rider being replaced.
func (s *OrderService) updateWithStats(ctx context.Context, order *models.Order, updates map[string]interface{}) error {
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := repositories.NewOrderRepository(tx).Update(ctx, order.ID, updates); err != nil {
			return err
		}
		if !order.IsDelivery() {
			return nil
		}
		if order.CustomerID != nil {
			if err := recomputeCustomerStats(ctx, tx, *order.CustomerID); err != nil {
				return err
			}
		}
		if order.RiderID != nil {
			if err := recomputeRiderStats(ctx, tx, *order.RiderID); err != nil {
				return err
			}
		}
		if riderID, ok := updates["rider_id"].(uuid.UUID); ok && !sameID(order.RiderID, &riderID) {
			return recomputeRiderStats(ctx, tx, riderID)
		}
		return nil
	})
	if err != nil && errors.Is(err, repositories.ErrDuplicateKey) && order.TableNumber != nil {
		return tableOccupied(*order.TableNumber)
	}
	return translate(err, orderNotFound, orderConflict)
}

// GetOrders lists orders with the closed filter set, newest first.
func (s *OrderService) GetOrders(ctx context.Context, input OrderListInput) (*OrderList, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	filter := repositories.OrderFilter{
		OrderType:      input.OrderType,
		PaymentStatus:  input.PaymentStatus,
		OrderStatus:    input.OrderStatus,
		DeliveryStatus: input.DeliveryStatus,
		Search:         input.Search,
		Pagination:     repositories.Pagination{Page: input.Page, Limit: input.Limit},
	}
	rng, err := OptionalDateRange(DateRangeQuery{Start: input.StartDate, End: input.EndDate}, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	filter.Range = rng.timeRange()

	orders, total, err := s.orders().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderList{Orders: orders, Pagination: newPage(filter.Pagination, total)}, nil
}

// PaymentListInput filters dine-in and delivery boards.
type PaymentListInput struct {
	Status models.PaymentStatus `form:"status" binding:"omitempty,oneof=pending completed"`
	DateRangeQuery
}

func (s *OrderService) GetDineInOrders(ctx context.Context, input PaymentListInput) ([]models.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	rng, err := OptionalDateRange(input.DateRangeQuery, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().ListDineIn(ctx, input.Status, rng.timeRange())
}

func (s *OrderService) GetDeliveryOrders(ctx context.Context, input PaymentListInput) ([]models.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	rng, err := OptionalDateRange(input.DateRangeQuery, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().ListDelivery(ctx, input.Status, rng.timeRange())
}

// GetDineInStats covers all time unless a period is given.
func (s *OrderService) GetDineInStats(ctx context.Context, q DateRangeQuery) (*repositories.DineInStats, error) {
	rng, err := OptionalDateRange(q, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().DineInStats(ctx, rng.timeRange())
}

func (s *OrderService) GetDeliveryStats(ctx context.Context, q DateRangeQuery) (*repositories.DeliveryStats, error) {
	rng, err := OptionalDateRange(q, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().DeliveryStats(ctx, rng.timeRange())
}

func (s *OrderService) GetOrderStatistics(ctx context.Context, q DateRangeQuery) (*repositories.OrderStatistics, error) {
	rng, err := ResolveDateRange(q, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().Statistics(ctx, rng.TimeRange())
}

func (s *OrderService) GetItemsSalesReport(ctx context.Context, q DateRangeQuery) ([]repositories.ItemSales, error) {
	rng, err := ResolveDateRange(q, s.clock.now(), s.clock.location())
	if err != nil {
		return nil, err
	}
	return s.orders().ItemsSales(ctx, rng.TimeRange())
}

func (s *OrderService) GetTableAvailability(ctx context.Context) ([]repositories.OccupiedTable, error) {
	return s.orders().OccupiedTables(ctx)
}
