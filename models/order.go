package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type DeliveryStatus string

const (
	DeliveryStatusPending        DeliveryStatus = "pending"
	DeliveryStatusPreparing      DeliveryStatus = "preparing"
	DeliveryStatusReady          DeliveryStatus = "ready"
	DeliveryStatusOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
	DeliveryStatusCancelled      DeliveryStatus = "cancelled"
)

// Order is one customer transaction. OrderNumber restarts every business day;
// the pair (BusinessDate, OrderNumber) is unique.
type Order struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber         int                 `gorm:"not null;uniqueIndex:idx_orders_business_day_number,priority:2" json:"order_number"`
	BusinessDate        string              `gorm:"type:varchar(10);not null;uniqueIndex:idx_orders_business_day_number,priority:1" json:"business_date"`
	OrderType           OrderType           `gorm:"type:varchar(20);not null;index" json:"order_type"`
	OrderStatus         OrderStatus         `gorm:"type:varchar(20);not null;index" json:"order_status"`
	PaymentStatus       PaymentStatus       `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentMethod       PaymentMethod       `gorm:"type:varchar(20);not null" json:"payment_method"`
	DeliveryStatus      *DeliveryStatus     `gorm:"type:varchar(20)" json:"delivery_status"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountPercent     decimal.Decimal     `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	DeliveryCharge      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"delivery_charge"`
	TotalAmount         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	AmountTaken         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"amount_taken"`
	ReturnAmount        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"return_amount"`
	TableNumber         *int                `gorm:"index" json:"table_number"`
	DeliveryAddress     *string             `gorm:"type:text" json:"delivery_address"`
	DeliveryNotes       *string             `gorm:"type:text" json:"delivery_notes"`
	SpecialInstructions *string             `gorm:"type:text" json:"special_instructions"`
	CashierName         string              `gorm:"type:varchar(100)" json:"cashier_name"`
	CustomerID          *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id"`
	Customer            *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	RiderID             *uuid.UUID          `gorm:"type:uuid;index" json:"rider_id"`
	Rider               *Rider              `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
	AssignedAt          *time.Time          `json:"assigned_at"`
	DeliveredAt         *time.Time          `json:"delivered_at"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt           time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// OrderItem carries the price captured when the order was taken.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if !o.CreatedAt.IsZero() {
		o.CreatedAt = o.CreatedAt.UTC()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsDelivery reports whether the order goes out with a rider.
func (o *Order) IsDelivery() bool {
	return o.OrderType == OrderTypeDelivery
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusPreparing, DeliveryStatusReady,
		DeliveryStatusOutForDelivery, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}
