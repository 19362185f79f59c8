package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EditItem is the serialized form of an order line kept in the edit history.
type EditItem struct {
	ID         *uuid.UUID      `json:"id,omitempty"`
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// OrderEditHistory is append-only.
type OrderEditHistory struct {
	ID               uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          uuid.UUID                     `gorm:"type:uuid;not null;index" json:"order_id"`
	Order            *Order                        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	EditedBy         string                        `gorm:"type:varchar(100);not null" json:"edited_by"`
	EditedAt         time.Time                     `gorm:"not null;index" json:"edited_at"`
	OldTotalAmount   decimal.Decimal               `gorm:"type:decimal(10,2);not null" json:"old_total_amount"`
	NewTotalAmount   decimal.Decimal               `gorm:"type:decimal(10,2);not null" json:"new_total_amount"`
	OldPaymentMethod PaymentMethod                 `gorm:"type:varchar(20)" json:"old_payment_method"`
	NewPaymentMethod PaymentMethod                 `gorm:"type:varchar(20)" json:"new_payment_method"`
	OldAmountTaken   decimal.NullDecimal           `gorm:"type:decimal(10,2)" json:"old_amount_taken"`
	NewAmountTaken   decimal.NullDecimal           `gorm:"type:decimal(10,2)" json:"new_amount_taken"`
	OldReturnAmount  decimal.NullDecimal           `gorm:"type:decimal(10,2)" json:"old_return_amount"`
	NewReturnAmount  decimal.NullDecimal           `gorm:"type:decimal(10,2)" json:"new_return_amount"`
	OldItems         datatypes.JSONSlice[EditItem] `json:"old_items"`
	NewItems         datatypes.JSONSlice[EditItem] `json:"new_items"`
	ChangeReason     string                        `gorm:"type:text" json:"change_reason"`
	IPAddress        string                        `gorm:"type:varchar(64)" json:"ip_address"`
}

func (OrderEditHistory) TableName() string {
	return "order_edit_history"
}

func (h *OrderEditHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.EditedAt.IsZero() {
		h.EditedAt = time.Now().UTC()
	}
	return nil
}

// EditItemsFromOrderItems snapshots persisted order lines.
func EditItemsFromOrderItems(items []OrderItem) []EditItem {
	out := make([]EditItem, 0, len(items))
	for _, item := range items {
		id := item.ID
		out = append(out, EditItem{
			ID:         &id,
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return out
}
