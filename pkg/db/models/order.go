package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
)

// Order persists a finalized register transaction together with the
// reconciliation outcome that was shown to the operator at submit time.
type Order struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       *uuid.UUID         `gorm:"column:customer_id;type:uuid;index"`
	Status           enums.OrderStatus  `gorm:"column:status;type:order_status_enum;not null;default:'completed'"`
	Subtotal         decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountKind     enums.DiscountKind `gorm:"column:discount_kind;type:discount_kind_enum;not null;default:'fixed'"`
	DiscountValue    decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null;default:0"`
	Total            decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	TotalPaid        decimal.Decimal    `gorm:"column:total_paid;type:numeric(12,2);not null"`
	AmountDue        decimal.Decimal    `gorm:"column:amount_due;type:numeric(12,2);not null"`
	ChangeAmount     decimal.Decimal    `gorm:"column:change_amount;type:numeric(12,2);not null"`
	WalletAdjustment decimal.Decimal    `gorm:"column:wallet_adjustment;type:numeric(12,2);not null;default:0"`
	Note             *string            `gorm:"column:note"`
	SendReceiptEmail bool               `gorm:"column:send_receipt_email;not null;default:false"`
	LineItems        []OrderLineItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments         []OrderPayment     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
