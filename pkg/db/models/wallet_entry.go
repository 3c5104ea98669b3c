package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
)

// WalletEntry is the append-only audit trail behind Customer.WalletBalance.
// Amount is the signed delta applied to the balance.
type WalletEntry struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderID      *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	Type         enums.WalletEntryType `gorm:"column:type;type:wallet_entry_type_enum;not null"`
	Amount       decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	BalanceAfter decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
