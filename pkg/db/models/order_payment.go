package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
)

// OrderPayment is one settled payment entry on an order.
type OrderPayment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method    enums.PaymentMethod `gorm:"column:method;type:payment_method_enum;not null"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Reference *string             `gorm:"column:reference"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
