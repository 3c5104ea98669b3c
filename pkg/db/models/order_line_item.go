package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderLineItem snapshots one product line of an order. Barcodes records the
// physical units scanned; quantity always equals len(Barcodes).
type OrderLineItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	UnitLabel     string           `gorm:"column:unit_label;not null"`
	Barcodes      pq.StringArray   `gorm:"column:barcodes;type:text[];not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	OverridePrice *decimal.Decimal `gorm:"column:override_price;type:numeric(12,2)"`
	LineTotal     decimal.Decimal  `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
}
