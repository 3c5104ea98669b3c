package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUnit is one scannable unit of a product: a unique barcode with the
// price charged per physical unit.
type ProductUnit struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Barcode   string          `gorm:"column:barcode;not null;uniqueIndex:ux_product_units_barcode"`
	UnitLabel string          `gorm:"column:unit_label;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
