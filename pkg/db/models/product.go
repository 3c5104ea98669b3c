package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog listing. Pricing lives on ProductUnit so that the
// same listing can carry several sellable unit sizes, each with its own
// barcode.
type Product struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title      string        `gorm:"column:title;not null"`
	SKU        string        `gorm:"column:sku;not null"`
	Category   *string       `gorm:"column:category"`
	StockCount int           `gorm:"column:stock_count;not null;default:0"`
	IsActive   bool          `gorm:"column:is_active;not null;default:true"`
	Units      []ProductUnit `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
