package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

// ProductDTO is the catalog lookup payload returned to the register.
type ProductDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	SKU        string    `json:"sku"`
	Category   *string   `json:"category,omitempty"`
	StockCount int       `json:"stock_count"`
	Units      []UnitDTO `json:"units"`
}

// UnitDTO is one scannable unit of a product.
type UnitDTO struct {
	ID        uuid.UUID       `json:"id"`
	Barcode   string          `json:"barcode"`
	UnitLabel string          `json:"unit_label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func toProductDTO(product models.Product) ProductDTO {
	units := make([]UnitDTO, 0, len(product.Units))
	for _, unit := range product.Units {
		units = append(units, UnitDTO{
			ID:        unit.ID,
			Barcode:   unit.Barcode,
			UnitLabel: unit.UnitLabel,
			UnitPrice: unit.UnitPrice,
		})
	}
	return ProductDTO{
		ID:         product.ID,
		Title:      product.Title,
		SKU:        product.SKU,
		Category:   product.Category,
		StockCount: product.StockCount,
		Units:      units,
	}
}
