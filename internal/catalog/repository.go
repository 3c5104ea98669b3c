package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindUnitByBarcode loads the sellable unit for a barcode together with its
// parent product. Inactive products are excluded so discontinued stock cannot
// be scanned.
func (r *Repository) FindUnitByBarcode(ctx context.Context, barcode string) (*models.ProductUnit, *models.Product, error) {
	var unit models.ProductUnit
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_units.product_id").
		Where("product_units.barcode = ? AND products.is_active", barcode).
		First(&unit).Error
	if err != nil {
		return nil, nil, err
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", unit.ProductID).Error; err != nil {
		return nil, nil, err
	}
	return &unit, &product, nil
}

// SearchProducts matches active products by title, SKU or unit barcode. The
// query is matched case-insensitively as a prefix or substring.
func (r *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Units").
		Where("is_active").
		Where(
			r.db.Where("LOWER(title) LIKE ?", pattern).
				Or("LOWER(sku) LIKE ?", pattern).
				Or("id IN (?)", r.db.Model(&models.ProductUnit{}).
					Select("product_id").
					Where("barcode LIKE ?", pattern)),
		).
		Order("title ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
