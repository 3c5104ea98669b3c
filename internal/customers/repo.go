package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindByID loads one customer.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// SearchCustomers matches customers by name, email or phone.
func (r *repository) SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where(
			r.db.Where("LOWER(name) LIKE ?", pattern).
				Or("LOWER(email) LIKE ?", pattern).
				Or("phone LIKE ?", pattern),
		).
		Order("name ASC").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// ListWalletEntries returns the most recent wallet movements, newest first.
func (r *repository) ListWalletEntries(ctx context.Context, customerID uuid.UUID, limit int) ([]models.WalletEntry, error) {
	var entries []models.WalletEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AdjustWalletBalance applies a signed delta to the customer balance and
// returns the balance after the update. The increment happens in SQL so
// concurrent registers cannot lose each other's writes.
func (r *repository) AdjustWalletBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	tx := r.db.WithContext(ctx)
	res := tx.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, gorm.ErrRecordNotFound
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		return decimal.Zero, err
	}
	return customer.WalletBalance, nil
}

// CreateWalletEntry appends one audit row.
func (r *repository) CreateWalletEntry(ctx context.Context, entry *models.WalletEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
