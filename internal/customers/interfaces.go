package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

// Repository defines persistence operations for customers and their wallets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error)
	ListWalletEntries(ctx context.Context, customerID uuid.UUID, limit int) ([]models.WalletEntry, error)
	AdjustWalletBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	CreateWalletEntry(ctx context.Context, entry *models.WalletEntry) error
}
