package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/internal/pos"
	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

const (
	defaultSearchLimit = 20
	walletEntryLimit   = 25
)

// Service exposes customer lookups for the register.
type Service interface {
	Search(ctx context.Context, query string, limit int) ([]CustomerDTO, error)
	GetWallet(ctx context.Context, customerID uuid.UUID) (*WalletDTO, error)
	Snapshot(ctx context.Context, customerID uuid.UUID) (*pos.CustomerSnapshot, error)
}

type customerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error)
	ListWalletEntries(ctx context.Context, customerID uuid.UUID, limit int) ([]models.WalletEntry, error)
}

// service implements the customer service.
type service struct {
	repo customerReader
}

// NewService constructs a customer service instance.
func NewService(repo customerReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// Search matches customers by name, email or phone.
func (s *service) Search(ctx context.Context, query string, limit int) ([]CustomerDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	customers, err := s.repo.SearchCustomers(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching customers")
	}

	results := make([]CustomerDTO, 0, len(customers))
	for _, customer := range customers {
		results = append(results, toCustomerDTO(customer))
	}
	return results, nil
}

// GetWallet returns the signed balance, its derived views and the recent
// audit trail.
func (s *service) GetWallet(ctx context.Context, customerID uuid.UUID) (*WalletDTO, error) {
	customer, err := s.findCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListWalletEntries(ctx, customerID, walletEntryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wallet entries")
	}

	snapshot := pos.CustomerSnapshot{WalletBalance: customer.WalletBalance}
	wallet := &WalletDTO{
		CustomerID:      customer.ID,
		Balance:         customer.WalletBalance,
		PriorDue:        snapshot.PriorDue(),
		AvailableCredit: snapshot.AvailableCredit(),
		Entries:         make([]WalletEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		wallet.Entries = append(wallet.Entries, toWalletEntryDTO(entry))
	}
	return wallet, nil
}

// Snapshot reads the wallet state a session is opened with.
func (s *service) Snapshot(ctx context.Context, customerID uuid.UUID) (*pos.CustomerSnapshot, error) {
	customer, err := s.findCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &pos.CustomerSnapshot{
		ID:            customer.ID,
		Name:          customer.Name,
		WalletBalance: customer.WalletBalance,
		LoyaltyPoints: customer.LoyaltyPoints,
		WalletKnown:   true,
	}, nil
}

func (s *service) findCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}
