package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

// CustomerDTO is the search payload returned to the register.
type CustomerDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	LoyaltyPoints int             `json:"loyalty_points"`
}

// WalletDTO carries the signed balance plus the two derived views the
// register displays: outstanding due and spendable credit.
type WalletDTO struct {
	CustomerID      uuid.UUID        `json:"customer_id"`
	Balance         decimal.Decimal  `json:"balance"`
	PriorDue        decimal.Decimal  `json:"prior_due"`
	AvailableCredit decimal.Decimal  `json:"available_credit"`
	Entries         []WalletEntryDTO `json:"entries"`
}

// WalletEntryDTO is one movement in the wallet audit trail.
type WalletEntryDTO struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toCustomerDTO(customer models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:            customer.ID,
		Name:          customer.Name,
		Email:         customer.Email,
		Phone:         customer.Phone,
		WalletBalance: customer.WalletBalance,
		LoyaltyPoints: customer.LoyaltyPoints,
	}
}

func toWalletEntryDTO(entry models.WalletEntry) WalletEntryDTO {
	return WalletEntryDTO{
		ID:           entry.ID,
		OrderID:      entry.OrderID,
		Type:         entry.Type.String(),
		Amount:       entry.Amount,
		BalanceAfter: entry.BalanceAfter,
		CreatedAt:    entry.CreatedAt,
	}
}
