package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreated is the data section of an order_created event.
type OrderCreated struct {
	OrderID          uuid.UUID       `json:"orderId"`
	CustomerID       *uuid.UUID      `json:"customerId,omitempty"`
	Status           string          `json:"status"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Total            decimal.Decimal `json:"total"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	AmountDue        decimal.Decimal `json:"amountDue"`
	ChangeAmount     decimal.Decimal `json:"changeAmount"`
	WalletAdjustment decimal.Decimal `json:"walletAdjustment"`
	LineCount        int             `json:"lineCount"`
	PaymentMethods   []string        `json:"paymentMethods"`
}

// WalletAdjusted is the data section of a wallet_adjusted event.
type WalletAdjusted struct {
	CustomerID   uuid.UUID       `json:"customerId"`
	OrderID      *uuid.UUID      `json:"orderId,omitempty"`
	EntryType    string          `json:"entryType"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}
