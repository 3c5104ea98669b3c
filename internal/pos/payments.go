package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

// PaymentEntry is one payment recorded against the session.
type PaymentEntry struct {
	ID        uuid.UUID
	Method    enums.PaymentMethod
	Amount    decimal.Decimal
	Reference *string
}

// PaymentLimits carries the method caps in force when an entry is added.
// AvailableCredit is the customer's prepaid balance; RemainingOwed is
// max(0, orderTotal + priorDue - totalPaidSoFar) at entry time.
type PaymentLimits struct {
	AvailableCredit decimal.Decimal
	RemainingOwed   decimal.Decimal
}

// Ledger accumulates payment entries for one order session.
type Ledger struct {
	entries []PaymentEntry
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AddPayment validates and appends an entry. Amount must be positive.
// Wallet entries may not exceed the available credit; bank entries may not
// exceed what is still owed. Cash and card are uncapped so the register can
// hand back physical change.
func (l *Ledger) AddPayment(method enums.PaymentMethod, amount decimal.Decimal, reference *string, limits PaymentLimits) (*PaymentEntry, error) {
	if !method.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment method %q", method)
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "payment amount must be greater than zero")
	}

	if method.CappedAtRemainder() {
		limit, limitName := limits.RemainingOwed, "remaining owed"
		if method == enums.PaymentMethodWallet {
			limit, limitName = limits.AvailableCredit, "available credit"
		}
		if amount.GreaterThan(limit) {
			return nil, pkgerrors.
				Newf(pkgerrors.CodeLimitExceeded, "%s payment exceeds %s %s", method, limitName, limit.StringFixed(2)).
				WithDetails(map[string]any{"cap": limit.StringFixed(2)})
		}
	}

	entry := PaymentEntry{
		ID:        uuid.New(),
		Method:    method,
		Amount:    amount,
		Reference: reference,
	}
	l.entries = append(l.entries, entry)
	return &entry, nil
}

// RemovePayment deletes the entry with the given id.
func (l *Ledger) RemovePayment(id uuid.UUID) error {
	for i, entry := range l.entries {
		if entry.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "payment entry not found")
}

// Clear removes every entry.
func (l *Ledger) Clear() {
	l.entries = nil
}

// TotalPaid sums every entry.
func (l *Ledger) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range l.entries {
		total = total.Add(entry.Amount)
	}
	return total
}

// Entries returns the payments in the order they were added.
func (l *Ledger) Entries() []PaymentEntry {
	out := make([]PaymentEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
