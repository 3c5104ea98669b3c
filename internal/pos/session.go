package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

// CustomerSnapshot is the wallet state read once when the customer is
// attached to the session. The balance is signed: negative is debt owed to
// the shop, positive is prepaid credit. WalletKnown is false when the wallet
// fetch failed; wallet-dependent options stay disabled until it is resolved.
type CustomerSnapshot struct {
	ID            uuid.UUID
	Name          string
	WalletBalance decimal.Decimal
	LoyaltyPoints int
	WalletKnown   bool
}

// PriorDue is the debt portion of the balance: max(0, -balance).
func (c CustomerSnapshot) PriorDue() decimal.Decimal {
	if c.WalletBalance.IsNegative() {
		return c.WalletBalance.Neg()
	}
	return decimal.Zero
}

// AvailableCredit is the prepaid portion of the balance: max(0, balance).
func (c CustomerSnapshot) AvailableCredit() decimal.Decimal {
	if c.WalletBalance.IsPositive() {
		return c.WalletBalance
	}
	return decimal.Zero
}

// Intents are the operator's wallet choices for the current session.
type Intents struct {
	CreateFullDue      bool
	AddRemainderAsDue  bool
	BankChangeAsCredit bool
	CreditPortion      decimal.Decimal
}

// Session is one order-creation workflow instance: cart, discount, payment
// ledger and the customer wallet snapshot, mutated synchronously by operator
// actions and discarded on submit or cancel. It is not safe for concurrent
// use and is never shared across workflows.
type Session struct {
	catalog  CatalogResolver
	cart     *Cart
	discount Discount
	ledger   *Ledger
	customer *CustomerSnapshot
	intents  Intents
}

// NewSession opens a session. customer may be nil for a walk-in sale.
func NewSession(catalog CatalogResolver, customer *CustomerSnapshot) (*Session, error) {
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog resolver required")
	}
	return &Session{
		catalog:  catalog,
		cart:     NewCart(),
		discount: NoDiscount(),
		ledger:   NewLedger(),
		customer: customer,
	}, nil
}

// Cart exposes the aggregated line items.
func (s *Session) Cart() *Cart {
	return s.cart
}

// Payments exposes the payment ledger entries.
func (s *Session) Payments() []PaymentEntry {
	return s.ledger.Entries()
}

// Customer returns the attached snapshot, or nil for a walk-in.
func (s *Session) Customer() *CustomerSnapshot {
	return s.customer
}

// Discount returns the order-level discount currently applied.
func (s *Session) Discount() Discount {
	return s.discount
}

// OrderTotal is the discounted subtotal.
func (s *Session) OrderTotal() decimal.Decimal {
	return s.discount.Apply(s.cart.Subtotal())
}

// AddScan resolves the barcode through the catalog and records it on the
// cart. A failed lookup leaves the cart unchanged.
func (s *Session) AddScan(ctx context.Context, barcode string) (*LineItem, error) {
	ref, err := s.catalog.ResolveBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return s.cart.AddScan(*ref), nil
}

// SetOverridePrice delegates to the cart.
func (s *Session) SetOverridePrice(productID uuid.UUID, price decimal.Decimal) error {
	return s.cart.SetOverridePrice(productID, price)
}

// RemoveLine delegates to the cart.
func (s *Session) RemoveLine(productID uuid.UUID) error {
	return s.cart.RemoveLine(productID)
}

// SetDiscount replaces the order-level discount.
func (s *Session) SetDiscount(d Discount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.discount = d
	return nil
}

// SetIntents replaces the operator wallet intents. Wallet-dependent intents
// require a customer with a known balance.
func (s *Session) SetIntents(intents Intents) error {
	if intents.CreateFullDue || intents.AddRemainderAsDue || intents.BankChangeAsCredit {
		if err := s.requireWallet(); err != nil {
			return err
		}
	}
	if intents.CreditPortion.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit portion cannot be negative")
	}
	s.intents = intents
	return nil
}

// AddPayment validates the entry against the caps in force right now and
// appends it to the ledger.
func (s *Session) AddPayment(method enums.PaymentMethod, amount decimal.Decimal, reference *string) (*PaymentEntry, error) {
	if method == enums.PaymentMethodWallet {
		if err := s.requireWallet(); err != nil {
			return nil, err
		}
	}
	return s.ledger.AddPayment(method, amount, reference, s.limits())
}

// RemovePayment deletes one ledger entry.
func (s *Session) RemovePayment(id uuid.UUID) error {
	return s.ledger.RemovePayment(id)
}

// ClearPayments empties the ledger.
func (s *Session) ClearPayments() {
	s.ledger.Clear()
}

// Evaluate recomputes the reconciliation result from current state. It is
// pure and idempotent; callers invoke it after every mutation.
func (s *Session) Evaluate() Result {
	return Reconcile(s.reconcileInput())
}

// ValidateForSubmission runs the submission gate against current state.
func (s *Session) ValidateForSubmission() error {
	return ValidateSubmission(s.reconcileInput())
}

func (s *Session) priorDue() decimal.Decimal {
	if s.customer == nil || !s.customer.WalletKnown {
		return decimal.Zero
	}
	return s.customer.PriorDue()
}

func (s *Session) availableCredit() decimal.Decimal {
	if s.customer == nil || !s.customer.WalletKnown {
		return decimal.Zero
	}
	return s.customer.AvailableCredit()
}

func (s *Session) requireWallet() error {
	if s.customer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "a customer is required for wallet operations")
	}
	if !s.customer.WalletKnown {
		return pkgerrors.New(pkgerrors.CodeDependency, "customer wallet balance is unknown")
	}
	return nil
}

func (s *Session) limits() PaymentLimits {
	orderTotal := s.discount.Apply(s.cart.Subtotal())
	owed := orderTotal.Add(s.priorDue()).Sub(s.ledger.TotalPaid())
	return PaymentLimits{
		AvailableCredit: s.availableCredit(),
		RemainingOwed:   clampNonNegative(owed),
	}
}

func (s *Session) reconcileInput() ReconcileInput {
	return ReconcileInput{
		OrderTotal:         s.discount.Apply(s.cart.Subtotal()),
		PriorDue:           s.priorDue(),
		TotalPaid:          s.ledger.TotalPaid(),
		CartEmpty:          s.cart.IsEmpty(),
		CreateFullDue:      s.intents.CreateFullDue,
		AddRemainderAsDue:  s.intents.AddRemainderAsDue,
		BankChangeAsCredit: s.intents.BankChangeAsCredit,
		CreditPortion:      s.intents.CreditPortion,
	}
}

// Submission is the request handed to the order submission service once the
// gate passes.
type Submission struct {
	CustomerID       *uuid.UUID
	LineItems        []*LineItem
	Discount         Discount
	Payments         []PaymentEntry
	Result           Result
	Subtotal         decimal.Decimal
	OrderTotal       decimal.Decimal
	Note             *string
	IsDraft          bool
	SendReceiptEmail bool
}

// BuildSubmission validates the gate and packages current state for the
// order submission service. The session itself is left untouched so the
// operator can correct inputs if the submission fails downstream.
func (s *Session) BuildSubmission(note *string, isDraft, sendReceiptEmail bool) (*Submission, error) {
	if err := s.ValidateForSubmission(); err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if s.customer != nil {
		id := s.customer.ID
		customerID = &id
	}

	return &Submission{
		CustomerID:       customerID,
		LineItems:        s.cart.Lines(),
		Discount:         s.discount,
		Payments:         s.ledger.Entries(),
		Result:           s.Evaluate(),
		Subtotal:         s.cart.Subtotal(),
		OrderTotal:       s.discount.Apply(s.cart.Subtotal()),
		Note:             note,
		IsDraft:          isDraft,
		SendReceiptEmail: sendReceiptEmail,
	}, nil
}
