package pos

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

// WalletOutcome names the reconciliation branch that produced the adjustment,
// so logs and results do not rely on the sign alone.
type WalletOutcome string

const (
	WalletOutcomeNone       WalletOutcome = "none"
	WalletOutcomeDue        WalletOutcome = "due"
	WalletOutcomeCredit     WalletOutcome = "credit"
	WalletOutcomeSettlement WalletOutcome = "settlement"
)

// ReconcileInput is everything the reconciliation policy reads. It is built
// fresh from session state on every evaluation; the policy itself holds no
// state.
type ReconcileInput struct {
	OrderTotal decimal.Decimal
	PriorDue   decimal.Decimal
	TotalPaid  decimal.Decimal
	CartEmpty  bool

	// Operator intents. The UI keeps these mutually exclusive; Reconcile
	// still enforces precedence in case it is handed conflicting flags.
	CreateFullDue      bool
	AddRemainderAsDue  bool
	BankChangeAsCredit bool
	CreditPortion      decimal.Decimal
}

// Result is the derived due/change/wallet outcome for one evaluation.
type Result struct {
	AmountDue        decimal.Decimal
	ChangeAmount     decimal.Decimal
	WalletAdjustment decimal.Decimal
	Outcome          WalletOutcome
}

// Reconcile computes the outcome of an order session. Precedence, first
// match wins:
//
//  1. createFullDue: the whole total (sale plus prior due) becomes wallet
//     debt; payments are bypassed and due/change are zero by convention.
//  2. pure due payment: no cart, existing due, money tendered - every unit
//     paid moves the balance up toward zero, so the adjustment is positive.
//  3. addRemainderAsDue with a positive due: the uncovered remainder becomes
//     wallet debt.
//  4. bankChangeAsCredit with positive change: the chosen portion of the
//     change is credited; the rest is handed back physically.
//  5. otherwise no wallet mutation.
func Reconcile(in ReconcileInput) Result {
	owed := in.OrderTotal.Add(in.PriorDue)

	if in.CreateFullDue {
		return Result{
			AmountDue:        decimal.Zero,
			ChangeAmount:     decimal.Zero,
			WalletAdjustment: owed.Neg(),
			Outcome:          WalletOutcomeDue,
		}
	}

	res := Result{
		AmountDue:    clampNonNegative(owed.Sub(in.TotalPaid)),
		ChangeAmount: clampNonNegative(in.TotalPaid.Sub(owed)),
		Outcome:      WalletOutcomeNone,
	}
	res.WalletAdjustment = decimal.Zero

	switch {
	case in.PriorDue.IsPositive() && in.CartEmpty && in.TotalPaid.IsPositive():
		res.WalletAdjustment = in.TotalPaid
		res.Outcome = WalletOutcomeSettlement

	case in.AddRemainderAsDue && res.AmountDue.IsPositive():
		res.WalletAdjustment = res.AmountDue.Neg()
		res.Outcome = WalletOutcomeDue

	case in.BankChangeAsCredit && res.ChangeAmount.IsPositive():
		portion := in.CreditPortion
		if portion.GreaterThan(res.ChangeAmount) {
			portion = res.ChangeAmount
		}
		if portion.IsNegative() {
			portion = decimal.Zero
		}
		res.WalletAdjustment = portion
		if portion.IsPositive() {
			res.Outcome = WalletOutcomeCredit
		}
	}

	return res
}

// ValidateSubmission is the gate run before an order may be finalized. It
// rejects sessions where nothing is sold and nothing is paid down, and
// sessions whose sale total is neither covered, deferred, nor in the pure
// change path - an uncovered balance must never slip through silently.
func ValidateSubmission(in ReconcileInput) error {
	if in.CartEmpty && !(in.PriorDue.IsPositive() && in.TotalPaid.IsPositive()) {
		return pkgerrors.New(pkgerrors.CodeIncompleteCoverage, "nothing to sell and nothing to pay down")
	}

	if in.CreateFullDue {
		return nil
	}

	covered := !in.TotalPaid.LessThan(in.OrderTotal)
	if covered || in.AddRemainderAsDue {
		return nil
	}

	res := Reconcile(in)
	if in.BankChangeAsCredit && res.ChangeAmount.IsPositive() {
		return nil
	}

	return pkgerrors.
		New(pkgerrors.CodeIncompleteCoverage, "order total is not covered; collect payment or record the remainder as a due").
		WithDetails(map[string]any{"amount_due": res.AmountDue.StringFixed(2)})
}

func clampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
