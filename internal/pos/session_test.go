package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

type fakeCatalog struct {
	units map[string]ProductRef
}

func (f *fakeCatalog) ResolveBarcode(ctx context.Context, barcode string) (*ProductRef, error) {
	ref, ok := f.units[barcode]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product matches the scanned barcode")
	}
	return &ref, nil
}

func catalogWith(refs ...ProductRef) *fakeCatalog {
	units := map[string]ProductRef{}
	for _, ref := range refs {
		units[ref.Barcode] = ref
	}
	return &fakeCatalog{units: units}
}

func snapshot(balance string) *CustomerSnapshot {
	return &CustomerSnapshot{
		ID:            uuid.New(),
		Name:          "tester",
		WalletBalance: money(balance),
		WalletKnown:   true,
	}
}

func TestSessionScanFlow(t *testing.T) {
	productID := uuid.New()
	catalog := catalogWith(
		unitRef(productID, "111", "10.00"),
		unitRef(productID, "222", "10.00"),
	)
	sess, err := NewSession(catalog, nil)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}

	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}
	line, err := sess.AddScan(context.Background(), "222")
	if err != nil {
		t.Fatalf("AddScan error: %v", err)
	}
	if line.Quantity() != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity())
	}

	if _, err := sess.AddScan(context.Background(), "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown barcode should be not found, got %v", err)
	}
	if got := sess.Cart().Subtotal(); !got.Equal(money("20.00")) {
		t.Fatalf("failed lookup must leave the cart unchanged, subtotal %s", got)
	}
}

func TestSessionWalletSnapshotViews(t *testing.T) {
	debtor := snapshot("-200")
	if !debtor.PriorDue().Equal(money("200")) || !debtor.AvailableCredit().Equal(decimal.Zero) {
		t.Fatalf("debt balance views wrong: due=%s credit=%s", debtor.PriorDue(), debtor.AvailableCredit())
	}

	creditor := snapshot("150")
	if !creditor.AvailableCredit().Equal(money("150")) || !creditor.PriorDue().Equal(decimal.Zero) {
		t.Fatalf("credit balance views wrong: due=%s credit=%s", creditor.PriorDue(), creditor.AvailableCredit())
	}

	// exactly one of the two views is nonzero for any balance
	for _, balance := range []string{"-500", "-0.01", "0", "0.01", "500"} {
		s := snapshot(balance)
		if s.PriorDue().IsPositive() && s.AvailableCredit().IsPositive() {
			t.Fatalf("balance %s: due and credit are mutually exclusive", balance)
		}
	}
}

func TestSessionWalletPaymentNeedsKnownBalance(t *testing.T) {
	catalog := catalogWith()
	walkIn, _ := NewSession(catalog, nil)
	if _, err := walkIn.AddPayment(enums.PaymentMethodWallet, money("10"), nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("walk-in wallet payment should be rejected, got %v", err)
	}

	unknown := snapshot("100")
	unknown.WalletKnown = false
	sess, _ := NewSession(catalog, unknown)
	if _, err := sess.AddPayment(enums.PaymentMethodWallet, money("10"), nil); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("unknown wallet balance should disable wallet payments, got %v", err)
	}
	if err := sess.SetIntents(Intents{CreateFullDue: true}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("unknown wallet balance should disable due intents, got %v", err)
	}
}

func TestSessionEvaluateRecomputesFreshEachTime(t *testing.T) {
	productID := uuid.New()
	catalog := catalogWith(unitRef(productID, "111", "300.00"))
	sess, _ := NewSession(catalog, snapshot("-200"))

	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}

	res := sess.Evaluate()
	if !res.AmountDue.Equal(money("500")) {
		t.Fatalf("expected due 500 (sale 300 + prior due 200), got %s", res.AmountDue)
	}

	if _, err := sess.AddPayment(enums.PaymentMethodCash, money("700"), nil); err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}

	res = sess.Evaluate()
	if !res.AmountDue.Equal(decimal.Zero) || !res.ChangeAmount.Equal(money("200")) {
		t.Fatalf("unexpected result after payment: %+v", res)
	}
}

func TestSessionBankPaymentCapTracksRemainingOwed(t *testing.T) {
	productID := uuid.New()
	catalog := catalogWith(unitRef(productID, "111", "100.00"))
	sess, _ := NewSession(catalog, nil)
	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}

	if _, err := sess.AddPayment(enums.PaymentMethodCash, money("60"), nil); err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}
	// only 40 is still owed, so a 50 bank transfer must be rejected
	if _, err := sess.AddPayment(enums.PaymentMethodBank, money("50"), nil); !pkgerrors.IsCode(err, pkgerrors.CodeLimitExceeded) {
		t.Fatalf("bank payment above remainder should be rejected, got %v", err)
	}
	if _, err := sess.AddPayment(enums.PaymentMethodBank, money("40"), nil); err != nil {
		t.Fatalf("bank payment at the remainder should pass, got %v", err)
	}
}

func TestSessionBuildSubmission(t *testing.T) {
	productID := uuid.New()
	catalog := catalogWith(
		unitRef(productID, "111", "500.00"),
	)
	customer := snapshot("-200")
	sess, _ := NewSession(catalog, customer)

	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}
	if _, err := sess.AddPayment(enums.PaymentMethodCard, money("700"), nil); err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}

	note := "regular"
	sub, err := sess.BuildSubmission(&note, false, true)
	if err != nil {
		t.Fatalf("BuildSubmission error: %v", err)
	}
	if sub.CustomerID == nil || *sub.CustomerID != customer.ID {
		t.Fatalf("submission should carry the customer id")
	}
	if len(sub.LineItems) != 1 || len(sub.Payments) != 1 {
		t.Fatalf("submission should snapshot lines and payments: %+v", sub)
	}
	if !sub.Result.AmountDue.Equal(decimal.Zero) || !sub.Result.ChangeAmount.Equal(decimal.Zero) {
		t.Fatalf("expected exact coverage in result, got %+v", sub.Result)
	}
	if !sub.OrderTotal.Equal(money("500.00")) {
		t.Fatalf("unexpected order total %s", sub.OrderTotal)
	}
	if sub.Note == nil || *sub.Note != "regular" || !sub.SendReceiptEmail {
		t.Fatalf("submission flags lost: %+v", sub)
	}
}

func TestSessionBuildSubmissionGateFailure(t *testing.T) {
	productID := uuid.New()
	catalog := catalogWith(unitRef(productID, "111", "500.00"))
	sess, _ := NewSession(catalog, nil)
	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}

	if _, err := sess.BuildSubmission(nil, false, false); !pkgerrors.IsCode(err, pkgerrors.CodeIncompleteCoverage) {
		t.Fatalf("uncovered sale must not build a submission, got %v", err)
	}
	// state must survive the rejection so the operator can correct it
	if got := sess.Cart().Subtotal(); !got.Equal(money("500.00")) {
		t.Fatalf("gate failure must leave the session intact, subtotal %s", got)
	}
}
