package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/internal/customers"
	"github.com/anavarro/tillpoint-backend/internal/orders"
	"github.com/anavarro/tillpoint-backend/internal/pos"
	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
	"github.com/anavarro/tillpoint-backend/pkg/outbox"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOrdersRepo struct {
	created *models.Order
	fail    bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.fail {
		return nil, errors.New("insert failed")
	}
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.created, nil
}

func (s *stubOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Order, error) {
	return nil, nil
}

type stubWalletRepo struct {
	balance decimal.Decimal
	deltas  []decimal.Decimal
	entries []*models.WalletEntry
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) customers.Repository { return s }

func (s *stubWalletRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWalletRepo) SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	return nil, nil
}

func (s *stubWalletRepo) ListWalletEntries(ctx context.Context, customerID uuid.UUID, limit int) ([]models.WalletEntry, error) {
	return nil, nil
}

func (s *stubWalletRepo) AdjustWalletBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	s.deltas = append(s.deltas, delta)
	s.balance = s.balance.Add(delta)
	return s.balance, nil
}

func (s *stubWalletRepo) CreateWalletEntry(ctx context.Context, entry *models.WalletEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
	fail   bool
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.fail {
		return errors.New("emit failed")
	}
	s.events = append(s.events, event)
	return nil
}

type stubResolver struct {
	refs map[string]pos.ProductRef
}

func (s *stubResolver) ResolveBarcode(ctx context.Context, barcode string) (*pos.ProductRef, error) {
	ref, ok := s.refs[barcode]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product matches the scanned barcode")
	}
	return &ref, nil
}

func submissionWith(t *testing.T, customer *pos.CustomerSnapshot, price, paid string, method enums.PaymentMethod, intents pos.Intents) *pos.Submission {
	t.Helper()
	resolver := &stubResolver{refs: map[string]pos.ProductRef{
		"111": {
			ProductID: uuid.New(),
			Title:     "product",
			UnitLabel: "pc",
			Barcode:   "111",
			UnitPrice: decimal.RequireFromString(price),
		},
	}}
	sess, err := pos.NewSession(resolver, customer)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}
	if _, err := sess.AddScan(context.Background(), "111"); err != nil {
		t.Fatalf("AddScan error: %v", err)
	}
	if err := sess.SetIntents(intents); err != nil {
		t.Fatalf("SetIntents error: %v", err)
	}
	if paid != "" {
		if _, err := sess.AddPayment(method, decimal.RequireFromString(paid), nil); err != nil {
			t.Fatalf("AddPayment error: %v", err)
		}
	}
	sub, err := sess.BuildSubmission(nil, false, false)
	if err != nil {
		t.Fatalf("BuildSubmission error: %v", err)
	}
	return sub
}

func newTestService(t *testing.T, ordersRepo *stubOrdersRepo, wallets *stubWalletRepo, publisher *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, ordersRepo, wallets, publisher, nil)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestSubmitPersistsOrder(t *testing.T) {
	ordersRepo := &stubOrdersRepo{}
	wallets := &stubWalletRepo{}
	publisher := &stubOutbox{}
	svc := newTestService(t, ordersRepo, wallets, publisher)

	sub := submissionWith(t, nil, "100", "100", enums.PaymentMethodCash, pos.Intents{})

	dto, err := svc.Submit(context.Background(), uuid.New(), sub)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if ordersRepo.created == nil {
		t.Fatalf("order was not persisted")
	}
	if dto.Status != "completed" {
		t.Fatalf("expected completed status, got %s", dto.Status)
	}
	if len(dto.LineItems) != 1 || dto.LineItems[0].Quantity != 1 {
		t.Fatalf("unexpected line items %+v", dto.LineItems)
	}
	if len(wallets.deltas) != 0 {
		t.Fatalf("zero adjustment must not touch the wallet")
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected one order_created event, got %+v", publisher.events)
	}
}

func TestSubmitAppliesWalletAdjustment(t *testing.T) {
	customer := &pos.CustomerSnapshot{
		ID:          uuid.New(),
		Name:        "debtor",
		WalletKnown: true,
	}
	ordersRepo := &stubOrdersRepo{}
	wallets := &stubWalletRepo{}
	publisher := &stubOutbox{}
	svc := newTestService(t, ordersRepo, wallets, publisher)

	// full order deferred onto the wallet
	sub := submissionWith(t, customer, "100", "", enums.PaymentMethodCash, pos.Intents{CreateFullDue: true})

	dto, err := svc.Submit(context.Background(), uuid.New(), sub)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !dto.WalletAdjustment.Equal(decimal.RequireFromString("-100")) {
		t.Fatalf("expected adjustment -100, got %s", dto.WalletAdjustment)
	}
	if len(wallets.deltas) != 1 || !wallets.deltas[0].Equal(decimal.RequireFromString("-100")) {
		t.Fatalf("wallet deltas %+v", wallets.deltas)
	}
	if len(wallets.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(wallets.entries))
	}
	entry := wallets.entries[0]
	if entry.Type != enums.WalletEntryTypeDue {
		t.Fatalf("expected due entry, got %s", entry.Type)
	}
	if !entry.BalanceAfter.Equal(decimal.RequireFromString("-100")) {
		t.Fatalf("unexpected balance after %s", entry.BalanceAfter)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected wallet_adjusted and order_created events, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != enums.EventWalletAdjusted {
		t.Fatalf("unexpected first event %s", publisher.events[0].EventType)
	}
}

func TestSubmitBankedChangeCreditsWallet(t *testing.T) {
	customer := &pos.CustomerSnapshot{
		ID:          uuid.New(),
		Name:        "regular",
		WalletKnown: true,
	}
	ordersRepo := &stubOrdersRepo{}
	wallets := &stubWalletRepo{}
	publisher := &stubOutbox{}
	svc := newTestService(t, ordersRepo, wallets, publisher)

	sub := submissionWith(t, customer, "200", "500", enums.PaymentMethodCash, pos.Intents{
		BankChangeAsCredit: true,
		CreditPortion:      decimal.RequireFromString("200"),
	})

	dto, err := svc.Submit(context.Background(), uuid.New(), sub)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !dto.WalletAdjustment.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected adjustment +200, got %s", dto.WalletAdjustment)
	}
	if len(wallets.entries) != 1 || wallets.entries[0].Type != enums.WalletEntryTypeCredit {
		t.Fatalf("expected a credit entry, got %+v", wallets.entries)
	}
}

func TestSubmitOrderInsertFailure(t *testing.T) {
	ordersRepo := &stubOrdersRepo{fail: true}
	wallets := &stubWalletRepo{}
	publisher := &stubOutbox{}
	svc := newTestService(t, ordersRepo, wallets, publisher)

	sub := submissionWith(t, nil, "100", "100", enums.PaymentMethodCash, pos.Intents{})

	if _, err := svc.Submit(context.Background(), uuid.New(), sub); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("failed insert must not queue events")
	}
}

func TestSubmitNilSubmission(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubWalletRepo{}, &stubOutbox{})

	if _, err := svc.Submit(context.Background(), uuid.New(), nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
