package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/api/middleware"
	customersvc "github.com/anavarro/tillpoint-backend/internal/customers"
	ordersvc "github.com/anavarro/tillpoint-backend/internal/orders"
	"github.com/anavarro/tillpoint-backend/internal/pos"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

type fakeResolver struct {
	refs map[string]pos.ProductRef
}

func (f *fakeResolver) ResolveBarcode(_ context.Context, barcode string) (*pos.ProductRef, error) {
	if ref, ok := f.refs[barcode]; ok {
		return &ref, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product matches the scanned barcode")
}

type fakeCustomers struct {
	snapshots map[uuid.UUID]*pos.CustomerSnapshot
}

func (f *fakeCustomers) Search(context.Context, string, int) ([]customersvc.CustomerDTO, error) {
	return nil, nil
}

func (f *fakeCustomers) GetWallet(context.Context, uuid.UUID) (*customersvc.WalletDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

func (f *fakeCustomers) Snapshot(_ context.Context, customerID uuid.UUID) (*pos.CustomerSnapshot, error) {
	if snap, ok := f.snapshots[customerID]; ok {
		return snap, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

type fakeCheckout struct {
	submissions []*pos.Submission
	order       *ordersvc.OrderDTO
	err         error
}

func (f *fakeCheckout) Submit(_ context.Context, _ uuid.UUID, sub *pos.Submission) (*ordersvc.OrderDTO, error) {
	f.submissions = append(f.submissions, sub)
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func testResolver() *fakeResolver {
	productID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ref := pos.ProductRef{
		ProductID: productID,
		Title:     "Basmati Rice 5kg",
		UnitLabel: "bag",
		UnitPrice: decimal.NewFromInt(20),
	}
	refA, refB := ref, ref
	refA.Barcode = "RICE-001"
	refB.Barcode = "RICE-002"
	return &fakeResolver{refs: map[string]pos.ProductRef{
		"RICE-001": refA,
		"RICE-002": refB,
	}}
}

func TestPOSQuoteAggregatesScans(t *testing.T) {
	handler := POSQuote(testResolver(), &fakeCustomers{}, nil)

	body := `{
		"barcodes": ["RICE-001", "RICE-002", "RICE-001"],
		"payments": [{"method": "cash", "amount": "50"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	quote := envelope.Data
	if len(quote.Lines) != 1 {
		t.Fatalf("expected one aggregated line, got %d", len(quote.Lines))
	}
	if quote.Lines[0].Quantity != 2 {
		t.Fatalf("re-scanned barcode should not double count, got quantity %d", quote.Lines[0].Quantity)
	}
	if !quote.Subtotal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected subtotal 40 got %s", quote.Subtotal)
	}
	if !quote.ChangeAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected change 10 got %s", quote.ChangeAmount)
	}
	if !quote.SubmitReady {
		t.Fatalf("expected quote to be submit ready, blocked by %q", quote.SubmitBlock)
	}
}

func TestPOSQuoteUnknownBarcode(t *testing.T) {
	handler := POSQuote(testResolver(), &fakeCustomers{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/quote", strings.NewReader(`{"barcodes":["NOPE"]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestPOSQuoteReportsIncompleteCoverage(t *testing.T) {
	handler := POSQuote(testResolver(), &fakeCustomers{}, nil)

	body := `{
		"barcodes": ["RICE-001"],
		"payments": [{"method": "cash", "amount": "5"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.SubmitReady {
		t.Fatal("underpaid quote should not be submit ready")
	}
	if !envelope.Data.AmountDue.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected amount due 15 got %s", envelope.Data.AmountDue)
	}
}

func TestPOSSubmitOrderRequiresOperator(t *testing.T) {
	checkout := &fakeCheckout{}
	handler := POSSubmitOrder(testResolver(), &fakeCustomers{}, checkout, nil)

	body := `{"barcodes":["RICE-001"],"payments":[{"method":"cash","amount":"20"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if len(checkout.submissions) != 0 {
		t.Fatal("checkout should not run without operator context")
	}
}

func TestPOSSubmitOrderHappyPath(t *testing.T) {
	orderID := uuid.New()
	checkout := &fakeCheckout{order: &ordersvc.OrderDTO{ID: orderID, Status: "completed"}}
	handler := POSSubmitOrder(testResolver(), &fakeCustomers{}, checkout, nil)

	body := `{"barcodes":["RICE-001","RICE-002"],"payments":[{"method":"cash","amount":"40"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithOperatorID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(checkout.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(checkout.submissions))
	}

	sub := checkout.submissions[0]
	if !sub.OrderTotal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected order total 40 got %s", sub.OrderTotal)
	}

	var envelope struct {
		Data ordersvc.OrderDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.ID != orderID {
		t.Fatalf("expected order id %s got %s", orderID, envelope.Data.ID)
	}
}

func TestPOSSubmitOrderBlockedByGate(t *testing.T) {
	checkout := &fakeCheckout{}
	handler := POSSubmitOrder(testResolver(), &fakeCustomers{}, checkout, nil)

	body := `{"barcodes":["RICE-001"],"payments":[{"method":"cash","amount":"5"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithOperatorID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(checkout.submissions) != 0 {
		t.Fatal("blocked submission must never reach checkout")
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIncompleteCoverage) {
		t.Fatalf("expected code %s got %s", pkgerrors.CodeIncompleteCoverage, payload.Error.Code)
	}
}
