package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/api/middleware"
	"github.com/anavarro/tillpoint-backend/api/responses"
	"github.com/anavarro/tillpoint-backend/api/validators"
	checkoutsvc "github.com/anavarro/tillpoint-backend/internal/checkout"
	customersvc "github.com/anavarro/tillpoint-backend/internal/customers"
	"github.com/anavarro/tillpoint-backend/internal/pos"
	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
	"github.com/anavarro/tillpoint-backend/pkg/logger"
)

// POSQuote replays till state into a fresh session and returns the
// evaluated totals without persisting anything.
func POSQuote(resolver pos.CatalogResolver, customers customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog resolver unavailable"))
			return
		}

		var payload posSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := replaySession(r, resolver, customers, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(session))
	}
}

// POSSubmitOrder replays till state, validates the submission gate and hands
// the packaged submission to the checkout service.
func POSSubmitOrder(resolver pos.CatalogResolver, customers customersvc.Service, checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil || checkout == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		operatorID, err := operatorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload posOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := replaySession(r, resolver, customers, payload.posSessionRequest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := session.BuildSubmission(payload.Note, payload.IsDraft, payload.SendReceiptEmail)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := checkout.Submit(r.Context(), operatorID, submission)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type posSessionRequest struct {
	CustomerID *uuid.UUID           `json:"customer_id,omitempty"`
	Barcodes   []string             `json:"barcodes" validate:"omitempty,dive,required"`
	Overrides  []overridePriceInput `json:"overrides,omitempty" validate:"omitempty,dive"`
	Discount   *discountInput       `json:"discount,omitempty"`
	Intents    *intentsInput        `json:"intents,omitempty"`
	Payments   []paymentEntryInput  `json:"payments,omitempty" validate:"omitempty,dive"`
}

type posOrderRequest struct {
	posSessionRequest
	Note             *string `json:"note,omitempty"`
	IsDraft          bool    `json:"is_draft,omitempty"`
	SendReceiptEmail bool    `json:"send_receipt_email,omitempty"`
}

type overridePriceInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Price     string    `json:"price" validate:"required"`
}

type discountInput struct {
	Kind  string `json:"kind" validate:"required,oneof=fixed percentage"`
	Value string `json:"value" validate:"required"`
}

type intentsInput struct {
	CreateFullDue      bool   `json:"create_full_due,omitempty"`
	AddRemainderAsDue  bool   `json:"add_remainder_as_due,omitempty"`
	BankChangeAsCredit bool   `json:"bank_change_as_credit,omitempty"`
	CreditPortion      string `json:"credit_portion,omitempty"`
}

type paymentEntryInput struct {
	Method    string  `json:"method" validate:"required,oneof=cash card wallet bank"`
	Amount    string  `json:"amount" validate:"required"`
	Reference *string `json:"reference,omitempty"`
}

// replaySession rebuilds a session from the request in the same order the
// till applied its actions: scans, overrides, discount, intents, payments.
// Payments go last because their caps depend on everything before them.
func replaySession(r *http.Request, resolver pos.CatalogResolver, customers customersvc.Service, payload posSessionRequest) (*pos.Session, error) {
	snapshot, err := customerSnapshot(r, customers, payload.CustomerID)
	if err != nil {
		return nil, err
	}

	session, err := pos.NewSession(resolver, snapshot)
	if err != nil {
		return nil, err
	}

	for _, barcode := range payload.Barcodes {
		if _, err := session.AddScan(r.Context(), barcode); err != nil {
			return nil, err
		}
	}

	for _, override := range payload.Overrides {
		price, err := parseAmount(override.Price, "override price")
		if err != nil {
			return nil, err
		}
		if err := session.SetOverridePrice(override.ProductID, price); err != nil {
			return nil, err
		}
	}

	if payload.Discount != nil {
		kind, err := enums.ParseDiscountKind(payload.Discount.Kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount kind")
		}
		value, err := parseAmount(payload.Discount.Value, "discount value")
		if err != nil {
			return nil, err
		}
		if err := session.SetDiscount(pos.Discount{Kind: kind, Value: value}); err != nil {
			return nil, err
		}
	}

	if payload.Intents != nil {
		intents := pos.Intents{
			CreateFullDue:      payload.Intents.CreateFullDue,
			AddRemainderAsDue:  payload.Intents.AddRemainderAsDue,
			BankChangeAsCredit: payload.Intents.BankChangeAsCredit,
		}
		if payload.Intents.CreditPortion != "" {
			portion, err := parseAmount(payload.Intents.CreditPortion, "credit portion")
			if err != nil {
				return nil, err
			}
			intents.CreditPortion = portion
		}
		if err := session.SetIntents(intents); err != nil {
			return nil, err
		}
	}

	for _, entry := range payload.Payments {
		method, err := enums.ParsePaymentMethod(entry.Method)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		amount, err := parseAmount(entry.Amount, "payment amount")
		if err != nil {
			return nil, err
		}
		if _, err := session.AddPayment(method, amount, entry.Reference); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// customerSnapshot attaches the wallet state for a registered customer. A
// failed wallet read degrades to WalletKnown=false so cash sales can still
// proceed; an unknown customer is a hard error.
func customerSnapshot(r *http.Request, customers customersvc.Service, customerID *uuid.UUID) (*pos.CustomerSnapshot, error) {
	if customerID == nil {
		return nil, nil
	}
	if customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable")
	}

	snapshot, err := customers.Snapshot(r.Context(), *customerID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		return &pos.CustomerSnapshot{ID: *customerID, WalletKnown: false}, nil
	}
	return snapshot, nil
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return value, nil
}

func operatorIDFromContext(r *http.Request) (uuid.UUID, error) {
	operatorID := middleware.OperatorIDFromContext(r.Context())
	if operatorID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator context missing")
	}
	id, err := uuid.Parse(operatorID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operator id")
	}
	return id, nil
}

type quoteLine struct {
	ProductID     uuid.UUID        `json:"product_id"`
	Title         string           `json:"title"`
	UnitLabel     string           `json:"unit_label"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty"`
	Quantity      int              `json:"quantity"`
	Barcodes      []string         `json:"barcodes"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

type quotePayment struct {
	ID        uuid.UUID       `json:"id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
}

type quoteResponse struct {
	Lines            []quoteLine     `json:"lines"`
	Payments         []quotePayment  `json:"payments"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	OrderTotal       decimal.Decimal `json:"order_total"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	ChangeAmount     decimal.Decimal `json:"change_amount"`
	WalletAdjustment decimal.Decimal `json:"wallet_adjustment"`
	WalletOutcome    string          `json:"wallet_outcome"`
	SubmitReady      bool            `json:"submit_ready"`
	SubmitBlock      string          `json:"submit_block,omitempty"`
}

func newQuoteResponse(session *pos.Session) quoteResponse {
	result := session.Evaluate()
	subtotal := session.Cart().Subtotal()

	resp := quoteResponse{
		Lines:            make([]quoteLine, 0, len(session.Cart().Lines())),
		Payments:         make([]quotePayment, 0, len(session.Payments())),
		Subtotal:         subtotal,
		OrderTotal:       session.OrderTotal(),
		TotalPaid:        decimal.Zero,
		AmountDue:        result.AmountDue,
		ChangeAmount:     result.ChangeAmount,
		WalletAdjustment: result.WalletAdjustment,
		WalletOutcome:    string(result.Outcome),
		SubmitReady:      true,
	}

	for _, line := range session.Cart().Lines() {
		resp.Lines = append(resp.Lines, quoteLine{
			ProductID:     line.ProductID,
			Title:         line.Title,
			UnitLabel:     line.UnitLabel,
			UnitPrice:     line.UnitPrice,
			OverridePrice: line.OverridePrice,
			Quantity:      line.Quantity(),
			Barcodes:      line.Barcodes(),
			LineTotal:     line.LineTotal(),
		})
	}

	for _, entry := range session.Payments() {
		resp.Payments = append(resp.Payments, quotePayment{
			ID:        entry.ID,
			Method:    string(entry.Method),
			Amount:    entry.Amount,
			Reference: entry.Reference,
		})
		resp.TotalPaid = resp.TotalPaid.Add(entry.Amount)
	}

	if err := session.ValidateForSubmission(); err != nil {
		resp.SubmitReady = false
		if typed := pkgerrors.As(err); typed != nil {
			resp.SubmitBlock = typed.Message()
		} else {
			resp.SubmitBlock = err.Error()
		}
	}

	return resp
}
