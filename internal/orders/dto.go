package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
)

// OrderDTO is the submitted-order payload returned to the register.
type OrderDTO struct {
	ID               uuid.UUID       `json:"id"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty"`
	Status           string          `json:"status"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountKind     string          `json:"discount_kind"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	Total            decimal.Decimal `json:"total"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	ChangeAmount     decimal.Decimal `json:"change_amount"`
	WalletAdjustment decimal.Decimal `json:"wallet_adjustment"`
	Note             *string         `json:"note,omitempty"`
	LineItems        []LineItemDTO   `json:"line_items"`
	Payments         []PaymentDTO    `json:"payments"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LineItemDTO is one product line on a submitted order.
type LineItemDTO struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	UnitLabel     string           `json:"unit_label"`
	Barcodes      []string         `json:"barcodes"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

// PaymentDTO is one settled payment on a submitted order.
type PaymentDTO struct {
	ID        uuid.UUID       `json:"id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
}

// OrderSummaryDTO is the header-level shape used by order history lists,
// where line items and payments are not loaded.
type OrderSummaryDTO struct {
	ID               uuid.UUID       `json:"id"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty"`
	Status           string          `json:"status"`
	Total            decimal.Decimal `json:"total"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	ChangeAmount     decimal.Decimal `json:"change_amount"`
	WalletAdjustment decimal.Decimal `json:"wallet_adjustment"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toOrderSummaryDTO(order models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		Status:           order.Status.String(),
		Total:            order.Total,
		TotalPaid:        order.TotalPaid,
		AmountDue:        order.AmountDue,
		ChangeAmount:     order.ChangeAmount,
		WalletAdjustment: order.WalletAdjustment,
		CreatedAt:        order.CreatedAt,
	}
}

// ToOrderDTO maps the persisted order to its API payload.
func ToOrderDTO(order models.Order) OrderDTO {
	lines := make([]LineItemDTO, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		lines = append(lines, LineItemDTO{
			ID:            line.ID,
			ProductID:     line.ProductID,
			UnitLabel:     line.UnitLabel,
			Barcodes:      line.Barcodes,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			OverridePrice: line.OverridePrice,
			LineTotal:     line.LineTotal,
		})
	}
	payments := make([]PaymentDTO, 0, len(order.Payments))
	for _, payment := range order.Payments {
		payments = append(payments, PaymentDTO{
			ID:        payment.ID,
			Method:    payment.Method.String(),
			Amount:    payment.Amount,
			Reference: payment.Reference,
		})
	}
	return OrderDTO{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		Status:           order.Status.String(),
		Subtotal:         order.Subtotal,
		DiscountKind:     order.DiscountKind.String(),
		DiscountValue:    order.DiscountValue,
		Total:            order.Total,
		TotalPaid:        order.TotalPaid,
		AmountDue:        order.AmountDue,
		ChangeAmount:     order.ChangeAmount,
		WalletAdjustment: order.WalletAdjustment,
		Note:             order.Note,
		LineItems:        lines,
		Payments:         payments,
		CreatedAt:        order.CreatedAt,
	}
}
