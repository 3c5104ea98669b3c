package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/internal/customers"
	"github.com/anavarro/tillpoint-backend/internal/orders"
	"github.com/anavarro/tillpoint-backend/internal/pos"
	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
	"github.com/anavarro/tillpoint-backend/pkg/logger"
	"github.com/anavarro/tillpoint-backend/pkg/outbox"
	"github.com/anavarro/tillpoint-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service persists a validated register submission.
type Service interface {
	Submit(ctx context.Context, operatorID uuid.UUID, sub *pos.Submission) (*orders.OrderDTO, error)
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	wallets    customers.Repository
	outbox     outboxPublisher
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(tx txRunner, ordersRepo orders.Repository, wallets customers.Repository, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		ordersRepo: ordersRepo,
		wallets:    wallets,
		outbox:     publisher,
		logg:       logg,
	}, nil
}

// Submit writes the order, applies the wallet adjustment and queues the
// domain events in one transaction.
func (s *service) Submit(ctx context.Context, operatorID uuid.UUID, sub *pos.Submission) (*orders.OrderDTO, error) {
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission required")
	}
	if !sub.Result.WalletAdjustment.IsZero() && sub.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet adjustment requires a customer")
	}

	order := buildOrderModel(sub)
	actor := &outbox.ActorRef{OperatorID: operatorID}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
		}

		if !sub.Result.WalletAdjustment.IsZero() {
			if err := s.applyWalletAdjustment(ctx, tx, order, sub, actor); err != nil {
				return err
			}
		}

		methods := make([]string, 0, len(sub.Payments))
		for _, payment := range sub.Payments {
			methods = append(methods, payment.Method.String())
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Version:       1,
			Data: payloads.OrderCreated{
				OrderID:          order.ID,
				CustomerID:       order.CustomerID,
				Status:           order.Status.String(),
				Subtotal:         order.Subtotal,
				Total:            order.Total,
				TotalPaid:        order.TotalPaid,
				AmountDue:        order.AmountDue,
				ChangeAmount:     order.ChangeAmount,
				WalletAdjustment: order.WalletAdjustment,
				LineCount:        len(order.LineItems),
				PaymentMethods:   methods,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Info(logCtx, "order submitted")
	}

	dto := orders.ToOrderDTO(*order)
	return &dto, nil
}

func (s *service) applyWalletAdjustment(ctx context.Context, tx *gorm.DB, order *models.Order, sub *pos.Submission, actor *outbox.ActorRef) error {
	entryType, err := walletEntryType(sub.Result.Outcome)
	if err != nil {
		return err
	}

	wallets := s.wallets.WithTx(tx)
	balanceAfter, err := wallets.AdjustWalletBalance(ctx, *sub.CustomerID, sub.Result.WalletAdjustment)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "applying wallet adjustment")
	}

	entry := &models.WalletEntry{
		CustomerID:   *sub.CustomerID,
		OrderID:      &order.ID,
		Type:         entryType,
		Amount:       sub.Result.WalletAdjustment,
		BalanceAfter: balanceAfter,
	}
	if err := wallets.CreateWalletEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording wallet entry")
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventWalletAdjusted,
		AggregateType: enums.AggregateWallet,
		AggregateID:   *sub.CustomerID,
		Actor:         actor,
		Version:       1,
		Data: payloads.WalletAdjusted{
			CustomerID:   *sub.CustomerID,
			OrderID:      &order.ID,
			EntryType:    entryType.String(),
			Amount:       sub.Result.WalletAdjustment,
			BalanceAfter: balanceAfter,
		},
	})
}

func walletEntryType(outcome pos.WalletOutcome) (enums.WalletEntryType, error) {
	switch outcome {
	case pos.WalletOutcomeDue:
		return enums.WalletEntryTypeDue, nil
	case pos.WalletOutcomeCredit:
		return enums.WalletEntryTypeCredit, nil
	case pos.WalletOutcomeSettlement:
		return enums.WalletEntryTypeSettlement, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeInternal, "wallet adjustment without an outcome")
	}
}

func buildOrderModel(sub *pos.Submission) *models.Order {
	status := enums.OrderStatusCompleted
	if sub.IsDraft {
		status = enums.OrderStatusDraft
	}

	order := &models.Order{
		ID:               uuid.New(),
		CustomerID:       sub.CustomerID,
		Status:           status,
		Subtotal:         sub.Subtotal,
		DiscountKind:     sub.Discount.Kind,
		DiscountValue:    sub.Discount.Value,
		Total:            sub.OrderTotal,
		TotalPaid:        totalPaid(sub.Payments),
		AmountDue:        sub.Result.AmountDue,
		ChangeAmount:     sub.Result.ChangeAmount,
		WalletAdjustment: sub.Result.WalletAdjustment,
		Note:             sub.Note,
		SendReceiptEmail: sub.SendReceiptEmail,
	}

	for _, line := range sub.LineItems {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			OrderID:       order.ID,
			ProductID:     line.ProductID,
			UnitLabel:     line.UnitLabel,
			Barcodes:      line.Barcodes(),
			Quantity:      line.Quantity(),
			UnitPrice:     line.UnitPrice,
			OverridePrice: line.OverridePrice,
			LineTotal:     line.LineTotal(),
		})
	}
	for _, payment := range sub.Payments {
		order.Payments = append(order.Payments, models.OrderPayment{
			OrderID:   order.ID,
			Method:    payment.Method,
			Amount:    payment.Amount,
			Reference: payment.Reference,
		})
	}
	return order
}

func totalPaid(payments []pos.PaymentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total
}
