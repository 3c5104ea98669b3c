package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

const defaultListLimit = 20

// Service exposes read access to submitted orders.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]OrderSummaryDTO, error)
}

type orderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Order, error)
}

type service struct {
	repo orderReader
}

// NewService constructs an order read service.
func NewService(repo orderReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// GetOrder loads one submitted order with its line items and payments.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	dto := ToOrderDTO(*order)
	return &dto, nil
}

// ListCustomerOrders returns a customer's order history, newest first.
func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]OrderSummaryDTO, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	rows, err := s.repo.ListByCustomer(ctx, customerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	results := make([]OrderSummaryDTO, 0, len(rows))
	for _, row := range rows {
		results = append(results, toOrderSummaryDTO(row))
	}
	return results, nil
}
