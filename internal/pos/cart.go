package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

// ProductRef is the catalog answer for one scanned barcode.
type ProductRef struct {
	ProductID uuid.UUID
	Title     string
	UnitLabel string
	Barcode   string
	UnitPrice decimal.Decimal
}

// CatalogResolver resolves a scanned barcode to a sellable unit.
type CatalogResolver interface {
	ResolveBarcode(ctx context.Context, barcode string) (*ProductRef, error)
}

// LineItem aggregates every scanned unit of one product. Quantity is always
// the number of distinct barcodes recorded, so re-scanning a barcode that is
// already on the line never double-counts.
type LineItem struct {
	ProductID     uuid.UUID
	Title         string
	UnitLabel     string
	UnitPrice     decimal.Decimal
	OverridePrice *decimal.Decimal

	barcodes []string
	seen     map[string]struct{}
}

func newLineItem(ref ProductRef) *LineItem {
	return &LineItem{
		ProductID: ref.ProductID,
		Title:     ref.Title,
		UnitLabel: ref.UnitLabel,
		UnitPrice: ref.UnitPrice,
		barcodes:  []string{ref.Barcode},
		seen:      map[string]struct{}{ref.Barcode: {}},
	}
}

func (li *LineItem) addBarcode(barcode string) bool {
	if _, ok := li.seen[barcode]; ok {
		return false
	}
	li.seen[barcode] = struct{}{}
	li.barcodes = append(li.barcodes, barcode)
	return true
}

// Quantity returns the number of physical units on the line.
func (li *LineItem) Quantity() int {
	return len(li.barcodes)
}

// Barcodes returns the scanned barcodes in scan order.
func (li *LineItem) Barcodes() []string {
	out := make([]string, len(li.barcodes))
	copy(out, li.barcodes)
	return out
}

// EffectiveUnitPrice returns the override price when set, the catalog unit
// price otherwise.
func (li *LineItem) EffectiveUnitPrice() decimal.Decimal {
	if li.OverridePrice != nil {
		return *li.OverridePrice
	}
	return li.UnitPrice
}

// LineTotal is effective unit price times quantity.
func (li *LineItem) LineTotal() decimal.Decimal {
	return li.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity())))
}

// Cart accumulates line items keyed by product, preserving the order the
// products were first scanned for display.
type Cart struct {
	order []uuid.UUID
	lines map[uuid.UUID]*LineItem
}

func NewCart() *Cart {
	return &Cart{lines: map[uuid.UUID]*LineItem{}}
}

// AddScan records one resolved scan. A new product opens a line; a known
// product gains the barcode unless it was already recorded, in which case
// the cart is unchanged.
func (c *Cart) AddScan(ref ProductRef) *LineItem {
	if line, ok := c.lines[ref.ProductID]; ok {
		line.addBarcode(ref.Barcode)
		return line
	}
	line := newLineItem(ref)
	c.lines[ref.ProductID] = line
	c.order = append(c.order, ref.ProductID)
	return line
}

// SetOverridePrice replaces the effective unit price for every unit of the
// line going forward.
func (c *Cart) SetOverridePrice(productID uuid.UUID, price decimal.Decimal) error {
	line, ok := c.lines[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "override price cannot be negative")
	}
	p := price
	line.OverridePrice = &p
	return nil
}

// ClearOverridePrice restores the catalog unit price for the line.
func (c *Cart) ClearOverridePrice(productID uuid.UUID) error {
	line, ok := c.lines[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	line.OverridePrice = nil
	return nil
}

// RemoveLine deletes the line item and all of its barcodes.
func (c *Cart) RemoveLine(productID uuid.UUID) error {
	if _, ok := c.lines[productID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lines returns the line items in first-scan order.
func (c *Cart) Lines() []*LineItem {
	out := make([]*LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lines[id])
	}
	return out
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal sums every line total.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.lines[id].LineTotal())
	}
	return total
}
