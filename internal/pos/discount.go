package pos

import (
	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Discount is a single order-level reduction, either a fixed amount or a
// percentage of the subtotal.
type Discount struct {
	Kind  enums.DiscountKind
	Value decimal.Decimal
}

// NoDiscount is the zero reduction applied when the operator sets none.
func NoDiscount() Discount {
	return Discount{Kind: enums.DiscountKindFixed, Value: decimal.Zero}
}

// Validate rejects unknown kinds and negative values.
func (d Discount) Validate() error {
	if !d.Kind.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid discount kind %q", d.Kind)
	}
	if d.Value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
	}
	return nil
}

// AmountOff returns the reduction for the given subtotal, clamped so the
// discount can never exceed the subtotal itself.
func (d Discount) AmountOff(subtotal decimal.Decimal) decimal.Decimal {
	var off decimal.Decimal
	switch d.Kind {
	case enums.DiscountKindPercentage:
		off = subtotal.Mul(d.Value).Div(oneHundred)
	default:
		off = d.Value
	}
	if off.GreaterThan(subtotal) {
		return subtotal
	}
	return off
}

// Apply returns the order total: subtotal minus the discount, floored at zero.
func (d Discount) Apply(subtotal decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(d.AmountOff(subtotal))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
