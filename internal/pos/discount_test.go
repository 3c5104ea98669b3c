package pos

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/anavarro/tillpoint-backend/pkg/enums"
)

func TestDiscountApply(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount Discount
		want     string
	}{
		{
			name:     "no discount",
			subtotal: "100.00",
			discount: NoDiscount(),
			want:     "100.00",
		},
		{
			name:     "fixed",
			subtotal: "1000.00",
			discount: Discount{Kind: enums.DiscountKindFixed, Value: money("100")},
			want:     "900.00",
		},
		{
			name:     "percentage",
			subtotal: "200.00",
			discount: Discount{Kind: enums.DiscountKindPercentage, Value: money("25")},
			want:     "150.00",
		},
		{
			name:     "fixed exceeding subtotal floors at zero",
			subtotal: "50.00",
			discount: Discount{Kind: enums.DiscountKindFixed, Value: money("80")},
			want:     "0",
		},
		{
			name:     "percentage above 100 clamps to subtotal",
			subtotal: "50.00",
			discount: Discount{Kind: enums.DiscountKindPercentage, Value: money("150")},
			want:     "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.discount.Apply(money(tc.subtotal))
			if !got.Equal(money(tc.want)) {
				t.Fatalf("Apply(%s) = %s, want %s", tc.subtotal, got, tc.want)
			}
		})
	}
}

func TestDiscountNeverIncreasesTotal(t *testing.T) {
	subtotals := []string{"0", "1", "99.99", "1000", "12345.67"}
	discounts := []Discount{
		NoDiscount(),
		{Kind: enums.DiscountKindFixed, Value: money("10")},
		{Kind: enums.DiscountKindFixed, Value: money("99999")},
		{Kind: enums.DiscountKindPercentage, Value: money("0")},
		{Kind: enums.DiscountKindPercentage, Value: money("50")},
		{Kind: enums.DiscountKindPercentage, Value: money("100")},
		{Kind: enums.DiscountKindPercentage, Value: money("250")},
	}

	for _, s := range subtotals {
		subtotal := money(s)
		for _, d := range discounts {
			total := d.Apply(subtotal)
			if total.IsNegative() {
				t.Fatalf("order total went negative for subtotal %s discount %+v", s, d)
			}
			if total.GreaterThan(subtotal) {
				t.Fatalf("discount increased the total for subtotal %s discount %+v", s, d)
			}
		}
	}
}

func TestDiscountValidate(t *testing.T) {
	if err := (Discount{Kind: enums.DiscountKind("bogus"), Value: decimal.Zero}).Validate(); err == nil {
		t.Fatalf("expected invalid kind to fail validation")
	}
	if err := (Discount{Kind: enums.DiscountKindFixed, Value: money("-1")}).Validate(); err == nil {
		t.Fatalf("expected negative value to fail validation")
	}
	if err := (Discount{Kind: enums.DiscountKindPercentage, Value: money("10")}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
