package enums

import "fmt"

// WalletEntryType classifies a signed mutation of a customer wallet balance.
type WalletEntryType string

const (
	// WalletEntryTypeDue records a debit: the sale (or part of it) was
	// deferred onto the wallet as debt.
	WalletEntryTypeDue WalletEntryType = "due"
	// WalletEntryTypeCredit records banked change or a prepaid top-up.
	WalletEntryTypeCredit WalletEntryType = "credit"
	// WalletEntryTypeSettlement records a payment against existing debt.
	WalletEntryTypeSettlement WalletEntryType = "settlement"
)

var validWalletEntryTypes = []WalletEntryType{
	WalletEntryTypeDue,
	WalletEntryTypeCredit,
	WalletEntryTypeSettlement,
}

// String implements fmt.Stringer.
func (w WalletEntryType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WalletEntryType.
func (w WalletEntryType) IsValid() bool {
	for _, candidate := range validWalletEntryTypes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWalletEntryType converts raw input into a WalletEntryType.
func ParseWalletEntryType(value string) (WalletEntryType, error) {
	for _, candidate := range validWalletEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet entry type %q", value)
}
