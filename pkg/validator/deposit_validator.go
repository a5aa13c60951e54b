package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid deposit amount")
	ErrInvalidTerm   = errors.New("invalid deposit term")
	ErrInvalidIBAN   = errors.New("invalid iban")
)

const (
	// MaxAmountScale is the largest number of decimal places a deposit may carry.
	MaxAmountScale = 2

	// MaxTermMonths caps a deposit term at 100 years.
	MaxTermMonths = 1200
)

// MaxDepositAmount keeps the amount with interest inside a decimal(20,2)
// column for any term up to MaxTermMonths.
var MaxDepositAmount = decimal.NewFromInt(1_000_000_000)

type DepositValidator struct {
	ibanRegex *regexp.Regexp
}

func NewDepositValidator() *DepositValidator {
	return &DepositValidator{
		ibanRegex: regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`),
	}
}

func (v *DepositValidator) ValidateDeposit(amount decimal.Decimal, month int) error {
	var errs []error

	if !amount.IsPositive() {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount))
	} else if !amount.Equal(amount.Round(MaxAmountScale)) {
		errs = append(errs, fmt.Errorf("%w: at most %d decimal places, got %s", ErrInvalidAmount, MaxAmountScale, amount))
	} else if amount.GreaterThan(MaxDepositAmount) {
		errs = append(errs, fmt.Errorf("%w: exceeds maximum of %s, got %s", ErrInvalidAmount, MaxDepositAmount, amount))
	}

	if month <= 0 {
		errs = append(errs, fmt.Errorf("%w: month must be positive, got %d", ErrInvalidTerm, month))
	} else if month > MaxTermMonths {
		errs = append(errs, fmt.Errorf("%w: month must be at most %d, got %d", ErrInvalidTerm, MaxTermMonths, month))
	}

	return errors.Join(errs...)
}

// CanonicalIBAN strips spaces and upper-cases iban without checking its
// shape. Stored and looked-up IBANs go through it so both sides agree.
func CanonicalIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

// NormalizeIBAN canonicalizes iban, then checks its shape.
func (v *DepositValidator) NormalizeIBAN(iban string) (string, error) {
	normalized := CanonicalIBAN(iban)
	if !v.ibanRegex.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIBAN, iban)
	}
	return normalized, nil
}
