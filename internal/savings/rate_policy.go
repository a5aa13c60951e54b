package savings

import (
	"github.com/shopspring/decimal"
)

var (
	// DefaultBankRate is the monthly percentage applied to every deposit.
	DefaultBankRate = decimal.NewFromInt(5)

	hundred = decimal.NewFromInt(100)
)

// MoneyScale is the number of decimal places kept on money amounts.
const MoneyScale = 2

// RatePolicy applies a fixed monthly rate linearly over the term of a
// deposit. Results are rounded to MoneyScale places, half away from zero,
// which for the positive amounts accepted here is half-up.
type RatePolicy struct {
	bankRate decimal.Decimal
}

func NewRatePolicy(bankRate decimal.Decimal) *RatePolicy {
	return &RatePolicy{bankRate: bankRate}
}

func (p *RatePolicy) BankRate() decimal.Decimal {
	return p.bankRate
}

// EffectiveRate is the total percentage earned over termMonths.
func (p *RatePolicy) EffectiveRate(termMonths int) decimal.Decimal {
	return p.bankRate.Mul(decimal.NewFromInt(int64(termMonths)))
}

// AmountWithInterest returns principal * (100 + rate*termMonths) / 100.
func (p *RatePolicy) AmountWithInterest(principal decimal.Decimal, termMonths int) decimal.Decimal {
	factor := hundred.Add(p.EffectiveRate(termMonths))
	return principal.Mul(factor).Shift(-2).Round(MoneyScale)
}
