package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a currency amount held at exactly two fractional digits.
// Construction always rounds to cents (ties away from zero), so every
// arithmetic result is exact at cent resolution regardless of how the
// input was produced.
type Money struct {
	amount decimal.Decimal
}

var Zero = Money{}

func New(d decimal.Decimal) Money {
	return Money{amount: d.Round(2)}
}

func FromFloat(f float64) Money {
	return New(decimal.NewFromFloat(f))
}

// FromString parses a decimal string into Money. The empty string is
// treated as zero, matching how omitted form fields arrive.
func FromString(s string) (Money, error) {
	if s == "" {
		return Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return New(d), nil
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// Multiply computes qty x rate and rounds the product to cents.
func Multiply(qty, rate Money) Money {
	return New(qty.amount.Mul(rate.amount))
}

// ClampZero floors the amount at zero. Payments may not drive a balance
// negative, and negative inputs coerce to zero.
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return Zero
	}
	return m
}

func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

func (m Money) LessThanOrEqual(o Money) bool {
	return m.amount.LessThanOrEqual(o.amount)
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Format renders integral amounts without a fractional part and
// everything else with exactly two digits.
func (m Money) Format() string {
	if m.amount.IsInteger() {
		return m.amount.StringFixed(0)
	}
	return m.amount.StringFixed(2)
}

func (m Money) String() string {
	return m.Format()
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.amount.StringFixed(2) + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = New(d)
	return nil
}
