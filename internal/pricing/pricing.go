// internal/pricing/pricing.go

// Package pricing computes order line and aggregate totals.
//
// Amounts are rounded half-even to two decimal places, once per line, and the
// order total is the rounded sum of those line totals.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

const places = 2

var (
	ErrInvalidDiscount = errors.New("discount must be between 0 and 1")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// LineItem is one product, quantity and discount entry within an order.
// Discount is a fraction in [0,1] and only applies when HasDiscount is set.
type LineItem struct {
	UnitPrice   decimal.Decimal
	Quantity    int
	HasDiscount bool
	Discount    decimal.Decimal
}

// Summary holds the rounded total of each line, in input order, and the
// order total.
type Summary struct {
	Lines []decimal.Decimal
	Total decimal.Decimal
}

// Validate checks the invariants of a line item. The discount range is
// checked even when the discount flag is unset.
func (li LineItem) Validate() error {
	if li.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if li.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if li.Discount.IsNegative() || li.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidDiscount
	}
	return nil
}

// EffectiveDiscount is the discount fraction actually applied to the line.
func (li LineItem) EffectiveDiscount() decimal.Decimal {
	if !li.HasDiscount {
		return decimal.Zero
	}
	return li.Discount
}

func (li LineItem) amount() decimal.Decimal {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	return gross.Mul(decimal.NewFromInt(1).Sub(li.EffectiveDiscount()))
}

// LineTotal returns round(price * quantity * (1 - discount), 2).
func LineTotal(li LineItem) (decimal.Decimal, error) {
	if err := li.Validate(); err != nil {
		return decimal.Zero, err
	}
	return li.amount().RoundBank(places), nil
}

// OrderTotal returns round(sum(LineTotal(item)), 2).
func OrderTotal(items []LineItem) (decimal.Decimal, error) {
	s, err := Summarize(items)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Total, nil
}

// Summarize computes every line total and the order total in one pass.
func Summarize(items []LineItem) (Summary, error) {
	s := Summary{Lines: make([]decimal.Decimal, 0, len(items))}
	sum := decimal.Zero

	for _, li := range items {
		if err := li.Validate(); err != nil {
			return Summary{}, err
		}
		line := li.amount().RoundBank(places)
		s.Lines = append(s.Lines, line)
		sum = sum.Add(line)
	}

	s.Total = sum.RoundBank(places)
	return s, nil
}
