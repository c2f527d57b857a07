package product

import (
	"pos-catalog/internal/pkg/errs"
)

var (
	ErrNegativePrice            = errs.New("price cannot be negative")
	ErrInvalidAlcoholPercentage = errs.New("alcohol percentage must be between 0 and 100")
	ErrMissingVATGroup          = errs.New("vat group is required")
	ErrMissingCategory          = errs.New("category is required")
)

// Money is a VAT-inclusive amount in minor units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

type AlcoholPercentage struct {
	value float64
}

func NewAlcoholPercentage(value float64) (AlcoholPercentage, error) {
	if value < 0 || value > 100 {
		return AlcoholPercentage{}, ErrInvalidAlcoholPercentage
	}
	return AlcoholPercentage{value: value}, nil
}

func (a AlcoholPercentage) Value() float64 {
	return a.value
}
