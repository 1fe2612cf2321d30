// Package currency converts expense amounts into the group's standard
// currency. Conversion happens once, when an expense is created or edited;
// the converted amount is cached on the expense record and balance
// computation never calls back in here.
package currency

import (
	"context"
	"errors"
)

// ErrRateUnavailable is returned when no exchange rate can be obtained for a
// currency pair.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Converter converts an amount between two currencies.
type Converter interface {
	// Convert returns amount expressed in the "to" currency. Equal currency
	// codes convert to the same amount without any lookup.
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, amount float64, from, to string) (float64, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	return f(ctx, amount, from, to)
}
