package calc

import "github.com/shopspring/decimal"

// Epsilon below which a net quantity is treated as flat.
var Epsilon = decimal.NewFromFloat(1e-5)

func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func IsZero(a decimal.Decimal) bool {
	return a.Abs().LessThan(Epsilon)
}

// DirectionalDelta is the signed price move seen from the position side:
// long gains when price rises, short gains when it falls.
func DirectionalDelta(isLong bool, fromPrice, toPrice decimal.Decimal) decimal.Decimal {
	if isLong {
		return toPrice.Sub(fromPrice)
	}
	return fromPrice.Sub(toPrice)
}

// SumBy folds a decimal field over a slice.
func SumBy[T any](items []T, fn func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(fn(item))
	}
	return sum
}
