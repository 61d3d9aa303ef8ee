package usecase

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

// Precision bounds accepted at the conversion boundary. Chain assets
// declare precisions up to 18; decimal arithmetic stays exact across
// the whole range (the IEEE-double ~15-digit limit applies only to
// callers that round-trip through float64).
const (
	MinPrecision int32 = 0
	MaxPrecision int32 = 18
)

var maxBaseUnits = decimal.NewFromInt(math.MaxInt64)

// ToBaseUnits converts a human-readable decimal amount into integer
// base units at the given precision. Rounding is half away from zero,
// so 0.000005 at precision 5 becomes 1 base unit. Negative amounts and
// precisions outside [0,18] fail with ErrInvalidAmount.
func ToBaseUnits(amount decimal.Decimal, precision int32) (int64, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, err
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", domain.ErrInvalidAmount, amount)
	}
	scaled := amount.Shift(precision).Round(0)
	if scaled.GreaterThan(maxBaseUnits) {
		return 0, fmt.Errorf("%w: %s overflows base units at precision %d", domain.ErrInvalidAmount, amount, precision)
	}
	return scaled.IntPart(), nil
}

// ToDecimal converts integer base units back into a human-readable
// decimal at the given precision. Exact for every representable input.
func ToDecimal(baseUnits int64, precision int32) (decimal.Decimal, error) {
	if err := checkPrecision(precision); err != nil {
		return decimal.Zero, err
	}
	if baseUnits < 0 {
		return decimal.Zero, fmt.Errorf("%w: negative base units %d", domain.ErrInvalidAmount, baseUnits)
	}
	return decimal.New(baseUnits, -precision), nil
}

// MinTradeableUnit is the smallest nonzero amount representable at the
// given precision (one base unit).
func MinTradeableUnit(precision int32) decimal.Decimal {
	return decimal.New(1, -precision)
}

func checkPrecision(precision int32) error {
	if precision < MinPrecision || precision > MaxPrecision {
		return fmt.Errorf("%w: precision %d outside [%d,%d]", domain.ErrInvalidAmount, precision, MinPrecision, MaxPrecision)
	}
	return nil
}
