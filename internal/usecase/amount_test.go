package usecase_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
	"github.com/vitos/dex_trade_engine/internal/usecase"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		precision int32
		want      int64
	}{
		{"Whole amount", "100", 5, 10000000},
		{"Fractional amount", "198.01980", 5, 19801980},
		{"Zero", "0", 8, 0},
		{"Zero precision", "42", 0, 42},
		{"Half rounds away from zero", "0.000005", 5, 1},
		{"Below half rounds down", "0.000004", 5, 0},
		{"Excess digits round", "1.000006", 5, 100001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.ToBaseUnits(decimal.RequireFromString(tt.amount), tt.precision)
			if err != nil {
				t.Fatalf("ToBaseUnits() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ToBaseUnits(%s, %d) = %d, want %d", tt.amount, tt.precision, got, tt.want)
			}
		})
	}
}

func TestToBaseUnitsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		precision int32
	}{
		{"Negative amount", "-1", 5},
		{"Negative precision", "1", -1},
		{"Precision above 18", "1", 19},
		{"Overflow", "99999999999999999999", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.ToBaseUnits(decimal.RequireFromString(tt.amount), tt.precision)
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("ToBaseUnits(%s, %d) error = %v, want ErrInvalidAmount", tt.amount, tt.precision, err)
			}
		})
	}
}

func TestToDecimal(t *testing.T) {
	got, err := usecase.ToDecimal(19801980, 5)
	if err != nil {
		t.Fatalf("ToDecimal() error = %v", err)
	}
	if want := decimal.RequireFromString("198.01980"); !got.Equal(want) {
		t.Errorf("ToDecimal(19801980, 5) = %s, want %s", got, want)
	}

	if _, err := usecase.ToDecimal(-1, 5); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("ToDecimal(-1, 5) error = %v, want ErrInvalidAmount", err)
	}
}

// Converting to base units and back must reproduce the input within one
// base unit for any representable amount.
func TestRoundTrip(t *testing.T) {
	amounts := []string{"0", "0.1", "1", "3.14159265", "12345.678", "0.00000001", "99999.99999999"}

	for p := int32(0); p <= 8; p++ {
		for _, raw := range amounts {
			amount := decimal.RequireFromString(raw)
			units, err := usecase.ToBaseUnits(amount, p)
			if err != nil {
				t.Fatalf("ToBaseUnits(%s, %d) error = %v", raw, p, err)
			}
			back, err := usecase.ToDecimal(units, p)
			if err != nil {
				t.Fatalf("ToDecimal(%d, %d) error = %v", units, p, err)
			}
			if back.Sub(amount).Abs().GreaterThan(usecase.MinTradeableUnit(p)) {
				t.Errorf("round trip at precision %d: %s -> %d -> %s", p, raw, units, back)
			}
		}
	}
}

func TestMinTradeableUnit(t *testing.T) {
	if got := usecase.MinTradeableUnit(5); !got.Equal(decimal.RequireFromString("0.00001")) {
		t.Errorf("MinTradeableUnit(5) = %s", got)
	}
	if got := usecase.MinTradeableUnit(0); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("MinTradeableUnit(0) = %s", got)
	}
}
