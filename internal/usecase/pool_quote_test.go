package usecase_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
	"github.com/vitos/dex_trade_engine/internal/usecase"
)

func testPool(takerFeeBps int64) *domain.LiquidityPool {
	return &domain.LiquidityPool{
		ID:              "1.19.0",
		AssetA:          domain.Asset{ID: "1.3.1", Symbol: "ALPHA", Precision: 5},
		AssetB:          domain.Asset{ID: "1.3.2", Symbol: "BETA", Precision: 5},
		BalanceA:        1_000_000_000, // 10,000.00000 ALPHA
		BalanceB:        2_000_000_000, // 20,000.00000 BETA
		TakerFeePercent: takerFeeBps,
	}
}

func TestQuoteConstantProductNoFees(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()

	// 10000/20000 pool, selling 100 A: 20000 - 2e18/1.01e9 base units
	// out, which is 198.01980 B after ceiling the pool's keep.
	got, err := calc.Quote(testPool(0), "1.3.1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if want := decimal.RequireFromString("198.01980"); !got.Equal(want) {
		t.Errorf("Quote() = %s, want %s", got, want)
	}
}

func TestQuoteTakerFee(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()

	// 1% taker fee comes off the raw curve output, floored to the base
	// unit: 19801980 - floor(19801980/100) = 19603961.
	got, err := calc.Quote(testPool(100), "1.3.1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if want := decimal.RequireFromString("196.03961"); !got.Equal(want) {
		t.Errorf("Quote() = %s, want %s", got, want)
	}
}

func TestQuoteReverseDirection(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()

	// Selling 200 B moves the pool the other way through the same
	// pipeline: 1e9 - ceil(2e18/2.02e9) = 9900990 base units of A.
	got, err := calc.Quote(testPool(0), "1.3.2", decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if want := decimal.RequireFromString("99.00990"); !got.Equal(want) {
		t.Errorf("Quote() = %s, want %s", got, want)
	}
}

func TestQuoteMakerFees(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()

	pool := testPool(0)
	pool.AssetA.MarketFeePercent = 100 // 1% on the sell side, ceiling
	pool.AssetA.MaxMarketFee = 1_000_000_000

	// Input fee first: 10000000 - ceil(10000000/100) = 9900000 units
	// reach the curve; 2e9 - ceil(2e18/1.0099e9) = 19605901.
	got, err := calc.Quote(pool, "1.3.1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if want := decimal.RequireFromString("196.05901"); !got.Equal(want) {
		t.Errorf("Quote() with input maker fee = %s, want %s", got, want)
	}

	// A tight max fee caps the charge instead.
	pool.AssetA.MaxMarketFee = 1000
	got, err = calc.Quote(pool, "1.3.1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// 10000000 - 1000 = 9999000 effective; 2e9 - ceil(2e18/1.009999e9).
	if want := decimal.RequireFromString("198.00019"); !got.Equal(want) {
		t.Errorf("Quote() with capped maker fee = %s, want %s", got, want)
	}
}

// Output grows with input but never beats the fee-free constant-product
// amount.
func TestQuoteMonotonicAndFeeBounded(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()
	feeless := testPool(0)
	feed := testPool(250)
	feed.AssetA.MarketFeePercent = 30
	feed.AssetA.MaxMarketFee = 1_000_000_000
	feed.AssetB.MarketFeePercent = 50
	feed.AssetB.MaxMarketFee = 1_000_000_000

	prev := decimal.NewFromInt(-1)
	for _, sell := range []int64{1, 10, 100, 1000, 5000} {
		amount := decimal.NewFromInt(sell)
		got, err := calc.Quote(feed, "1.3.1", amount)
		if err != nil {
			t.Fatalf("Quote(%d) error = %v", sell, err)
		}
		if !got.GreaterThan(prev) {
			t.Errorf("Quote(%d) = %s, not above previous %s", sell, got, prev)
		}
		prev = got

		free, err := calc.Quote(feeless, "1.3.1", amount)
		if err != nil {
			t.Fatalf("fee-free Quote(%d) error = %v", sell, err)
		}
		if got.GreaterThan(free) {
			t.Errorf("Quote(%d) = %s beats fee-free %s", sell, got, free)
		}
	}
}

func TestQuoteFailures(t *testing.T) {
	calc := usecase.NewPoolQuoteCalculator()

	empty := testPool(0)
	empty.BalanceB = 0
	if _, err := calc.Quote(empty, "1.3.1", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrInsufficientLiquidity) {
		t.Errorf("empty pool error = %v, want ErrInsufficientLiquidity", err)
	}

	if _, err := calc.Quote(testPool(0), "1.3.99", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("foreign asset error = %v, want ErrInvalidAmount", err)
	}

	if _, err := calc.Quote(testPool(0), "1.3.1", decimal.NewFromInt(-1)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative sell error = %v, want ErrInvalidAmount", err)
	}
}
