package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vitos/dex_trade_engine/internal/domain"
	"github.com/vitos/dex_trade_engine/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testStorePool() *domain.LiquidityPool {
	return &domain.LiquidityPool{
		ID:              "1.19.5",
		AssetA:          domain.Asset{ID: "1.3.1", Symbol: "ALPHA", Precision: 5, MarketFeePercent: 30, MaxMarketFee: 1000},
		AssetB:          domain.Asset{ID: "1.3.2", Symbol: "BETA", Precision: 8},
		BalanceA:        1_000_000_000,
		BalanceB:        2_000_000_000,
		TakerFeePercent: 100,
	}
}

func TestAssetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	asset := &domain.Asset{ID: "1.3.1", Symbol: "ALPHA", Precision: 5, MarketFeePercent: 30, MaxMarketFee: 1000}
	require.NoError(t, store.SaveAsset(ctx, asset))

	got, err := store.GetAsset(ctx, "ALPHA")
	require.NoError(t, err)
	require.Equal(t, asset, got)

	// Replacing under the same id keeps a single row.
	asset.MarketFeePercent = 50
	require.NoError(t, store.SaveAsset(ctx, asset))
	got, err = store.GetAsset(ctx, "ALPHA")
	require.NoError(t, err)
	require.EqualValues(t, 50, got.MarketFeePercent)
}

func TestPoolRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pool := testStorePool()
	require.NoError(t, store.SavePool(ctx, pool))

	got, err := store.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, pool, got)

	pools, err := store.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, pool, pools[0])
}

func TestQuoteJournalOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, sell := range []string{"100", "200", "300"} {
		rec := &domain.QuoteRecord{
			PoolID:     "1.19.5",
			SellSymbol: "ALPHA",
			BuySymbol:  "BETA",
			SellAmount: decimal.RequireFromString(sell),
			BuyAmount:  decimal.RequireFromString(sell).Mul(decimal.NewFromInt(2)),
		}
		require.NoError(t, store.SaveQuote(ctx, rec))
		require.NotZero(t, rec.ID)
	}

	quotes, err := store.ListRecentQuotes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.True(t, quotes[0].SellAmount.Equal(decimal.NewFromInt(300)), "newest first, got %s", quotes[0].SellAmount)
	require.True(t, quotes[1].SellAmount.Equal(decimal.NewFromInt(200)))
	require.True(t, quotes[0].BuyAmount.Equal(decimal.NewFromInt(600)))
}
