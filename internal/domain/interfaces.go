package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ChainGateway supplies read-only snapshots from a chain node. The
// calculators never call it; only the wiring layer does, immediately
// before a calculation.
type ChainGateway interface {
	GetAsset(ctx context.Context, symbol string) (*Asset, error)
	GetPoolByAssets(ctx context.Context, assetAID, assetBID string) (*LiquidityPool, error)
	GetOrderBook(ctx context.Context, baseAssetID, quoteAssetID string, limit int) ([]LimitOrder, error)
	GetPriceFeed(ctx context.Context, bitassetDataID string) (*PriceFeed, error)
}

// SnapshotRepository caches the most recent asset and pool snapshots.
type SnapshotRepository interface {
	SaveAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, symbol string) (*Asset, error)
	SavePool(ctx context.Context, pool *LiquidityPool) error
	GetPool(ctx context.Context, id string) (*LiquidityPool, error)
	ListPools(ctx context.Context) ([]*LiquidityPool, error)
}

// QuoteRecord is one computed swap quote kept for display.
type QuoteRecord struct {
	ID         int64           `json:"id"`
	PoolID     string          `json:"pool_id"`
	SellSymbol string          `json:"sell_symbol"`
	BuySymbol  string          `json:"buy_symbol"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	BuyAmount  decimal.Decimal `json:"buy_amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// QuoteJournal is an append-only history of quotes served.
type QuoteJournal interface {
	SaveQuote(ctx context.Context, rec *QuoteRecord) error
	ListRecentQuotes(ctx context.Context, limit int) ([]*QuoteRecord, error)
}
