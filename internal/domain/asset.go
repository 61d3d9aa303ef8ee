package domain

// Asset is an immutable snapshot of a chain asset object.
// MarketFeePercent is basis points (0..10000); MaxMarketFee caps the
// fee in integer base units.
type Asset struct {
	ID               string `json:"id"` // chain object id, e.g. "1.3.0"
	Symbol           string `json:"symbol"`
	Precision        int32  `json:"precision"` // base-unit exponent
	MarketFeePercent int64  `json:"market_fee_percent"`
	MaxMarketFee     int64  `json:"max_market_fee"`
}

// LiquidityPool is a read-only snapshot of a two-asset constant-product
// pool. Balances are integer base units of the respective assets.
// The engine never mutates a pool; callers re-fetch after a trade
// executes on-chain.
type LiquidityPool struct {
	ID              string `json:"id"`
	AssetA          Asset  `json:"asset_a"`
	AssetB          Asset  `json:"asset_b"`
	BalanceA        int64  `json:"balance_a"`
	BalanceB        int64  `json:"balance_b"`
	TakerFeePercent int64  `json:"taker_fee_percent"` // basis points
}
