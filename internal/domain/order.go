package domain

import "github.com/shopspring/decimal"

// AssetAmount is an integer base-unit amount of one asset.
type AssetAmount struct {
	Amount  int64  `json:"amount"`
	AssetID string `json:"asset_id"`
}

// Price is the ratio a resting order is willing to trade at,
// expressed as base units for sale against quote units wanted.
type Price struct {
	Base  AssetAmount `json:"base"`
	Quote AssetAmount `json:"quote"`
}

// LimitOrder is a snapshot of a resting order. ForSale is the amount of
// SellPrice.Base.AssetID still on offer, in base units. Books are
// presented best price first; the walker never mutates the source
// orders.
type LimitOrder struct {
	ID        string `json:"id"`
	SellPrice Price  `json:"sell_price"`
	ForSale   int64  `json:"for_sale"`
}

// Fill is one line of a fill plan: how much of the counter asset the
// taker draws from one resting order.
type Fill struct {
	Index     int             `json:"index"`
	OrderID   string          `json:"order_id"`
	BuyAmount decimal.Decimal `json:"buy_amount"`
}

// FillSelection is an ordered fill plan over a book, shallowest order
// first. Every entry except possibly the deepest is at full order
// capacity.
type FillSelection []Fill

// Total returns the cumulative counter-asset amount across the plan.
func (s FillSelection) Total() decimal.Decimal {
	total := decimal.Zero
	for _, f := range s {
		total = total.Add(f.BuyAmount)
	}
	return total
}
