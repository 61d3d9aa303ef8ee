package domain

import "github.com/shopspring/decimal"

// MarginPosition is a collateralized-debt position expressed in
// human-readable decimals. Ratio = Collateral / (feedPrice * Debt).
type MarginPosition struct {
	DebtAsset             Asset            `json:"debt_asset"`
	CollateralAsset       Asset            `json:"collateral_asset"`
	Debt                  decimal.Decimal  `json:"debt"`
	Collateral            decimal.Decimal  `json:"collateral"`
	Ratio                 decimal.Decimal  `json:"ratio"`
	TargetCollateralRatio *decimal.Decimal `json:"target_collateral_ratio,omitempty"`
}

// PriceFeed is a snapshot of a bitasset's published feed. The
// settlement price is stored in chain form (base = debt asset,
// quote = collateral asset, both in base units); the collateral
// ratios arrive /1000-scaled on chain and are already divided out
// here (an MCR of 1750 becomes 1.75).
type PriceFeed struct {
	SettlementPrice Price           `json:"settlement_price"`
	MCR             decimal.Decimal `json:"mcr"`
	MSSR            decimal.Decimal `json:"mssr"`
	ICR             decimal.Decimal `json:"icr"`
}

// Value returns the feed price as collateral per unit of debt, given
// the two assets' precisions.
func (f PriceFeed) Value(debtPrecision, collateralPrecision int32) decimal.Decimal {
	if f.SettlementPrice.Base.Amount == 0 {
		return decimal.Zero
	}
	debt := decimal.New(f.SettlementPrice.Base.Amount, -debtPrecision)
	collateral := decimal.New(f.SettlementPrice.Quote.Amount, -collateralPrecision)
	return collateral.Div(debt)
}
