package usecase

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

const feeDenominator = 10000 // basis points

// PoolQuoteCalculator prices a swap against a constant-product pool
// snapshot, net of both assets' issuer (maker) fees and the pool's own
// taker fee. It holds no state; every call is independent.
type PoolQuoteCalculator struct{}

func NewPoolQuoteCalculator() *PoolQuoteCalculator {
	return &PoolQuoteCalculator{}
}

// Quote returns the counter-asset amount received for selling
// sellAmount of the asset identified by sellAssetID into the pool.
//
// Fee rounding direction is protocol-fixed, not a style choice: issuer
// fees round up (ceiling, capped by the issuer's max fee), the curve
// output rounds down via a ceiling division of the invariant, and the
// pool taker fee rounds down. Rounding dust therefore always stays in
// the pool. The same pipeline runs in either direction.
func (c *PoolQuoteCalculator) Quote(pool *domain.LiquidityPool, sellAssetID string, sellAmount decimal.Decimal) (decimal.Decimal, error) {
	var in, out domain.Asset
	var balIn, balOut int64
	switch sellAssetID {
	case pool.AssetA.ID:
		in, out = pool.AssetA, pool.AssetB
		balIn, balOut = pool.BalanceA, pool.BalanceB
	case pool.AssetB.ID:
		in, out = pool.AssetB, pool.AssetA
		balIn, balOut = pool.BalanceB, pool.BalanceA
	default:
		return decimal.Zero, fmt.Errorf("%w: asset %s is not in pool %s", domain.ErrInvalidAmount, sellAssetID, pool.ID)
	}
	if balIn <= 0 || balOut <= 0 {
		return decimal.Zero, fmt.Errorf("%w: pool %s has an empty side", domain.ErrInsufficientLiquidity, pool.ID)
	}

	sellUnits, err := ToBaseUnits(sellAmount, in.Precision)
	if err != nil {
		return decimal.Zero, err
	}

	sold := big.NewInt(sellUnits)
	makerFeeIn := marketFee(sold, in.MarketFeePercent, in.MaxMarketFee)
	effectiveIn := new(big.Int).Sub(sold, makerFeeIn)

	// x*y = k; the pool keeps at least ceil(k/newX) of the out side.
	x := big.NewInt(balIn)
	y := big.NewInt(balOut)
	k := new(big.Int).Mul(x, y)
	newX := new(big.Int).Add(x, effectiveIn)
	rawOut := new(big.Int).Sub(y, ceilDiv(k, newX))

	takerFee := new(big.Int).Mul(rawOut, big.NewInt(pool.TakerFeePercent))
	takerFee.Div(takerFee, big.NewInt(feeDenominator))
	makerFeeOut := marketFee(rawOut, out.MarketFeePercent, out.MaxMarketFee)

	final := new(big.Int).Sub(rawOut, takerFee)
	final.Sub(final, makerFeeOut)
	if final.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: fees exceed pool output", domain.ErrInsufficientLiquidity)
	}
	return ToDecimal(final.Int64(), out.Precision)
}

// marketFee is the issuer fee on amount: ceil(amount*feeBps/10000),
// capped at maxFee, zero when the issuer charges nothing.
func marketFee(amount *big.Int, feeBps, maxFee int64) *big.Int {
	if feeBps == 0 || amount.Sign() <= 0 {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(amount, big.NewInt(feeBps))
	fee = ceilDiv(fee, big.NewInt(feeDenominator))
	if limit := big.NewInt(maxFee); fee.Cmp(limit) > 0 {
		return limit
	}
	return fee
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
