package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

// LockedAxis names the one field of a margin position the user is
// holding fixed; the other two are derived from it and the feed price.
// Modelling this as a single tagged value rules out the state where
// zero or several axes are locked at once.
type LockedAxis string

const (
	LockDebt       LockedAxis = "debt"
	LockCollateral LockedAxis = "collateral"
	LockRatio      LockedAxis = "ratio"
)

// ratioCeiling is the system-wide sane upper bound for a requested
// collateral ratio.
var ratioCeiling = decimal.NewFromInt(20)

// PositionInput is a snapshot of the position being edited plus the
// feed parameters it is solved against. FeedPrice is collateral per
// unit of debt; MCR is the debt asset's minimum collateral ratio
// already divided out of its /1000 chain scale.
type PositionInput struct {
	Locked                LockedAxis
	FeedPrice             decimal.Decimal
	MCR                   decimal.Decimal
	Debt                  decimal.Decimal
	Collateral            decimal.Decimal
	Ratio                 decimal.Decimal
	TargetCollateralRatio *decimal.Decimal
	DebtPrecision         int32
	CollateralPrecision   int32
}

// PositionResult is a ratio-consistent position. CallPrice is the feed
// price at which the position becomes eligible for forced liquidation;
// it is derived last from the settled debt/collateral pair and is
// never an input.
type PositionResult struct {
	Debt       decimal.Decimal `json:"debt"`
	Collateral decimal.Decimal `json:"collateral"`
	Ratio      decimal.Decimal `json:"ratio"`
	CallPrice  decimal.Decimal `json:"call_price"`
}

// PositionSolver solves the debt/collateral/ratio constraint graph of
// a collateralized-debt position around whichever axis is locked.
type PositionSolver struct{}

func NewPositionSolver() *PositionSolver {
	return &PositionSolver{}
}

// Solve derives the two unlocked fields from the locked one and the
// feed price, then recomputes the call price.
//
// Derived collateral rounds up to its precision and derived debt
// rounds down, so the settled ratio never lands below the one asked
// for. Whenever a derived value would fall under one base unit it is
// raised to that floor and the ratio recomputed; if even that cannot
// keep the ratio at or above MCR the input is rejected with
// ErrInfeasiblePosition rather than silently clamped past the floor.
// Re-solving with a returned result as input is a fixed point.
func (s *PositionSolver) Solve(in PositionInput) (*PositionResult, error) {
	if err := checkPrecision(in.DebtPrecision); err != nil {
		return nil, err
	}
	if err := checkPrecision(in.CollateralPrecision); err != nil {
		return nil, err
	}
	if in.FeedPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: feed price %s", domain.ErrInfeasiblePosition, in.FeedPrice)
	}
	if in.MCR.Sign() <= 0 {
		return nil, fmt.Errorf("%w: mcr %s", domain.ErrInvalidAmount, in.MCR)
	}
	if in.Debt.IsNegative() || in.Collateral.IsNegative() || in.Ratio.IsNegative() {
		return nil, fmt.Errorf("%w: negative position field", domain.ErrInvalidAmount)
	}

	// Requested ratio is only meaningful inside [MCR, ceiling]; the
	// settled ratio may end up above the ceiling after floor raising.
	ratio := in.Ratio
	if ratio.LessThan(in.MCR) {
		ratio = in.MCR
	}
	if ratio.GreaterThan(ratioCeiling) {
		ratio = ratioCeiling
	}

	var debt, collateral decimal.Decimal
	var err error
	switch in.Locked {
	case LockDebt:
		debt = in.Debt
		if debt.Sign() <= 0 {
			return nil, fmt.Errorf("%w: locked debt must be positive", domain.ErrInvalidAmount)
		}
		collateral, ratio = s.deriveCollateral(debt, ratio, in)
	case LockCollateral:
		collateral = in.Collateral
		if collateral.Sign() <= 0 {
			return nil, fmt.Errorf("%w: locked collateral must be positive", domain.ErrInvalidAmount)
		}
		debt, ratio, err = s.deriveDebt(collateral, ratio, in)
		if err != nil {
			return nil, err
		}
	case LockRatio:
		switch {
		case in.Debt.Sign() > 0:
			debt = in.Debt
			collateral, ratio = s.deriveCollateral(debt, ratio, in)
		case in.Collateral.Sign() > 0:
			collateral = in.Collateral
			debt, ratio, err = s.deriveDebt(collateral, ratio, in)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: locked ratio needs a debt or collateral amount", domain.ErrInvalidAmount)
		}
	default:
		return nil, fmt.Errorf("%w: unknown locked axis %q", domain.ErrInvalidAmount, in.Locked)
	}

	if ratio.LessThan(in.MCR) {
		return nil, fmt.Errorf("%w: settled ratio %s below mcr %s", domain.ErrInfeasiblePosition, ratio, in.MCR)
	}

	// Margin calls are sized from the target collateral ratio when the
	// position carries one, else from MCR.
	effectiveRatio := in.MCR
	if in.TargetCollateralRatio != nil && in.TargetCollateralRatio.GreaterThan(in.MCR) {
		effectiveRatio = *in.TargetCollateralRatio
	}
	callPrice := in.FeedPrice.Mul(collateral.Div(debt.Mul(in.FeedPrice).Mul(effectiveRatio)))

	return &PositionResult{
		Debt:       debt,
		Collateral: collateral,
		Ratio:      ratio,
		CallPrice:  callPrice,
	}, nil
}

// deriveCollateral sizes collateral for a fixed debt at the requested
// ratio, raising it to one collateral base unit when it would round to
// nothing. Raising collateral can only lift the settled ratio, so the
// MCR floor is preserved.
func (s *PositionSolver) deriveCollateral(debt, ratio decimal.Decimal, in PositionInput) (decimal.Decimal, decimal.Decimal) {
	collateral := quantizeCeil(debt.Mul(in.FeedPrice).Mul(ratio), in.CollateralPrecision)
	if floor := MinTradeableUnit(in.CollateralPrecision); collateral.LessThan(floor) {
		collateral = floor
	}
	settled := collateral.Div(in.FeedPrice.Mul(debt))
	return collateral, settled
}

// deriveDebt sizes debt for fixed collateral at the requested ratio.
// Debt rounds down; when it rounds to nothing it is raised to one debt
// base unit, which lowers the settled ratio and may make the position
// infeasible.
func (s *PositionSolver) deriveDebt(collateral, ratio decimal.Decimal, in PositionInput) (decimal.Decimal, decimal.Decimal, error) {
	debt := quantizeFloor(collateral.Div(in.FeedPrice.Mul(ratio)), in.DebtPrecision)
	if floor := MinTradeableUnit(in.DebtPrecision); debt.LessThan(floor) {
		debt = floor
	}
	settled := collateral.Div(in.FeedPrice.Mul(debt))
	if settled.LessThan(in.MCR) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: collateral %s cannot support one debt unit at mcr %s", domain.ErrInfeasiblePosition, collateral, in.MCR)
	}
	return debt, settled, nil
}

// quantizeGuard absorbs decimal division noise (the ratios above are
// 16-digit divisions) before the directional rounding; without it a
// re-solved fixed point could creep one base unit per pass.
const quantizeGuard int32 = 8

func quantizeCeil(v decimal.Decimal, precision int32) decimal.Decimal {
	return v.Round(precision + quantizeGuard).RoundCeil(precision)
}

func quantizeFloor(v decimal.Decimal, precision int32) decimal.Decimal {
	return v.Round(precision + quantizeGuard).RoundFloor(precision)
}
