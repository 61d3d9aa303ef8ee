package domain

import "errors"

// All four are recoverable at the caller's boundary by re-prompting or
// re-fetching; none is a crash condition and the engine never retries
// internally.
var (
	// ErrInvalidAmount marks malformed or out-of-range numeric input.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientLiquidity means the pool cannot satisfy a quote.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrOrderNotFound marks a stale order-book reference; the caller
	// refreshes the book and retries.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInfeasiblePosition means no debt/collateral pair satisfies the
	// minimum collateral ratio at the given feed price.
	ErrInfeasiblePosition = errors.New("infeasible position")
)
