package usecase

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

// FillRequest is one user interaction with the book: a desired
// counter-asset amount at a specific order index.
type FillRequest struct {
	Index     int
	BuyAmount decimal.Decimal
}

// BookWalker derives a fill plan from an ordered book (best price
// first). It is a pure reducer over (prior selection, request); the
// same inputs always produce the same plan and the source orders are
// never mutated.
type BookWalker struct{}

func NewBookWalker() *BookWalker {
	return &BookWalker{}
}

// Apply folds one request into a prior selection.
//
// The book is consumed front to back: a nonzero request at index i
// backfills every shallower order at full capacity, and a request
// below the order's full capacity drops every deeper entry, since a
// partially filled shallow order makes deeper commitments unreachable
// at the quoted price. A request of exactly zero removes the entry
// rather than leaving a zero line item. Requests are clamped to
// [0, order capacity].
//
// precision is the base-unit exponent of the asset the book's orders
// have for sale. A request index outside the current book, or a prior
// entry that no longer matches it, fails with ErrOrderNotFound; the
// caller re-fetches the book and retries.
func (w *BookWalker) Apply(book []domain.LimitOrder, precision int32, req FillRequest, prior domain.FillSelection) (domain.FillSelection, error) {
	if req.Index < 0 || req.Index >= len(book) {
		return nil, fmt.Errorf("%w: index %d in a book of %d", domain.ErrOrderNotFound, req.Index, len(book))
	}

	selected := make(map[int]decimal.Decimal, len(prior)+req.Index+1)
	for _, f := range prior {
		if f.Index < 0 || f.Index >= len(book) || book[f.Index].ID != f.OrderID {
			return nil, fmt.Errorf("%w: stale selection entry for order %s", domain.ErrOrderNotFound, f.OrderID)
		}
		selected[f.Index] = f.BuyAmount
	}

	capacity, err := ToDecimal(book[req.Index].ForSale, precision)
	if err != nil {
		return nil, err
	}
	amount := req.BuyAmount
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(capacity) {
		amount = capacity
	}

	if amount.IsZero() {
		delete(selected, req.Index)
	} else {
		selected[req.Index] = amount
		// Backfill: the book must be exhausted top-down before a deeper
		// order can be consumed at all.
		for i := 0; i < req.Index; i++ {
			full, err := ToDecimal(book[i].ForSale, precision)
			if err != nil {
				return nil, err
			}
			selected[i] = full
		}
	}

	if amount.LessThan(capacity) {
		for i := range selected {
			if i > req.Index {
				delete(selected, i)
			}
		}
	}

	indices := make([]int, 0, len(selected))
	for i := range selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	result := make(domain.FillSelection, 0, len(indices))
	for _, i := range indices {
		result = append(result, domain.Fill{
			Index:     i,
			OrderID:   book[i].ID,
			BuyAmount: selected[i],
		})
	}
	return result, nil
}

// WalkBook plans a cumulative buy of the desired counter-asset amount
// front to back: each order is taken at full capacity until the
// remainder fits inside one order. A book too shallow for the desired
// amount yields a plan covering everything available.
func (w *BookWalker) WalkBook(book []domain.LimitOrder, precision int32, desired decimal.Decimal) (domain.FillSelection, error) {
	if desired.IsNegative() {
		return nil, fmt.Errorf("%w: negative desired amount %s", domain.ErrInvalidAmount, desired)
	}

	plan := make(domain.FillSelection, 0)
	remaining := desired
	for i, order := range book {
		if remaining.IsZero() {
			break
		}
		capacity, err := ToDecimal(order.ForSale, precision)
		if err != nil {
			return nil, err
		}
		take := remaining
		if take.GreaterThan(capacity) {
			take = capacity
		}
		if take.IsZero() {
			continue
		}
		plan = append(plan, domain.Fill{Index: i, OrderID: order.ID, BuyAmount: take})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}
