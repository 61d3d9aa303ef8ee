package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitos/dex_trade_engine/internal/domain"
	"github.com/vitos/dex_trade_engine/internal/usecase"
)

// statusForError maps the engine's error taxonomy onto HTTP statuses.
// All four are client-recoverable; only unknown failures become a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientLiquidity):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInfeasiblePosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

type quoteRequest struct {
	SellSymbol string          `json:"sell_symbol"`
	BuySymbol  string          `json:"buy_symbol"`
	SellAmount decimal.Decimal `json:"sell_amount"`
}

type quoteResponse struct {
	PoolID     string          `json:"pool_id"`
	SellSymbol string          `json:"sell_symbol"`
	BuySymbol  string          `json:"buy_symbol"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	BuyAmount  decimal.Decimal `json:"buy_amount"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sellAsset, err := s.gateway.GetAsset(ctx, req.SellSymbol)
	if err != nil {
		s.logger.Error("Failed to resolve sell asset", zap.String("symbol", req.SellSymbol), zap.Error(err))
		s.writeError(w, err)
		return
	}
	buyAsset, err := s.gateway.GetAsset(ctx, req.BuySymbol)
	if err != nil {
		s.logger.Error("Failed to resolve buy asset", zap.String("symbol", req.BuySymbol), zap.Error(err))
		s.writeError(w, err)
		return
	}
	pool, err := s.gateway.GetPoolByAssets(ctx, sellAsset.ID, buyAsset.ID)
	if err != nil {
		s.logger.Error("Failed to fetch pool", zap.Error(err))
		s.writeError(w, err)
		return
	}

	buyAmount, err := s.quotes.Quote(pool, sellAsset.ID, req.SellAmount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.journal != nil {
		rec := &domain.QuoteRecord{
			PoolID:     pool.ID,
			SellSymbol: sellAsset.Symbol,
			BuySymbol:  buyAsset.Symbol,
			SellAmount: req.SellAmount,
			BuyAmount:  buyAmount,
		}
		if err := s.journal.SaveQuote(ctx, rec); err != nil {
			s.logger.Error("Failed to journal quote", zap.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, quoteResponse{
		PoolID:     pool.ID,
		SellSymbol: sellAsset.Symbol,
		BuySymbol:  buyAsset.Symbol,
		SellAmount: req.SellAmount,
		BuyAmount:  buyAmount,
	})
}

type planRequest struct {
	BaseSymbol    string          `json:"base_symbol"`
	QuoteSymbol   string          `json:"quote_symbol"`
	DesiredAmount decimal.Decimal `json:"desired_amount"`
	Depth         int             `json:"depth"`
}

type planResponse struct {
	Fills domain.FillSelection `json:"fills"`
	Total decimal.Decimal      `json:"total"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Depth <= 0 {
		req.Depth = 50
	}

	ctx := r.Context()
	base, err := s.gateway.GetAsset(ctx, req.BaseSymbol)
	if err != nil {
		s.logger.Error("Failed to resolve base asset", zap.String("symbol", req.BaseSymbol), zap.Error(err))
		s.writeError(w, err)
		return
	}
	quote, err := s.gateway.GetAsset(ctx, req.QuoteSymbol)
	if err != nil {
		s.logger.Error("Failed to resolve quote asset", zap.String("symbol", req.QuoteSymbol), zap.Error(err))
		s.writeError(w, err)
		return
	}
	book, err := s.gateway.GetOrderBook(ctx, base.ID, quote.ID, req.Depth)
	if err != nil {
		s.logger.Error("Failed to fetch order book", zap.Error(err))
		s.writeError(w, err)
		return
	}

	plan, err := s.walker.WalkBook(book, base.Precision, req.DesiredAmount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, planResponse{Fills: plan, Total: plan.Total()})
}

type positionRequest struct {
	Locked                usecase.LockedAxis `json:"locked"`
	FeedPrice             decimal.Decimal    `json:"feed_price"`
	MCR                   decimal.Decimal    `json:"mcr"`
	Debt                  decimal.Decimal    `json:"debt"`
	Collateral            decimal.Decimal    `json:"collateral"`
	Ratio                 decimal.Decimal    `json:"ratio"`
	TargetCollateralRatio *decimal.Decimal   `json:"target_collateral_ratio,omitempty"`
	DebtPrecision         int32              `json:"debt_precision"`
	CollateralPrecision   int32              `json:"collateral_precision"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.solver.Solve(usecase.PositionInput{
		Locked:                req.Locked,
		FeedPrice:             req.FeedPrice,
		MCR:                   req.MCR,
		Debt:                  req.Debt,
		Collateral:            req.Collateral,
		Ratio:                 req.Ratio,
		TargetCollateralRatio: req.TargetCollateralRatio,
		DebtPrecision:         req.DebtPrecision,
		CollateralPrecision:   req.CollateralPrecision,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecentQuotes(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.writeJSON(w, http.StatusOK, []*domain.QuoteRecord{})
		return
	}
	quotes, err := s.journal.ListRecentQuotes(r.Context(), 50)
	if err != nil {
		s.logger.Error("Failed to list quotes", zap.Error(err))
		http.Error(w, "failed to list quotes", http.StatusInternalServerError)
		return
	}
	if quotes == nil {
		quotes = []*domain.QuoteRecord{}
	}
	s.writeJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
