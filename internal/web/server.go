package web

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vitos/dex_trade_engine/internal/domain"
	"github.com/vitos/dex_trade_engine/internal/usecase"
)

// Server exposes the calculators over a small JSON API. It owns no
// state of its own; every request fetches a fresh snapshot through the
// gateway and runs one calculation against it.
type Server struct {
	router  *http.ServeMux
	server  *http.Server
	gateway domain.ChainGateway
	journal domain.QuoteJournal
	quotes  *usecase.PoolQuoteCalculator
	walker  *usecase.BookWalker
	solver  *usecase.PositionSolver
	logger  *zap.Logger
}

func NewServer(
	port int,
	gateway domain.ChainGateway,
	journal domain.QuoteJournal,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		gateway: gateway,
		journal: journal,
		quotes:  usecase.NewPoolQuoteCalculator(),
		walker:  usecase.NewBookWalker(),
		solver:  usecase.NewPositionSolver(),
		logger:  logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Swap quote against a pool snapshot
	s.router.HandleFunc("POST /api/quote", s.handleQuote)

	// Fill plan over an order-book snapshot
	s.router.HandleFunc("POST /api/plan", s.handlePlan)

	// Collateral position solving
	s.router.HandleFunc("POST /api/position", s.handlePosition)

	// Quote history
	s.router.HandleFunc("GET /api/quotes/recent", s.handleRecentQuotes)

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
