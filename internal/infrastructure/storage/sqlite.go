package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

// SQLiteStore caches chain snapshots and keeps the quote journal.
// Decimal amounts are stored as text to survive round-trips exactly.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL UNIQUE,
			precision INTEGER NOT NULL,
			market_fee_percent INTEGER NOT NULL,
			max_market_fee INTEGER NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pools (
			id TEXT PRIMARY KEY,
			asset_a TEXT NOT NULL REFERENCES assets(id),
			asset_b TEXT NOT NULL REFERENCES assets(id),
			balance_a INTEGER NOT NULL,
			balance_b INTEGER NOT NULL,
			taker_fee_percent INTEGER NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pool_id TEXT NOT NULL,
			sell_symbol TEXT NOT NULL,
			buy_symbol TEXT NOT NULL,
			sell_amount TEXT NOT NULL,
			buy_amount TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAsset(ctx context.Context, asset *domain.Asset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assets (id, symbol, precision, market_fee_percent, max_market_fee, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.Symbol, asset.Precision, asset.MarketFeePercent, asset.MaxMarketFee, time.Now().UTC())
	return err
}

func (s *SQLiteStore) GetAsset(ctx context.Context, symbol string) (*domain.Asset, error) {
	var a domain.Asset
	err := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, precision, market_fee_percent, max_market_fee FROM assets WHERE symbol = ?`,
		symbol).Scan(&a.ID, &a.Symbol, &a.Precision, &a.MarketFeePercent, &a.MaxMarketFee)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SQLiteStore) SavePool(ctx context.Context, pool *domain.LiquidityPool) error {
	if err := s.SaveAsset(ctx, &pool.AssetA); err != nil {
		return err
	}
	if err := s.SaveAsset(ctx, &pool.AssetB); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pools (id, asset_a, asset_b, balance_a, balance_b, taker_fee_percent, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pool.ID, pool.AssetA.ID, pool.AssetB.ID, pool.BalanceA, pool.BalanceB, pool.TakerFeePercent, time.Now().UTC())
	return err
}

const poolSelect = `
	SELECT p.id, p.balance_a, p.balance_b, p.taker_fee_percent,
	       a.id, a.symbol, a.precision, a.market_fee_percent, a.max_market_fee,
	       b.id, b.symbol, b.precision, b.market_fee_percent, b.max_market_fee
	FROM pools p
	JOIN assets a ON a.id = p.asset_a
	JOIN assets b ON b.id = p.asset_b`

func scanPool(row interface{ Scan(...any) error }) (*domain.LiquidityPool, error) {
	var p domain.LiquidityPool
	err := row.Scan(
		&p.ID, &p.BalanceA, &p.BalanceB, &p.TakerFeePercent,
		&p.AssetA.ID, &p.AssetA.Symbol, &p.AssetA.Precision, &p.AssetA.MarketFeePercent, &p.AssetA.MaxMarketFee,
		&p.AssetB.ID, &p.AssetB.Symbol, &p.AssetB.Precision, &p.AssetB.MarketFeePercent, &p.AssetB.MaxMarketFee,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) GetPool(ctx context.Context, id string) (*domain.LiquidityPool, error) {
	return scanPool(s.db.QueryRowContext(ctx, poolSelect+` WHERE p.id = ?`, id))
}

func (s *SQLiteStore) ListPools(ctx context.Context) ([]*domain.LiquidityPool, error) {
	rows, err := s.db.QueryContext(ctx, poolSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []*domain.LiquidityPool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func (s *SQLiteStore) SaveQuote(ctx context.Context, rec *domain.QuoteRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (pool_id, sell_symbol, buy_symbol, sell_amount, buy_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.PoolID, rec.SellSymbol, rec.BuySymbol, rec.SellAmount.String(), rec.BuyAmount.String(), rec.CreatedAt)
	if err != nil {
		return err
	}
	rec.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) ListRecentQuotes(ctx context.Context, limit int) ([]*domain.QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pool_id, sell_symbol, buy_symbol, sell_amount, buy_amount, created_at
		 FROM quotes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.QuoteRecord
	for rows.Next() {
		var rec domain.QuoteRecord
		var sellAmount, buyAmount string
		if err := rows.Scan(&rec.ID, &rec.PoolID, &rec.SellSymbol, &rec.BuySymbol, &sellAmount, &buyAmount, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if rec.SellAmount, err = decimal.NewFromString(sellAmount); err != nil {
			return nil, fmt.Errorf("quote %d sell amount: %w", rec.ID, err)
		}
		if rec.BuyAmount, err = decimal.NewFromString(buyAmount); err != nil {
			return nil, fmt.Errorf("quote %d buy amount: %w", rec.ID, err)
		}
		quotes = append(quotes, &rec)
	}
	return quotes, rows.Err()
}
