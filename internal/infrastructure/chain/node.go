package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/domain"
)

const defaultCallTimeout = 10 * time.Second

// ratioScale is the /1000 encoding of collateral ratios on chain.
var ratioScale = decimal.NewFromInt(1000)

// NodeClient talks JSON-RPC over a websocket to a chain node's
// database API and maps the returned objects into domain snapshots.
// Calls are serialized on the single connection.
type NodeClient struct {
	url     string
	timeout time.Duration
	conn    *websocket.Conn
	nextID  uint64
	mu      sync.Mutex
}

func NewNodeClient(url string) *NodeClient {
	return &NodeClient{
		url:     url,
		timeout: defaultCallTimeout,
	}
}

func (c *NodeClient) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

func (c *NodeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

type rpcRequest struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("node error %d: %s", e.Code, e.Message)
}

// call runs one database-API method and decodes the result into out.
func (c *NodeClient) call(ctx context.Context, method string, params []any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("node %s: not connected", c.url)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	c.conn.SetReadDeadline(deadline)

	c.nextID++
	req := rpcRequest{
		ID:     c.nextID,
		Method: "call",
		Params: []any{0, method, params},
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	// Responses arrive in request order on the serialized connection;
	// skip any subscription notices that lack our id.
	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

// chainInt64 accepts the chain's mixed encoding of large integers as
// either JSON numbers or strings.
type chainInt64 int64

func (v *chainInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("chain integer %q: %w", data, err)
	}
	*v = chainInt64(n)
	return nil
}

type assetObject struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Precision int32  `json:"precision"`
	Options   struct {
		MarketFeePercent int64      `json:"market_fee_percent"`
		MaxMarketFee     chainInt64 `json:"max_market_fee"`
	} `json:"options"`
}

func (o assetObject) toDomain() *domain.Asset {
	return &domain.Asset{
		ID:               o.ID,
		Symbol:           o.Symbol,
		Precision:        o.Precision,
		MarketFeePercent: o.Options.MarketFeePercent,
		MaxMarketFee:     int64(o.Options.MaxMarketFee),
	}
}

type poolObject struct {
	ID              string     `json:"id"`
	AssetA          string     `json:"asset_a"`
	AssetB          string     `json:"asset_b"`
	BalanceA        chainInt64 `json:"balance_a"`
	BalanceB        chainInt64 `json:"balance_b"`
	TakerFeePercent int64      `json:"taker_fee_percent"`
}

type priceObject struct {
	Base  assetAmountObject `json:"base"`
	Quote assetAmountObject `json:"quote"`
}

type assetAmountObject struct {
	Amount  chainInt64 `json:"amount"`
	AssetID string     `json:"asset_id"`
}

func (p priceObject) toDomain() domain.Price {
	return domain.Price{
		Base:  domain.AssetAmount{Amount: int64(p.Base.Amount), AssetID: p.Base.AssetID},
		Quote: domain.AssetAmount{Amount: int64(p.Quote.Amount), AssetID: p.Quote.AssetID},
	}
}

type limitOrderObject struct {
	ID        string      `json:"id"`
	ForSale   chainInt64  `json:"for_sale"`
	SellPrice priceObject `json:"sell_price"`
}

type bitassetObject struct {
	CurrentFeed struct {
		SettlementPrice            priceObject `json:"settlement_price"`
		MaintenanceCollateralRatio int64       `json:"maintenance_collateral_ratio"`
		MaximumShortSqueezeRatio   int64       `json:"maximum_short_squeeze_ratio"`
		InitialCollateralRatio     int64       `json:"initial_collateral_ratio"`
	} `json:"current_feed"`
}

// GetAsset resolves an asset by symbol.
func (c *NodeClient) GetAsset(ctx context.Context, symbol string) (*domain.Asset, error) {
	var assets []*assetObject
	if err := c.call(ctx, "lookup_asset_symbols", []any{[]string{symbol}}, &assets); err != nil {
		return nil, err
	}
	if len(assets) == 0 || assets[0] == nil {
		return nil, fmt.Errorf("asset %s not found", symbol)
	}
	return assets[0].toDomain(), nil
}

// GetPoolByAssets returns the liquidity pool holding the two assets,
// with both asset snapshots resolved.
func (c *NodeClient) GetPoolByAssets(ctx context.Context, assetAID, assetBID string) (*domain.LiquidityPool, error) {
	var pools []poolObject
	if err := c.call(ctx, "get_liquidity_pools_by_both_assets", []any{assetAID, assetBID, 1}, &pools); err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, fmt.Errorf("no pool for %s/%s: %w", assetAID, assetBID, domain.ErrInsufficientLiquidity)
	}
	p := pools[0]

	var assets []*assetObject
	if err := c.call(ctx, "get_objects", []any{[]string{p.AssetA, p.AssetB}}, &assets); err != nil {
		return nil, err
	}
	if len(assets) != 2 || assets[0] == nil || assets[1] == nil {
		return nil, fmt.Errorf("pool %s references unknown assets", p.ID)
	}

	return &domain.LiquidityPool{
		ID:              p.ID,
		AssetA:          *assets[0].toDomain(),
		AssetB:          *assets[1].toDomain(),
		BalanceA:        int64(p.BalanceA),
		BalanceB:        int64(p.BalanceB),
		TakerFeePercent: p.TakerFeePercent,
	}, nil
}

// GetOrderBook returns resting orders selling the base asset for the
// quote asset, best price first, as the node orders them.
func (c *NodeClient) GetOrderBook(ctx context.Context, baseAssetID, quoteAssetID string, limit int) ([]domain.LimitOrder, error) {
	var orders []limitOrderObject
	if err := c.call(ctx, "get_limit_orders", []any{baseAssetID, quoteAssetID, limit}, &orders); err != nil {
		return nil, err
	}
	book := make([]domain.LimitOrder, 0, len(orders))
	for _, o := range orders {
		book = append(book, domain.LimitOrder{
			ID:        o.ID,
			SellPrice: o.SellPrice.toDomain(),
			ForSale:   int64(o.ForSale),
		})
	}
	return book, nil
}

// GetPriceFeed fetches a bitasset's current feed and divides the
// /1000-scaled ratios out.
func (c *NodeClient) GetPriceFeed(ctx context.Context, bitassetDataID string) (*domain.PriceFeed, error) {
	var objects []*bitassetObject
	if err := c.call(ctx, "get_objects", []any{[]string{bitassetDataID}}, &objects); err != nil {
		return nil, err
	}
	if len(objects) == 0 || objects[0] == nil {
		return nil, fmt.Errorf("bitasset data %s not found", bitassetDataID)
	}
	feed := objects[0].CurrentFeed
	return &domain.PriceFeed{
		SettlementPrice: feed.SettlementPrice.toDomain(),
		MCR:             decimal.NewFromInt(feed.MaintenanceCollateralRatio).Div(ratioScale),
		MSSR:            decimal.NewFromInt(feed.MaximumShortSqueezeRatio).Div(ratioScale),
		ICR:             decimal.NewFromInt(feed.InitialCollateralRatio).Div(ratioScale),
	}, nil
}
