package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitos/dex_trade_engine/internal/infrastructure/chain"
	"github.com/vitos/dex_trade_engine/internal/usecase"
)

func main() {
	node := flag.String("node", "wss://api.bitshares.ws/ws", "node websocket endpoint")
	sell := flag.String("sell", "", "symbol of the asset to sell")
	buy := flag.String("buy", "", "symbol of the asset to buy")
	amount := flag.String("amount", "", "sell amount (decimal)")
	flag.Parse()

	if *sell == "" || *buy == "" || *amount == "" {
		log.Fatal("Missing -sell, -buy or -amount")
	}
	sellAmount, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatalf("Invalid amount %q: %v", *amount, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := chain.NewNodeClient(*node)
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Error connecting to node: %v", err)
	}
	defer client.Close()

	sellAsset, err := client.GetAsset(ctx, *sell)
	if err != nil {
		log.Fatalf("Error resolving %s: %v", *sell, err)
	}
	buyAsset, err := client.GetAsset(ctx, *buy)
	if err != nil {
		log.Fatalf("Error resolving %s: %v", *buy, err)
	}

	pool, err := client.GetPoolByAssets(ctx, sellAsset.ID, buyAsset.ID)
	if err != nil {
		log.Fatalf("Error fetching pool: %v", err)
	}
	fmt.Printf("Pool %s: %s %d / %s %d (taker fee %d bps)\n",
		pool.ID, pool.AssetA.Symbol, pool.BalanceA, pool.AssetB.Symbol, pool.BalanceB, pool.TakerFeePercent)

	buyAmount, err := usecase.NewPoolQuoteCalculator().Quote(pool, sellAsset.ID, sellAmount)
	if err != nil {
		log.Fatalf("Error quoting: %v", err)
	}
	fmt.Printf("Selling %s %s yields %s %s\n", sellAmount, sellAsset.Symbol, buyAmount, buyAsset.Symbol)
}
