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
	base := flag.String("base", "", "symbol of the asset being bought")
	quote := flag.String("quote", "", "symbol of the asset being paid")
	amount := flag.String("amount", "0", "desired cumulative buy amount")
	depth := flag.Int("depth", 20, "book depth to fetch")
	flag.Parse()

	if *base == "" || *quote == "" {
		log.Fatal("Missing -base or -quote")
	}
	desired, err := decimal.NewFromString(*amount)
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

	baseAsset, err := client.GetAsset(ctx, *base)
	if err != nil {
		log.Fatalf("Error resolving %s: %v", *base, err)
	}
	quoteAsset, err := client.GetAsset(ctx, *quote)
	if err != nil {
		log.Fatalf("Error resolving %s: %v", *quote, err)
	}

	fmt.Printf("Fetching order book %s/%s...\n", baseAsset.Symbol, quoteAsset.Symbol)
	book, err := client.GetOrderBook(ctx, baseAsset.ID, quoteAsset.ID, *depth)
	if err != nil {
		log.Fatalf("Error fetching order book: %v", err)
	}
	fmt.Printf("Book: %d orders\n", len(book))
	for i, order := range book {
		fmt.Printf("  [%d] %s for_sale=%d base=%d/%s quote=%d/%s\n",
			i, order.ID, order.ForSale,
			order.SellPrice.Base.Amount, order.SellPrice.Base.AssetID,
			order.SellPrice.Quote.Amount, order.SellPrice.Quote.AssetID)
	}

	if desired.IsZero() {
		return
	}
	plan, err := usecase.NewBookWalker().WalkBook(book, baseAsset.Precision, desired)
	if err != nil {
		log.Fatalf("Error planning fills: %v", err)
	}
	fmt.Printf("\nFill plan for %s %s:\n", desired, baseAsset.Symbol)
	for _, fill := range plan {
		fmt.Printf("  [%d] %s -> %s\n", fill.Index, fill.OrderID, fill.BuyAmount)
	}
	fmt.Printf("Total: %s\n", plan.Total())
}
