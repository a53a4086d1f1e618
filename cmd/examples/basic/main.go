package main

import (
	"context"
	"fmt"
	"os"

	"github.com/erain9/matchbook/pkg/backend/memory"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/notify"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	// Initialize engine with in-memory backend
	backend := memory.NewMemoryBackend()
	engine := core.NewEngine(backend, core.WithLogger(zerolog.Nop()))
	ctx := context.Background()

	seller := notify.NewLogClient("seller", logger)
	buyer := notify.NewLogClient("buyer", logger)

	// Two resting sell orders at different prices
	sell100 := engine.PlaceOrder(ctx, core.Sell, 100, 10, seller)
	sell101 := engine.PlaceOrder(ctx, core.Sell, 101, 5, seller)
	if !sell100.OK() || !sell101.OK() {
		fmt.Println("failed to place sell orders")
		os.Exit(1)
	}

	// An incoming buy sweeps the first level and part of the second
	buy := engine.PlaceOrder(ctx, core.Buy, 101, 12, buyer)
	fmt.Printf("Buy order %s: %s (%s)\n", buy.OrderID, buy.Status, buy.Reason)

	// The remaining sell can be canceled by its owner only
	resp := engine.CancelOrder(ctx, sell101.OrderID, buyer)
	fmt.Printf("Cancel by buyer: %s (%s)\n", resp.Status, resp.Reason)
	resp = engine.CancelOrder(ctx, sell101.OrderID, seller)
	fmt.Printf("Cancel by seller: %s (%s)\n", resp.Status, resp.Reason)

	// Summary
	fmt.Println("\nSummary:")
	fmt.Printf("- Trades executed: %d\n", engine.TotalTrades())
	fmt.Printf("- Live orders: %d\n", engine.LiveOrders())
	for _, side := range []core.Side{core.Sell, core.Buy} {
		for _, level := range engine.Depth(side) {
			fmt.Printf("- %s %s x %d (%d orders)\n", side, level.Price, level.Volume, level.Orders)
		}
	}
}
