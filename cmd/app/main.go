package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"pcb-stockroom/internal/adapters/cli"
	"pcb-stockroom/internal/app"
	"pcb-stockroom/internal/core"
	"pcb-stockroom/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: app <stock|pick|update|lookup|generate|decode|log|levels> [args]")
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	pcnService := core.NewPCNService(pool)
	auditService := core.NewAuditService(pool)
	locationRules := core.NewLocationRules(pool)
	stockroom := core.NewStockroomService(pool, pcnService, auditService, locationRules)

	if err := pcnService.SyncSequence(ctx); err != nil {
		log.Fatalf("pcn sequence sync: %v", err)
	}

	svc := app.NewAppService(pool, stockroom, pcnService, auditService)
	cli.Run(ctx, svc, os.Args[1:])
}
