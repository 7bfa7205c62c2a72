package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "pcb-stockroom/internal/adapters/web"
	"pcb-stockroom/internal/app"
	"pcb-stockroom/internal/core"
	"pcb-stockroom/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	pcnService := core.NewPCNService(pool)
	auditService := core.NewAuditService(pool)
	locationRules := core.NewLocationRules(pool)
	stockroom := core.NewStockroomService(pool, pcnService, auditService, locationRules)

	// Recover the control-number counter from the persisted maximum so a
	// restored database never re-issues a number.
	if err := pcnService.SyncSequence(ctx); err != nil {
		log.Fatalf("pcn sequence sync: %v", err)
	}

	svc := app.NewAppService(pool, stockroom, pcnService, auditService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("stockroom server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
