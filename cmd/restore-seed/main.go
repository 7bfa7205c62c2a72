// restore-seed is a one-shot tool to restore the stockroom's configured
// location ranges. Run it after a fresh migration or when the
// location_rules table has been accidentally wiped.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"pcb-stockroom/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring location ranges...")
	_, err = tx.Exec(ctx, `
		INSERT INTO location_rules (range_start, range_end, label, active) VALUES
		(1000, 1999, '1000-1999', true),
		(2000, 2999, '2000-2999', true),
		(3000, 3999, '3000-3999', true),
		(4000, 4999, '4000-4999', true),
		(5000, 5999, '5000-5999', true),
		(6000, 6999, '6000-6999', true),
		(7000, 7999, '7000-7999', true),
		(8000, 8999, '8000-8999', true),
		(9000, 9999, '9000-9999', true)
		ON CONFLICT (label) DO UPDATE
		  SET range_start = EXCLUDED.range_start,
		      range_end = EXCLUDED.range_end,
		      active = EXCLUDED.active;
	`)
	if err != nil {
		log.Fatalf("Failed to restore location ranges: %v", err)
	}

	log.Println("Initializing PCN sequence...")
	_, err = tx.Exec(ctx, `
		INSERT INTO pcn_sequence (id, last_number) VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to initialize pcn sequence: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit seed data: %v", err)
	}
	log.Println("Seed restore complete.")
}
