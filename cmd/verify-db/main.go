// verify-db runs read-only consistency checks against the stockroom
// database: quantity invariants, PCN uniqueness, and agreement between
// inventory quantities and the summed audit deltas.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"log"
	"os"

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

	failures := 0

	// 1. No inventory record may hold a negative quantity.
	var negativeCount int
	err = pool.QueryRow(ctx,
		"SELECT count(*) FROM inventory_records WHERE quantity < 0",
	).Scan(&negativeCount)
	if err != nil {
		log.Fatalf("[QTY] query failed: %v", err)
	}
	if negativeCount > 0 {
		log.Printf("[QTY] FAIL: %d records with negative quantity", negativeCount)
		failures++
	} else {
		log.Println("[QTY] ok: no negative quantities")
	}

	// 2. PCN numbers are unique across records (the PK enforces this;
	// check anyway in case the table was loaded from an external dump).
	var dupPCNs int
	err = pool.QueryRow(ctx, `
		SELECT count(*) FROM (
			SELECT pcn_number FROM pcn_records GROUP BY pcn_number HAVING count(*) > 1
		) d
	`).Scan(&dupPCNs)
	if err != nil {
		log.Fatalf("[PCN] query failed: %v", err)
	}
	if dupPCNs > 0 {
		log.Printf("[PCN] FAIL: %d duplicated control numbers", dupPCNs)
		failures++
	} else {
		log.Println("[PCN] ok: control numbers unique")
	}

	// 3. The sequence must be at or past the highest minted number,
	// otherwise the next mint would collide.
	var behind bool
	err = pool.QueryRow(ctx, `
		SELECT COALESCE((SELECT last_number FROM pcn_sequence WHERE id = 1), 0) <
		       COALESCE((SELECT MAX(pcn_number::bigint) FROM pcn_records), 0)
	`).Scan(&behind)
	if err != nil {
		log.Fatalf("[SEQ] query failed: %v", err)
	}
	if behind {
		log.Println("[SEQ] FAIL: pcn_sequence is behind pcn_records; run the server or SyncSequence")
		failures++
	} else {
		log.Println("[SEQ] ok: sequence at or past minted maximum")
	}

	// 4. Per PCN, the summed audit deltas must equal the current
	// inventory quantity. UPDATE entries carry the adjustment delta, so
	// the running sum tracks the stored value exactly.
	rows, err := pool.Query(ctx, `
		SELECT ir.pcn, SUM(ir.quantity) AS stored, COALESCE(tl.total, 0) AS logged
		FROM inventory_records ir
		LEFT JOIN (
			SELECT pcn, SUM(quantity_delta) AS total FROM transaction_log GROUP BY pcn
		) tl ON tl.pcn = ir.pcn
		WHERE ir.pcn IS NOT NULL
		GROUP BY ir.pcn, tl.total
		HAVING SUM(ir.quantity) <> COALESCE(tl.total, 0)
	`)
	if err != nil {
		log.Fatalf("[AUDIT] query failed: %v", err)
	}
	defer rows.Close()

	divergent := 0
	for rows.Next() {
		var pcn string
		var stored, logged int64
		if err := rows.Scan(&pcn, &stored, &logged); err != nil {
			log.Fatalf("[AUDIT] scan failed: %v", err)
		}
		log.Printf("[AUDIT] FAIL: pcn %s stored=%d logged=%d", pcn, stored, logged)
		divergent++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("[AUDIT] iteration failed: %v", err)
	}
	if divergent > 0 {
		failures++
	} else {
		log.Println("[AUDIT] ok: inventory matches summed audit deltas")
	}

	if failures > 0 {
		log.Printf("[DONE] %d check(s) failed", failures)
		os.Exit(1)
	}
	log.Println("[DONE] all checks passed")
}
