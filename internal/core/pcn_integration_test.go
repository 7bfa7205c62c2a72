package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pcb-stockroom/internal/core"
)

func registration(pcn string) core.PCNRegistration {
	return core.PCNRegistration{
		PCN:        pcn,
		Job:        "TEST-PART-001",
		MPN:        "TEST-MPN-123",
		PartNumber: "PART-001",
		Quantity:   100,
		PONumber:   "PO-2025-001",
		Location:   "8000-8999",
		PCBType:    core.PCBTypeCompleted,
		DateCode:   "2025W42",
		MSD:        "Level 3",
		CreatedBy:  "alice",
	}
}

func TestPCN_SequenceStartsAtOne(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		pcn, err := pcns.NextPCN(ctx)
		if err != nil {
			t.Fatalf("NextPCN failed: %v", err)
		}
		if pcn != fmt.Sprintf("%05d", want) {
			t.Errorf("Expected PCN %05d, got %s", want, pcn)
		}
	}
}

func TestPCN_ConcurrentMintingIsUnique(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	const workers = 20
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	seen := make(map[string]bool, workers)
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pcn, err := pcns.NextPCN(ctx)
			if err != nil {
				errCh <- err
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[pcn] {
				errCh <- fmt.Errorf("duplicate PCN issued: %s", pcn)
				return
			}
			seen[pcn] = true
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}
	if len(seen) != workers {
		t.Errorf("Expected %d distinct PCNs, got %d", workers, len(seen))
	}
}

func TestPCN_RegisterIdempotentOnIdenticalData(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	first, err := pcns.Register(ctx, registration("00045"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	second, err := pcns.Register(ctx, registration("00045"))
	if err != nil {
		t.Fatalf("Re-register with identical data should succeed, got %v", err)
	}
	if second.BarcodeData != first.BarcodeData || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Idempotent re-register must return the stored record: %+v vs %+v", first, second)
	}
}

func TestPCN_RegisterConflictOnDifferentData(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	if _, err := pcns.Register(ctx, registration("00045")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	conflicting := registration("00045")
	conflicting.Job = "OTHER-PART"
	_, err := pcns.Register(ctx, conflicting)
	var ce *core.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *ConflictError, got %v", err)
	}
	if ce.PCN != "00045" {
		t.Errorf("Expected conflict on 00045, got %s", ce.PCN)
	}
}

func TestPCN_GenerateMintsAndRegisters(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	reg := registration("")
	rec, err := pcns.Generate(ctx, reg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rec.PCNNumber != "00001" {
		t.Errorf("Expected generated PCN 00001, got %s", rec.PCNNumber)
	}
	want := "00001|TEST-PART-001|TEST-MPN-123|PART-001|100|PO-2025-001|8000-8999|Completed|2025W42|Level 3"
	if rec.BarcodeData != want {
		t.Errorf("Barcode mismatch:\n got %q\nwant %q", rec.BarcodeData, want)
	}

	looked, err := pcns.Lookup(ctx, rec.PCNNumber)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if looked.BarcodeData != want || looked.Job != "TEST-PART-001" {
		t.Errorf("Lookup returned unexpected record: %+v", looked)
	}
}

func TestPCN_LookupMiss(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	_, err := pcns.Lookup(ctx, "99999")
	var nfe *core.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("Expected *NotFoundError, got %v", err)
	}
}

func TestPCN_LookupFallsBackToHistory(t *testing.T) {
	pool, svc, pcns, _, ctx := setupStockroom(t)

	stocked, err := svc.Stock(ctx, stockRequest(100))
	if err != nil {
		t.Fatalf("Stock failed: %v", err)
	}

	// Retire the active record; the audit trail still identifies the lot.
	if _, err := pool.Exec(ctx, "DELETE FROM pcn_records WHERE pcn_number = $1", stocked.PCN); err != nil {
		t.Fatalf("Failed to retire pcn record: %v", err)
	}

	rec, err := pcns.Lookup(ctx, stocked.PCN)
	if err != nil {
		t.Fatalf("Lookup with history fallback failed: %v", err)
	}
	if rec.Job != "TEST-PART-001" || rec.Quantity != 100 || rec.CreatedBy != "alice" {
		t.Errorf("Unexpected reconstructed record: %+v", rec)
	}
}

func TestPCN_SyncSequenceRecoversFromRecords(t *testing.T) {
	pool := setupTestDB(t)
	pcns := core.NewPCNService(pool)
	ctx := context.Background()

	// Simulate a restore: records exist but the counter row is gone.
	reg := registration("00099")
	if _, err := pcns.Register(ctx, reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM pcn_sequence"); err != nil {
		t.Fatalf("Failed to clear sequence: %v", err)
	}

	if err := pcns.SyncSequence(ctx); err != nil {
		t.Fatalf("SyncSequence failed: %v", err)
	}
	pcn, err := pcns.NextPCN(ctx)
	if err != nil {
		t.Fatalf("NextPCN failed: %v", err)
	}
	if pcn != "00100" {
		t.Errorf("Expected 00100 after sync past 00099, got %s", pcn)
	}
}

func TestAudit_QueryByTimeRange(t *testing.T) {
	_, svc, _, audit, ctx := setupStockroom(t)

	before := time.Now().Add(-time.Minute)
	if _, err := svc.Stock(ctx, stockRequest(10)); err != nil {
		t.Fatalf("Stock failed: %v", err)
	}
	after := time.Now().Add(time.Minute)

	entries, err := audit.QueryByTimeRange(ctx, before, after)
	if err != nil {
		t.Fatalf("QueryByTimeRange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry in range, got %d", len(entries))
	}

	empty, err := audit.QueryByTimeRange(ctx, before.Add(-time.Hour), before)
	if err != nil {
		t.Fatalf("QueryByTimeRange (empty window) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no entries before the stock, got %d", len(empty))
	}
}
