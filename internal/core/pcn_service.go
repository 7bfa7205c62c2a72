package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PCNService owns the control-number sequence and the durable PCN records.
// The counter is global: one sequence across all jobs, types, and
// locations. Gaps from aborted transactions are acceptable; duplicate
// issuance is not.
type PCNService interface {
	// NextPCN reserves the next control number in its own transaction.
	NextPCN(ctx context.Context) (string, error)
	// NextPCNTx reserves the next control number inside the caller's
	// transaction; the reservation rolls back with it.
	NextPCNTx(ctx context.Context, tx pgx.Tx) (string, error)

	// Register persists a PCNRecord, computing barcode_data from the full
	// label fields. Re-registration with identical data is a no-op;
	// mismatched data returns a *ConflictError.
	Register(ctx context.Context, reg PCNRegistration) (*PCNRecord, error)
	RegisterTx(ctx context.Context, tx pgx.Tx, reg PCNRegistration) (*PCNRecord, error)

	// Generate mints a fresh PCN and registers it atomically, returning
	// the stored record with its encoded barcode string.
	Generate(ctx context.Context, reg PCNRegistration) (*PCNRecord, error)

	// Lookup returns the record for a control number, falling back to the
	// transaction history when the active record is gone. Misses return a
	// *NotFoundError.
	Lookup(ctx context.Context, pcn string) (*PCNRecord, error)

	// SyncSequence reinitializes the counter from the persisted maximum.
	// Called once at startup so the sequence survives restores and manual
	// data loads.
	SyncSequence(ctx context.Context) error
}

// PCNRegistration carries the label fields for a PCN registration.
// Location and PCBType are encoded into barcode_data but not stored as
// columns; the inventory record owns them.
type PCNRegistration struct {
	PCN        string // empty for Generate; required for Register
	Job        string
	MPN        string
	PartNumber string
	Quantity   int
	PONumber   string
	Location   string
	PCBType    PCBType
	DateCode   string
	MSD        string
	WorkOrder  string
	CreatedBy  string
}

func (reg PCNRegistration) payload(pcn string) BarcodePayload {
	qty := ""
	if reg.Quantity > 0 {
		qty = strconv.Itoa(reg.Quantity)
	}
	return BarcodePayload{
		PCN:        pcn,
		Item:       reg.Job,
		MPN:        reg.MPN,
		PartNumber: reg.PartNumber,
		Quantity:   qty,
		PO:         reg.PONumber,
		Location:   reg.Location,
		PCBType:    string(reg.PCBType),
		DateCode:   reg.DateCode,
		MSD:        reg.MSD,
	}
}

type pcnService struct {
	pool *pgxpool.Pool
}

func NewPCNService(pool *pgxpool.Pool) PCNService {
	return &pcnService{pool: pool}
}

func (s *pcnService) NextPCN(ctx context.Context) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pcn, err := s.NextPCNTx(ctx, tx)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit pcn reservation: %w", err)
	}
	return pcn, nil
}

// NextPCNTx advances the single-row counter with an upsert-returning, so
// concurrent callers serialize on the counter row and never see the same
// value.
func (s *pcnService) NextPCNTx(ctx context.Context, tx pgx.Tx) (string, error) {
	var lastNumber int64
	err := tx.QueryRow(ctx, `
		INSERT INTO pcn_sequence (id, last_number)
		VALUES (1, 1)
		ON CONFLICT (id)
		DO UPDATE SET last_number = pcn_sequence.last_number + 1
		RETURNING last_number
	`).Scan(&lastNumber)
	if err != nil {
		return "", fmt.Errorf("failed to advance pcn sequence: %w", err)
	}
	return fmt.Sprintf("%05d", lastNumber), nil
}

func (s *pcnService) Register(ctx context.Context, reg PCNRegistration) (*PCNRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := s.RegisterTx(ctx, tx, reg)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pcn registration: %w", err)
	}
	return rec, nil
}

func (s *pcnService) RegisterTx(ctx context.Context, tx pgx.Tx, reg PCNRegistration) (*PCNRecord, error) {
	if reg.PCN == "" {
		return nil, &ValidationError{Field: "pcn", Reason: "must not be empty"}
	}
	if reg.Job == "" {
		return nil, &ValidationError{Field: "job", Reason: "must not be empty"}
	}

	pcn := PadPCN(reg.PCN)
	barcode := EncodeBarcode(reg.payload(pcn))

	var rec PCNRecord
	err := tx.QueryRow(ctx, `
		INSERT INTO pcn_records (pcn_number, job, mpn, part_number, po_number, quantity, date_code, msd, work_order, barcode_data, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (pcn_number) DO NOTHING
		RETURNING pcn_number, job, mpn, part_number, po_number, quantity, date_code, msd, work_order, barcode_data, created_by, created_at
	`, pcn, reg.Job, reg.MPN, reg.PartNumber, reg.PONumber, reg.Quantity, reg.DateCode, reg.MSD, reg.WorkOrder, barcode, reg.CreatedBy).Scan(
		&rec.PCNNumber, &rec.Job, &rec.MPN, &rec.PartNumber, &rec.PONumber,
		&rec.Quantity, &rec.DateCode, &rec.MSD, &rec.WorkOrder, &rec.BarcodeData, &rec.CreatedBy, &rec.CreatedAt,
	)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert pcn record: %w", err)
	}

	// The number already exists. Identical data is an idempotent success;
	// anything else is a conflict, since a PCN is never reassigned.
	existing, err := scanPCNRecord(tx.QueryRow(ctx, `
		SELECT pcn_number, job, mpn, part_number, po_number, quantity, date_code, msd, work_order, barcode_data, created_by, created_at
		FROM pcn_records
		WHERE pcn_number = $1
	`, pcn))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing pcn record: %w", err)
	}

	if existing.Job != reg.Job || existing.MPN != reg.MPN ||
		existing.PartNumber != reg.PartNumber || existing.PONumber != reg.PONumber ||
		existing.Quantity != reg.Quantity || existing.DateCode != reg.DateCode ||
		existing.MSD != reg.MSD || existing.WorkOrder != reg.WorkOrder ||
		existing.BarcodeData != barcode {
		return nil, &ConflictError{PCN: pcn, Detail: "already registered with different field data"}
	}
	return existing, nil
}

func (s *pcnService) Generate(ctx context.Context, reg PCNRegistration) (*PCNRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pcn, err := s.NextPCNTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	reg.PCN = pcn

	rec, err := s.RegisterTx(ctx, tx, reg)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pcn generation: %w", err)
	}
	return rec, nil
}

func (s *pcnService) Lookup(ctx context.Context, pcn string) (*PCNRecord, error) {
	pcn = PadPCN(pcn)

	rec, err := scanPCNRecord(s.pool.QueryRow(ctx, `
		SELECT pcn_number, job, mpn, part_number, po_number, quantity, date_code, msd, work_order, barcode_data, created_by, created_at
		FROM pcn_records
		WHERE pcn_number = $1
	`, pcn))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to query pcn record: %w", err)
	}

	// Fall back to the audit history: the PCN on a log entry never changes
	// even when the job is later renamed, so the earliest entry still
	// identifies the lot.
	var (
		item      string
		delta     int
		actor     string
		createdAt time.Time
	)
	err = s.pool.QueryRow(ctx, `
		SELECT item, quantity_delta, actor, created_at
		FROM transaction_log
		WHERE pcn = $1
		ORDER BY id
		LIMIT 1
	`, pcn).Scan(&item, &delta, &actor, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "pcn", Key: pcn}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search transaction history for pcn %s: %w", pcn, err)
	}

	qty := delta
	if qty < 0 {
		qty = -qty
	}
	return &PCNRecord{
		PCNNumber: pcn,
		Job:       item,
		Quantity:  qty,
		CreatedBy: actor,
		CreatedAt: createdAt,
	}, nil
}

func (s *pcnService) SyncSequence(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pcn_sequence (id, last_number) VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize pcn sequence: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE pcn_sequence
		SET last_number = GREATEST(
			last_number,
			COALESCE((SELECT MAX(pcn_number::bigint) FROM pcn_records), 0)
		)
		WHERE id = 1
	`)
	if err != nil {
		return fmt.Errorf("failed to sync pcn sequence from records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPCNRecord(row rowScanner) (*PCNRecord, error) {
	var rec PCNRecord
	err := row.Scan(
		&rec.PCNNumber, &rec.Job, &rec.MPN, &rec.PartNumber, &rec.PONumber,
		&rec.Quantity, &rec.DateCode, &rec.MSD, &rec.WorkOrder, &rec.BarcodeData, &rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
