package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService is the append-only transaction trail. The interface exposes
// Append and reads only: no update or delete entry point exists, so the
// immutability of written entries is structural rather than a convention.
type AuditService interface {
	// AppendTx writes one entry inside the caller's transaction. Every
	// append rides the ledger transaction that caused it, so a failed
	// append rolls the paired mutation back with it.
	AppendTx(ctx context.Context, tx pgx.Tx, entry TransactionLogEntry) (int64, error)

	QueryByPCN(ctx context.Context, pcn string) ([]TransactionLogEntry, error)
	QueryByJob(ctx context.Context, job string) ([]TransactionLogEntry, error)
	QueryByTimeRange(ctx context.Context, from, to time.Time) ([]TransactionLogEntry, error)
}

type auditService struct {
	pool *pgxpool.Pool
}

func NewAuditService(pool *pgxpool.Pool) AuditService {
	return &auditService{pool: pool}
}

func (s *auditService) AppendTx(ctx context.Context, tx pgx.Tx, entry TransactionLogEntry) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO transaction_log (trantype, item, pcn, quantity_delta, location_from, location_to, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, entry.TranType, entry.Item, entry.PCN, entry.QuantityDelta,
		entry.LocationFrom, entry.LocationTo, entry.Actor).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction log entry: %w", err)
	}
	return id, nil
}

const logColumns = `id, trantype, item, pcn, quantity_delta, location_from, location_to, actor, created_at`

func (s *auditService) QueryByPCN(ctx context.Context, pcn string) ([]TransactionLogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+logColumns+` FROM transaction_log WHERE pcn = $1 ORDER BY id`, PadPCN(pcn))
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction log by pcn: %w", err)
	}
	return collectLogEntries(rows)
}

func (s *auditService) QueryByJob(ctx context.Context, job string) ([]TransactionLogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+logColumns+` FROM transaction_log WHERE item = $1 ORDER BY id`, job)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction log by job: %w", err)
	}
	return collectLogEntries(rows)
}

func (s *auditService) QueryByTimeRange(ctx context.Context, from, to time.Time) ([]TransactionLogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+logColumns+` FROM transaction_log WHERE created_at >= $1 AND created_at <= $2 ORDER BY id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction log by time range: %w", err)
	}
	return collectLogEntries(rows)
}

func collectLogEntries(rows pgx.Rows) ([]TransactionLogEntry, error) {
	defer rows.Close()

	var entries []TransactionLogEntry
	for rows.Next() {
		var e TransactionLogEntry
		if err := rows.Scan(
			&e.ID, &e.TranType, &e.Item, &e.PCN, &e.QuantityDelta,
			&e.LocationFrom, &e.LocationTo, &e.Actor, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction log: %w", err)
	}
	return entries, nil
}
