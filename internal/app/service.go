package app

import "context"

// ApplicationService is the single interface all adapters (CLI, web,
// tests) call. It decouples presentation from the stockroom core.
// Implementations must contain no display logic of any kind.
type ApplicationService interface {
	// Stock adds boards to a (job, pcb_type, location) key, assigning a
	// PCN on first stock, and appends one STOCK audit entry atomically.
	Stock(ctx context.Context, req StockRequest) (*StockResult, error)

	// Pick removes boards for a (job, pcb_type) pair, draining locations
	// oldest-first. Requests exceeding the aggregate on hand fail with
	// core.InsufficientStockError and change nothing.
	Pick(ctx context.Context, req PickRequest) (*PickResult, error)

	// UpdateRecord overwrites a record's mutable fields and appends
	// exactly one UPDATE audit entry. Prior entries are never rewritten.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (*RecordResult, error)

	// GetInventoryRecord returns one inventory record by id.
	GetInventoryRecord(ctx context.Context, id int) (*RecordResult, error)

	// ListInventory returns every inventory record, ordered by key.
	ListInventory(ctx context.Context) (*InventoryListResult, error)

	// LookupPCN resolves a control number to its stored record, falling
	// back to the transaction history for retired numbers.
	LookupPCN(ctx context.Context, pcn string) (*PCNResult, error)

	// GeneratePCN mints the next control number and registers it with the
	// encoded barcode over the supplied label fields.
	GeneratePCN(ctx context.Context, req GeneratePCNRequest) (*PCNResult, error)

	// DecodeLabel interprets raw scanner input as a label payload. It is
	// total: malformed input yields a partial payload, never an error.
	DecodeLabel(raw string) *DecodeResult

	// GetTransactionLog returns audit entries filtered per the query, in
	// append order.
	GetTransactionLog(ctx context.Context, q LogQuery) (*LogResult, error)
}
