package app

import "pcb-stockroom/internal/core"

// StockResult is returned by Stock.
type StockResult struct {
	Result *core.StockResult
}

// PickResult is returned by Pick.
type PickResult struct {
	Result *core.PickResult
}

// RecordResult is returned by record reads and updates.
type RecordResult struct {
	Record *core.InventoryRecord
}

// InventoryListResult is returned by ListInventory.
type InventoryListResult struct {
	Records []core.InventoryRecord
}

// PCNResult is returned by LookupPCN and GeneratePCN.
type PCNResult struct {
	Record *core.PCNRecord
}

// DecodeResult is returned by DecodeLabel.
type DecodeResult struct {
	Payload core.BarcodePayload
}

// LogResult is returned by GetTransactionLog.
type LogResult struct {
	Entries []core.TransactionLogEntry
}
