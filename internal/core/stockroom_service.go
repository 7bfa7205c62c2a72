package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockroomService orchestrates stock, pick, and update against the
// inventory records. Each call runs as one transaction: the inventory
// mutation, any PCN assignment, and the audit append commit together or
// not at all. Row locks serialize callers on the same (job, pcb_type,
// location) key; disjoint keys proceed independently.
type StockroomService interface {
	Stock(ctx context.Context, req StockRequest) (*StockResult, error)
	Pick(ctx context.Context, req PickRequest) (*PickResult, error)
	Update(ctx context.Context, req UpdateRequest) (*InventoryRecord, error)

	GetRecord(ctx context.Context, id int) (*InventoryRecord, error)
	ListRecords(ctx context.Context) ([]InventoryRecord, error)
}

// StockRequest adds quantity to a (job, pcb_type, location) key, creating
// the record and assigning a PCN on first stock. The optional label fields
// feed the PCN registration and its encoded barcode.
type StockRequest struct {
	Job            string
	PCBType        PCBType
	Quantity       int
	Location       string
	Classification ITARClassification
	Actor          Actor

	// Optional label fields.
	PCN        string // supplied control number; minted if empty on first stock
	MPN        string
	PartNumber string
	PONumber   string
	DateCode   string
	MSD        string
	WorkOrder  string
}

type StockResult struct {
	Job        string  `json:"job"`
	PCBType    PCBType `json:"pcb_type"`
	StockedQty int     `json:"stocked_qty"`
	NewQty     int     `json:"new_qty"`
	Location   string  `json:"location"`
	PCN        string  `json:"pcn"`
}

// PickRequest removes quantity for a (job, pcb_type) pair. Rows are
// drained oldest-first across locations; the shortfall check is against
// the aggregate on hand.
type PickRequest struct {
	Job      string
	PCBType  PCBType
	Quantity int
	Actor    Actor
}

type PickResult struct {
	PickedQty int `json:"picked_qty"`
	NewQty    int `json:"new_qty"`
}

// UpdateRequest overwrites an inventory record's mutable fields in place.
// The one UPDATE audit entry it appends reports the new job name and the
// quantity/location deltas; prior log entries are never rewritten.
type UpdateRequest struct {
	ID       int
	Job      string
	PCBType  PCBType
	Quantity int
	Location string
	PCN      string
	Actor    Actor
}

type stockroomService struct {
	pool      *pgxpool.Pool
	pcns      PCNService
	audit     AuditService
	locations LocationRules
}

func NewStockroomService(pool *pgxpool.Pool, pcns PCNService, audit AuditService, locations LocationRules) StockroomService {
	return &stockroomService{pool: pool, pcns: pcns, audit: audit, locations: locations}
}

func (s *stockroomService) Stock(ctx context.Context, req StockRequest) (*StockResult, error) {
	if req.Job == "" {
		return nil, &ValidationError{Field: "job", Reason: "must not be empty"}
	}
	if !req.PCBType.Valid() {
		return nil, &ValidationError{Field: "pcb_type", Reason: fmt.Sprintf("unknown type %q", req.PCBType)}
	}
	if req.Quantity < 1 || req.Quantity > MaxStockQuantity {
		return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxStockQuantity, req.Quantity)}
	}
	if req.Classification == "" {
		req.Classification = ClassificationNone
	}
	if !req.Classification.Valid() {
		return nil, &ValidationError{Field: "itar_classification", Reason: fmt.Sprintf("unknown classification %q", req.Classification)}
	}
	if err := s.locations.Validate(ctx, req.Location); err != nil {
		return nil, err
	}
	if !CanAccess(req.Actor.Role, req.Classification, req.Actor.ITARAuth) {
		return nil, &AuthorizationError{Actor: req.Actor.Username, Role: req.Actor.Role, Classification: req.Classification}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Upsert the key row, then lock it. The lock serializes concurrent
	// stock/pick calls on the same key so no quantity read goes stale.
	var recordID int
	err = tx.QueryRow(ctx, `
		INSERT INTO inventory_records (job, pcb_type, quantity, location, itar_classification)
		VALUES ($1, $2, 0, $3, $4)
		ON CONFLICT (job, pcb_type, location) DO UPDATE SET last_modified = NOW()
		RETURNING id
	`, req.Job, req.PCBType, req.Location, req.Classification).Scan(&recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert inventory record: %w", err)
	}

	var (
		oldQty int
		pcn    *string
	)
	err = tx.QueryRow(ctx,
		"SELECT quantity, pcn FROM inventory_records WHERE id = $1 FOR UPDATE",
		recordID,
	).Scan(&oldQty, &pcn)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory record: %w", err)
	}

	// First stock of this key: assign a control number (supplied or
	// minted) and register it with its encoded barcode.
	var pcnValue string
	if pcn != nil {
		pcnValue = *pcn
	} else {
		pcnValue = PadPCN(req.PCN)
		if pcnValue == "" {
			pcnValue, err = s.pcns.NextPCNTx(ctx, tx)
			if err != nil {
				return nil, err
			}
		}
		if _, err := s.pcns.RegisterTx(ctx, tx, PCNRegistration{
			PCN:        pcnValue,
			Job:        req.Job,
			MPN:        req.MPN,
			PartNumber: req.PartNumber,
			Quantity:   req.Quantity,
			PONumber:   req.PONumber,
			Location:   req.Location,
			PCBType:    req.PCBType,
			DateCode:   req.DateCode,
			MSD:        req.MSD,
			WorkOrder:  req.WorkOrder,
			CreatedBy:  req.Actor.Username,
		}); err != nil {
			return nil, err
		}
	}

	newQty := oldQty + req.Quantity
	_, err = tx.Exec(ctx, `
		UPDATE inventory_records
		SET quantity = $1, pcn = $2, last_modified = NOW()
		WHERE id = $3
	`, newQty, pcnValue, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory record: %w", err)
	}

	if _, err := s.audit.AppendTx(ctx, tx, TransactionLogEntry{
		TranType:      TranStock,
		Item:          req.Job,
		PCN:           &pcnValue,
		QuantityDelta: req.Quantity,
		LocationTo:    &req.Location,
		Actor:         req.Actor.Username,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock operation: %w", err)
	}

	return &StockResult{
		Job:        req.Job,
		PCBType:    req.PCBType,
		StockedQty: req.Quantity,
		NewQty:     newQty,
		Location:   req.Location,
		PCN:        pcnValue,
	}, nil
}

func (s *stockroomService) Pick(ctx context.Context, req PickRequest) (*PickResult, error) {
	if req.Job == "" {
		return nil, &ValidationError{Field: "job", Reason: "must not be empty"}
	}
	if !req.PCBType.Valid() {
		return nil, &ValidationError{Field: "pcb_type", Reason: fmt.Sprintf("unknown type %q", req.PCBType)}
	}
	if req.Quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be at least 1, got %d", req.Quantity)}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock every row for the (job, pcb_type) pair up front. Ascending id
	// keeps drain order stable and lock acquisition deadlock-free.
	rows, err := tx.Query(ctx, `
		SELECT id, pcn, quantity, location
		FROM inventory_records
		WHERE job = $1 AND pcb_type = $2
		ORDER BY id
		FOR UPDATE
	`, req.Job, req.PCBType)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory records: %w", err)
	}

	type lotRow struct {
		id       int
		pcn      *string
		quantity int
		location string
	}
	var lots []lotRow
	for rows.Next() {
		var r lotRow
		if err := rows.Scan(&r.id, &r.pcn, &r.quantity, &r.location); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		lots = append(lots, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory records: %w", err)
	}

	if len(lots) == 0 {
		return nil, &NotFoundError{Kind: "inventory record", Key: fmt.Sprintf("%s/%s", req.Job, req.PCBType)}
	}

	available := 0
	for _, lot := range lots {
		available += lot.quantity
	}
	if available < req.Quantity {
		// Reject, never clamp: the rollback leaves quantities untouched.
		return nil, &InsufficientStockError{
			Job:       req.Job,
			PCBType:   req.PCBType,
			Requested: req.Quantity,
			Available: available,
		}
	}

	// Drain oldest rows first. Rows picked to zero stay behind so their
	// PCN linkage survives.
	remaining := req.Quantity
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		take := lot.quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}

		_, err = tx.Exec(ctx, `
			UPDATE inventory_records
			SET quantity = quantity - $1, last_modified = NOW()
			WHERE id = $2
		`, take, lot.id)
		if err != nil {
			return nil, fmt.Errorf("failed to deduct inventory record %d: %w", lot.id, err)
		}

		loc := lot.location
		if _, err := s.audit.AppendTx(ctx, tx, TransactionLogEntry{
			TranType:      TranPick,
			Item:          req.Job,
			PCN:           lot.pcn,
			QuantityDelta: -take,
			LocationFrom:  &loc,
			Actor:         req.Actor.Username,
		}); err != nil {
			return nil, err
		}

		remaining -= take
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pick operation: %w", err)
	}

	return &PickResult{
		PickedQty: req.Quantity,
		NewQty:    available - req.Quantity,
	}, nil
}

func (s *stockroomService) Update(ctx context.Context, req UpdateRequest) (*InventoryRecord, error) {
	if req.Job == "" {
		return nil, &ValidationError{Field: "job", Reason: "must not be empty"}
	}
	if !req.PCBType.Valid() {
		return nil, &ValidationError{Field: "pcb_type", Reason: fmt.Sprintf("unknown type %q", req.PCBType)}
	}
	if req.Quantity < 0 || req.Quantity > MaxStockQuantity {
		return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be between 0 and %d, got %d", MaxStockQuantity, req.Quantity)}
	}
	if err := s.locations.Validate(ctx, req.Location); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		oldQty      int
		oldLocation string
		oldPCN      *string
	)
	err = tx.QueryRow(ctx,
		"SELECT quantity, location, pcn FROM inventory_records WHERE id = $1 FOR UPDATE",
		req.ID,
	).Scan(&oldQty, &oldLocation, &oldPCN)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "inventory record", Key: fmt.Sprintf("%d", req.ID)}
		}
		return nil, fmt.Errorf("failed to lock inventory record %d: %w", req.ID, err)
	}

	var newPCN *string
	if req.PCN != "" {
		padded := PadPCN(req.PCN)
		newPCN = &padded
	} else {
		newPCN = oldPCN
	}

	var rec InventoryRecord
	err = tx.QueryRow(ctx, `
		UPDATE inventory_records
		SET job = $1, pcb_type = $2, quantity = $3, location = $4, pcn = $5, last_modified = NOW()
		WHERE id = $6
		RETURNING id, pcn, job, pcb_type, quantity, location, itar_classification, last_modified
	`, req.Job, req.PCBType, req.Quantity, req.Location, newPCN, req.ID).Scan(
		&rec.ID, &rec.PCN, &rec.Job, &rec.PCBType, &rec.Quantity, &rec.Location,
		&rec.ITARClassification, &rec.LastModified,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory record %d: %w", req.ID, err)
	}

	// Exactly one new UPDATE entry describes the change. Historical
	// entries keep the job name and values current at their own event.
	if _, err := s.audit.AppendTx(ctx, tx, TransactionLogEntry{
		TranType:      TranUpdate,
		Item:          req.Job,
		PCN:           newPCN,
		QuantityDelta: req.Quantity - oldQty,
		LocationFrom:  &oldLocation,
		LocationTo:    &req.Location,
		Actor:         req.Actor.Username,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update operation: %w", err)
	}
	return &rec, nil
}

const inventoryColumns = `id, pcn, job, pcb_type, quantity, location, itar_classification, last_modified`

func (s *stockroomService) GetRecord(ctx context.Context, id int) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := s.pool.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_records WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.PCN, &rec.Job, &rec.PCBType, &rec.Quantity, &rec.Location,
		&rec.ITARClassification, &rec.LastModified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "inventory record", Key: fmt.Sprintf("%d", id)}
		}
		return nil, fmt.Errorf("failed to fetch inventory record %d: %w", id, err)
	}
	return &rec, nil
}

func (s *stockroomService) ListRecords(ctx context.Context) ([]InventoryRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_records ORDER BY job, pcb_type, location`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory records: %w", err)
	}
	defer rows.Close()

	var records []InventoryRecord
	for rows.Next() {
		var rec InventoryRecord
		if err := rows.Scan(
			&rec.ID, &rec.PCN, &rec.Job, &rec.PCBType, &rec.Quantity, &rec.Location,
			&rec.ITARClassification, &rec.LastModified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory records: %w", err)
	}
	return records, nil
}
