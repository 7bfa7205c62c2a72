package app

import (
	"context"
	"time"

	"pcb-stockroom/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	stockroom core.StockroomService
	pcns      core.PCNService
	audit     core.AuditService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	stockroom core.StockroomService,
	pcns core.PCNService,
	audit core.AuditService,
) ApplicationService {
	return &appService{
		pool:      pool,
		stockroom: stockroom,
		pcns:      pcns,
		audit:     audit,
	}
}

func (a ActorInput) toCore() core.Actor {
	return core.Actor{
		Username: a.Username,
		Role:     core.Role(a.Role),
		ITARAuth: a.ITARAuth,
	}
}

func (s *appService) Stock(ctx context.Context, req StockRequest) (*StockResult, error) {
	res, err := s.stockroom.Stock(ctx, core.StockRequest{
		Job:            req.Job,
		PCBType:        core.PCBType(req.PCBType),
		Quantity:       req.Quantity,
		Location:       req.Location,
		Classification: core.ITARClassification(req.ITARClassification),
		Actor:          req.Actor.toCore(),
		PCN:            req.PCN,
		MPN:            req.MPN,
		PartNumber:     req.PartNumber,
		PONumber:       req.PONumber,
		DateCode:       req.DateCode,
		MSD:            req.MSD,
		WorkOrder:      req.WorkOrder,
	})
	if err != nil {
		return nil, err
	}
	return &StockResult{Result: res}, nil
}

func (s *appService) Pick(ctx context.Context, req PickRequest) (*PickResult, error) {
	res, err := s.stockroom.Pick(ctx, core.PickRequest{
		Job:      req.Job,
		PCBType:  core.PCBType(req.PCBType),
		Quantity: req.Quantity,
		Actor:    req.Actor.toCore(),
	})
	if err != nil {
		return nil, err
	}
	return &PickResult{Result: res}, nil
}

func (s *appService) UpdateRecord(ctx context.Context, req UpdateRecordRequest) (*RecordResult, error) {
	rec, err := s.stockroom.Update(ctx, core.UpdateRequest{
		ID:       req.ID,
		Job:      req.Job,
		PCBType:  core.PCBType(req.PCBType),
		Quantity: req.Quantity,
		Location: req.Location,
		PCN:      req.PCN,
		Actor:    req.Actor.toCore(),
	})
	if err != nil {
		return nil, err
	}
	return &RecordResult{Record: rec}, nil
}

func (s *appService) GetInventoryRecord(ctx context.Context, id int) (*RecordResult, error) {
	rec, err := s.stockroom.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecordResult{Record: rec}, nil
}

func (s *appService) ListInventory(ctx context.Context) (*InventoryListResult, error) {
	records, err := s.stockroom.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Records: records}, nil
}

func (s *appService) LookupPCN(ctx context.Context, pcn string) (*PCNResult, error) {
	rec, err := s.pcns.Lookup(ctx, pcn)
	if err != nil {
		return nil, err
	}
	return &PCNResult{Record: rec}, nil
}

func (s *appService) GeneratePCN(ctx context.Context, req GeneratePCNRequest) (*PCNResult, error) {
	rec, err := s.pcns.Generate(ctx, core.PCNRegistration{
		Job:        req.Item,
		MPN:        req.MPN,
		PartNumber: req.PartNumber,
		Quantity:   req.Quantity,
		PONumber:   req.PONumber,
		Location:   req.Location,
		PCBType:    core.PCBType(req.PCBType),
		DateCode:   req.DateCode,
		MSD:        req.MSD,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	return &PCNResult{Record: rec}, nil
}

func (s *appService) DecodeLabel(raw string) *DecodeResult {
	return &DecodeResult{Payload: core.DecodeBarcode(raw)}
}

func (s *appService) GetTransactionLog(ctx context.Context, q LogQuery) (*LogResult, error) {
	var (
		entries []core.TransactionLogEntry
		err     error
	)
	switch {
	case q.PCN != "":
		entries, err = s.audit.QueryByPCN(ctx, q.PCN)
	case q.Job != "":
		entries, err = s.audit.QueryByJob(ctx, q.Job)
	default:
		from, to, perr := parseTimeRange(q.From, q.To)
		if perr != nil {
			return nil, perr
		}
		entries, err = s.audit.QueryByTimeRange(ctx, from, to)
	}
	if err != nil {
		return nil, err
	}
	return &LogResult{Entries: entries}, nil
}

// parseTimeRange accepts RFC 3339 or bare dates, defaulting to an
// unbounded range when both ends are empty.
func parseTimeRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Unix(0, 0).UTC()
	to := time.Now().UTC()

	if fromStr != "" {
		t, err := parseTimestamp(fromStr)
		if err != nil {
			return from, to, &core.ValidationError{Field: "from", Reason: err.Error()}
		}
		from = t
	}
	if toStr != "" {
		t, err := parseTimestamp(toStr)
		if err != nil {
			return from, to, &core.ValidationError{Field: "to", Reason: err.Error()}
		}
		to = t
	}
	return from, to, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
