package app

// ActorInput identifies the requesting user as adapters see them:
// plain strings, validated downstream by the core.
type ActorInput struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	ITARAuth bool   `json:"itar_auth"`
}

// StockRequest is the input for stocking boards into a location.
type StockRequest struct {
	Job                string     `json:"job"`
	PCBType            string     `json:"pcb_type"`
	Quantity           int        `json:"quantity"`
	Location           string     `json:"location"`
	ITARClassification string     `json:"itar_classification"`
	Actor              ActorInput `json:"actor"`

	PCN        string `json:"pcn,omitempty"`
	MPN        string `json:"mpn,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
	PONumber   string `json:"po_number,omitempty"`
	DateCode   string `json:"date_code,omitempty"`
	MSD        string `json:"msd,omitempty"`
	WorkOrder  string `json:"work_order,omitempty"`
}

// PickRequest is the input for picking boards out of the stockroom.
type PickRequest struct {
	Job      string     `json:"job"`
	PCBType  string     `json:"pcb_type"`
	Quantity int        `json:"quantity"`
	Actor    ActorInput `json:"actor"`
}

// UpdateRecordRequest overwrites an inventory record's mutable fields.
type UpdateRecordRequest struct {
	ID       int        `json:"id"`
	Job      string     `json:"job"`
	PCBType  string     `json:"pcb_type"`
	Quantity int        `json:"quantity"`
	Location string     `json:"location"`
	PCN      string     `json:"pcn,omitempty"`
	Actor    ActorInput `json:"actor"`
}

// GeneratePCNRequest mints and registers a control number for a label.
type GeneratePCNRequest struct {
	Item       string `json:"item"`
	MPN        string `json:"mpn,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	PONumber   string `json:"po_number,omitempty"`
	Location   string `json:"location,omitempty"`
	PCBType    string `json:"pcb_type,omitempty"`
	DateCode   string `json:"date_code,omitempty"`
	MSD        string `json:"msd,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
}

// LogQuery filters the transaction log. Exactly one of PCN or Job, or a
// From/To pair, should be set; PCN wins when several are present.
type LogQuery struct {
	PCN  string `json:"pcn,omitempty"`
	Job  string `json:"job,omitempty"`
	From string `json:"from,omitempty"` // RFC 3339 or YYYY-MM-DD
	To   string `json:"to,omitempty"`
}
