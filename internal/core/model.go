package core

import "time"

type PCBType string

const (
	PCBTypeBare        PCBType = "Bare"
	PCBTypePartial     PCBType = "Partial"
	PCBTypeCompleted   PCBType = "Completed"
	PCBTypeReadyToShip PCBType = "ReadyToShip"
)

// Valid reports whether t is one of the four known assembly stages.
func (t PCBType) Valid() bool {
	switch t {
	case PCBTypeBare, PCBTypePartial, PCBTypeCompleted, PCBTypeReadyToShip:
		return true
	}
	return false
}

type ITARClassification string

const (
	ClassificationNone      ITARClassification = "NONE"
	ClassificationEAR99     ITARClassification = "EAR99"
	ClassificationSensitive ITARClassification = "SENSITIVE"
	ClassificationITAR      ITARClassification = "ITAR"
)

func (c ITARClassification) Valid() bool {
	switch c {
	case ClassificationNone, ClassificationEAR99, ClassificationSensitive, ClassificationITAR:
		return true
	}
	return false
}

type Role string

const (
	RoleSuperUser Role = "SuperUser"
	RoleManager   Role = "Manager"
	RoleITAR      Role = "ITAR"
	RoleUser      Role = "User"
	RoleViewer    Role = "Viewer"
)

// Actor identifies the user performing a ledger operation, as reported to
// the audit trail and checked by the access guard.
type Actor struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	ITARAuth bool   `json:"itar_auth"`
}

type TranType string

const (
	TranStock  TranType = "STOCK"
	TranPick   TranType = "PICK"
	TranUpdate TranType = "UPDATE"
)

// MaxStockQuantity bounds the quantity of a single stock operation.
const MaxStockQuantity = 10000

// InventoryRecord is one row per distinct (job, pcb_type, location)
// combination currently held. Records are never deleted: a row picked to
// zero stays behind so its PCN linkage survives.
type InventoryRecord struct {
	ID                 int                `json:"id"`
	PCN                *string            `json:"pcn,omitempty"`
	Job                string             `json:"job"`
	PCBType            PCBType            `json:"pcb_type"`
	Quantity           int                `json:"quantity"`
	Location           string             `json:"location"`
	ITARClassification ITARClassification `json:"itar_classification"`
	LastModified       time.Time          `json:"last_modified"`
}

// TransactionLogEntry is one immutable audit row. Item holds the job name
// as it was at the moment of the event; later renames never touch it.
type TransactionLogEntry struct {
	ID            int64     `json:"id"`
	TranType      TranType  `json:"trantype"`
	Item          string    `json:"item"`
	PCN           *string   `json:"pcn,omitempty"`
	QuantityDelta int       `json:"quantity_delta"`
	LocationFrom  *string   `json:"location_from,omitempty"`
	LocationTo    *string   `json:"location_to,omitempty"`
	Actor         string    `json:"actor"`
	CreatedAt     time.Time `json:"created_at"`
}

// PCNRecord is the durable record behind one minted control number,
// including the exact barcode string encoded at creation time.
type PCNRecord struct {
	PCNNumber   string    `json:"pcn_number"`
	Job         string    `json:"job"`
	MPN         string    `json:"mpn"`
	PartNumber  string    `json:"part_number"`
	PONumber    string    `json:"po_number"`
	Quantity    int       `json:"quantity"`
	DateCode    string    `json:"date_code"`
	MSD         string    `json:"msd"`
	WorkOrder   string    `json:"work_order,omitempty"`
	BarcodeData string    `json:"barcode_data"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
