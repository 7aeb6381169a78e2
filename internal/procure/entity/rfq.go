package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RFQ request for quote
type RFQ struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	RFQNumber   string `json:"rfq_number" gorm:"size:32;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"size:20;default:DRAFT"`

	QuoteDeadline *time.Time `json:"quote_deadline"`
	SentAt        *time.Time `json:"sent_at"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Lines   []RFQLine   `json:"lines,omitempty" gorm:"foreignKey:RFQID"`
	Vendors []RFQVendor `json:"vendors,omitempty" gorm:"foreignKey:RFQID"`
}

func (RFQ) TableName() string {
	return "rfqs"
}

// RFQ status
const (
	RFQStatusDraft     = "DRAFT"
	RFQStatusSent      = "SENT"
	RFQStatusQuoted    = "QUOTED"
	RFQStatusCompleted = "COMPLETED"
	RFQStatusCancelled = "CANCELLED"
)

// ValidRFQTransitions allowed status transitions. CANCELLED is reachable
// from every non-terminal status; COMPLETED and CANCELLED are terminal.
var ValidRFQTransitions = map[string][]string{
	RFQStatusDraft:  {RFQStatusSent, RFQStatusCancelled},
	RFQStatusSent:   {RFQStatusQuoted, RFQStatusCancelled},
	RFQStatusQuoted: {RFQStatusCompleted, RFQStatusCancelled},
}

// RFQTerminal reports whether a status admits no further transitions.
func RFQTerminal(status string) bool {
	return status == RFQStatusCompleted || status == RFQStatusCancelled
}

// RFQLine one item requested on an RFQ. GCode and ItemName are snapshots
// taken at line creation so later catalog edits do not rewrite history.
type RFQLine struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	RFQID        string          `json:"rfq_id" gorm:"size:32;not null;index;uniqueIndex:idx_rfq_line_no,priority:1"`
	LineNo       int             `json:"line_no" gorm:"not null;uniqueIndex:idx_rfq_line_no,priority:2"`
	ItemID       string          `json:"item_id" gorm:"size:32;not null;index"`
	GCode        string          `json:"g_code" gorm:"size:50"`
	ItemName     string          `json:"item_name" gorm:"size:200"`
	QtyRequested decimal.Decimal `json:"qty_requested" gorm:"type:decimal(20,4);not null"`
	UOM          string          `json:"uom" gorm:"size:20;default:EA"`
	Notes        string          `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`

	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

func (RFQLine) TableName() string {
	return "rfq_lines"
}

// RFQVendor a vendor invited to quote on an RFQ
type RFQVendor struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	RFQID    string `json:"rfq_id" gorm:"size:32;not null;index;uniqueIndex:idx_rfq_vendor,priority:1"`
	VendorID string `json:"vendor_id" gorm:"size:32;not null;uniqueIndex:idx_rfq_vendor,priority:2"`
	Status   string `json:"status" gorm:"size:20;default:PENDING"`

	SentAt      *time.Time `json:"sent_at"`
	RespondedAt *time.Time `json:"responded_at"`

	ContactName  string    `json:"contact_name" gorm:"size:100"`
	ContactEmail string    `json:"contact_email" gorm:"size:200"`
	CreatedAt    time.Time `json:"created_at"`

	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (RFQVendor) TableName() string {
	return "rfq_vendors"
}

// RFQVendor status
const (
	RFQVendorStatusPending    = "PENDING"
	RFQVendorStatusQuoted     = "QUOTED"
	RFQVendorStatusDeclined   = "DECLINED"
	RFQVendorStatusNoResponse = "NO_RESPONSE"
)
