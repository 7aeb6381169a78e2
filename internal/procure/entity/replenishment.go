package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Replenishment a working set of quote selections for one RFQ.
// DRAFT until finalize succeeds; FINALIZED is terminal.
type Replenishment struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	RFQID    string `json:"rfq_id" gorm:"size:32;not null;index"`
	Status   string `json:"status" gorm:"size:20;default:DRAFT"`
	Strategy string `json:"strategy" gorm:"size:30"`

	CreatedBy   string     `json:"created_by" gorm:"size:32"`
	CreatedAt   time.Time  `json:"created_at"`
	FinalizedAt *time.Time `json:"finalized_at"`

	Lines []ReplenishmentLine `json:"lines,omitempty" gorm:"foreignKey:ReplenishmentID"`
}

func (Replenishment) TableName() string {
	return "replenishments"
}

// Replenishment status
const (
	ReplenishmentStatusDraft     = "DRAFT"
	ReplenishmentStatusFinalized = "FINALIZED"
)

// ReplenishmentLine one selected quote and order quantity
type ReplenishmentLine struct {
	ID              string          `json:"id" gorm:"primaryKey;size:32"`
	ReplenishmentID string          `json:"replenishment_id" gorm:"size:32;not null;index"`
	RFQLineID       string          `json:"rfq_line_id" gorm:"size:32;not null"`
	QuoteID         string          `json:"quote_id" gorm:"size:32;not null;index"`
	QtyToOrder      decimal.Decimal `json:"qty_to_order" gorm:"type:decimal(20,4);not null"`
	LineNo          int             `json:"line_no" gorm:"not null"`
	PurchaseOrderID *string         `json:"purchase_order_id" gorm:"size:32"`
	CreatedAt       time.Time       `json:"created_at"`

	RFQLine *RFQLine     `json:"rfq_line,omitempty" gorm:"foreignKey:RFQLineID"`
	Quote   *VendorQuote `json:"quote,omitempty" gorm:"foreignKey:QuoteID"`
}

func (ReplenishmentLine) TableName() string {
	return "replenishment_lines"
}
