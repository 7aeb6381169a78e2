package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder one order to one vendor, produced by finalizing a
// replenishment. CreationKey makes creation idempotent: retries of the
// same (replenishment, vendor) partition reuse the existing order.
type PurchaseOrder struct {
	ID              string `json:"id" gorm:"primaryKey;size:32"`
	PONumber        string `json:"po_number" gorm:"size:32;uniqueIndex;not null"`
	VendorID        string `json:"vendor_id" gorm:"size:32;not null;index"`
	RFQID           *string `json:"rfq_id" gorm:"size:32;index"`
	ReplenishmentID *string `json:"replenishment_id" gorm:"size:32;index"`
	CreationKey     string  `json:"creation_key" gorm:"size:80;uniqueIndex"`
	Status          string  `json:"status" gorm:"size:20;default:draft"`

	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,4)"`
	Description string          `json:"description" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines  []PurchaseOrderLine `json:"lines,omitempty" gorm:"foreignKey:POID"`
	Vendor *Vendor             `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PO status
const (
	POStatusDraft     = "draft"
	POStatusSent      = "sent"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// PurchaseOrderLine PO line item
type PurchaseOrderLine struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"`
	POID        string          `json:"po_id" gorm:"size:32;not null;index"`
	LineNo      int             `json:"line_no" gorm:"not null"`
	ItemID      string          `json:"item_id" gorm:"size:32"`
	GCode       string          `json:"g_code" gorm:"size:50"`
	Description string          `json:"description" gorm:"size:500"`
	Qty         decimal.Decimal `json:"qty" gorm:"type:decimal(20,4);not null"`
	PriceEach   decimal.Decimal `json:"price_each" gorm:"type:decimal(20,4);not null"`
	UOM         string          `json:"uom" gorm:"size:20;default:EA"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}
