package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorQuote a vendor's current quote for one RFQ line. One row per
// (rfq_line, vendor); re-submission replaces the row until the quote is
// referenced by a replenishment line, after which it is immutable.
type VendorQuote struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	RFQLineID string `json:"rfq_line_id" gorm:"size:32;not null;index;uniqueIndex:idx_quote_line_vendor,priority:1"`
	VendorID  string `json:"vendor_id" gorm:"size:32;not null;index;uniqueIndex:idx_quote_line_vendor,priority:2"`

	PriceEach    decimal.Decimal `json:"price_each" gorm:"type:decimal(20,4);not null"`
	QtyAvailable decimal.Decimal `json:"qty_available" gorm:"type:decimal(20,4);not null"`
	LeadTimeDays int             `json:"lead_time_days" gorm:"default:0"`

	Manufacturer           string `json:"manufacturer" gorm:"size:200"`
	ManufacturerPartNumber string `json:"manufacturer_part_number" gorm:"size:100"`
	VendorPartNumber       string `json:"vendor_part_number" gorm:"size:100"`

	ValidUntil *time.Time `json:"valid_until"`
	QuotedAt   time.Time  `json:"quoted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Notes      string     `json:"notes" gorm:"type:text"`

	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

func (VendorQuote) TableName() string {
	return "vendor_quotes"
}
