package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories procurement repository set
type Repositories struct {
	Vendor        *VendorRepository
	Item          *ItemRepository
	RFQ           *RFQRepository
	Quote         *QuoteRepository
	Replenishment *ReplenishmentRepository
	PO            *PORepository
	ActivityLog   *ActivityLogRepository
}

// NewRepositories wires all repositories against one gorm handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Vendor:        NewVendorRepository(db),
		Item:          NewItemRepository(db),
		RFQ:           NewRFQRepository(db),
		Quote:         NewQuoteRepository(db),
		Replenishment: NewReplenishmentRepository(db),
		PO:            NewPORepository(db),
		ActivityLog:   NewActivityLogRepository(db),
	}
}
