package entity

import "time"

// Vendor supplier master record
type Vendor struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:active"`

	// Contact and payment
	Address      string `json:"address" gorm:"size:500"`
	Website      string `json:"website" gorm:"size:200"`
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Contacts []VendorContact `json:"contacts,omitempty" gorm:"foreignKey:VendorID"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// Vendor status
const (
	VendorStatusActive   = "active"
	VendorStatusInactive = "inactive"
)

// VendorContact vendor contact person
type VendorContact struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	VendorID  string    `json:"vendor_id" gorm:"size:32;not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Title     string    `json:"title" gorm:"size:100"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Email     string    `json:"email" gorm:"size:200"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (VendorContact) TableName() string {
	return "vendor_contacts"
}
