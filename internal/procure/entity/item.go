package entity

import "time"

// Item catalog item referenced by RFQ lines
type Item struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	GCode       string    `json:"g_code" gorm:"size:50;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	UOM         string    `json:"uom" gorm:"size:20;default:EA"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// Item status
const (
	ItemStatusActive   = "active"
	ItemStatusObsolete = "obsolete"
)
