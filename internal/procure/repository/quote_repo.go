package repository

import (
	"context"
	"errors"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"gorm.io/gorm"
)

// QuoteRepository vendor quote storage
type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// FindByID finds a quote with its vendor
func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*entity.VendorQuote, error) {
	var quote entity.VendorQuote
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByRFQ lists all quotes against an RFQ's lines
func (r *QuoteRepository) FindByRFQ(ctx context.Context, rfqID string) ([]entity.VendorQuote, error) {
	var quotes []entity.VendorQuote
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("rfq_line_id IN (?)",
			r.db.Model(&entity.RFQLine{}).Select("id").Where("rfq_id = ?", rfqID)).
		Order("rfq_line_id, vendor_id").
		Find(&quotes).Error
	return quotes, err
}

// FindByLineAndVendor finds the current quote for (line, vendor)
func (r *QuoteRepository) FindByLineAndVendor(ctx context.Context, lineID, vendorID string) (*entity.VendorQuote, error) {
	var quote entity.VendorQuote
	err := r.db.WithContext(ctx).
		Where("rfq_line_id = ? AND vendor_id = ?", lineID, vendorID).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// Create creates a quote
func (r *QuoteRepository) Create(ctx context.Context, quote *entity.VendorQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// Update saves a quote
func (r *QuoteRepository) Update(ctx context.Context, quote *entity.VendorQuote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// CountReferences counts replenishment lines referencing a quote.
// A referenced quote is immutable.
func (r *QuoteRepository) CountReferences(ctx context.Context, quoteID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ReplenishmentLine{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error
	return count, err
}
