package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"gorm.io/gorm"
)

// RFQRepository RFQ storage
type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

// DB exposes the underlying handle for transactional services
func (r *RFQRepository) DB() *gorm.DB {
	return r.db
}

// FindAll lists RFQs with pagination and filters
func (r *RFQRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	var items []entity.RFQ
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RFQ{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("rfq_number ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds an RFQ with lines and invited vendors
func (r *RFQRepository) FindByID(ctx context.Context, id string) (*entity.RFQ, error) {
	var rfq entity.RFQ
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Preload("Vendors.Vendor").
		Where("id = ?", id).
		First(&rfq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// Create creates an RFQ with its lines and vendor invitations
func (r *RFQRepository) Create(ctx context.Context, rfq *entity.RFQ) error {
	return r.db.WithContext(ctx).Create(rfq).Error
}

// Update saves RFQ header fields
func (r *RFQRepository) Update(ctx context.Context, rfq *entity.RFQ) error {
	return r.db.WithContext(ctx).Save(rfq).Error
}

// Delete removes a draft RFQ and its children
func (r *RFQRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rfq_id = ?", id).Delete(&entity.RFQLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("rfq_id = ?", id).Delete(&entity.RFQVendor{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.RFQ{}).Error
	})
}

// ReplaceLines swaps a draft RFQ's line set
func (r *RFQRepository) ReplaceLines(ctx context.Context, rfqID string, lines []entity.RFQLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rfq_id = ?", rfqID).Delete(&entity.RFQLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// ReplaceVendorLinks swaps a draft RFQ's vendor invitations
func (r *RFQRepository) ReplaceVendorLinks(ctx context.Context, rfqID string, links []entity.RFQVendor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rfq_id = ?", rfqID).Delete(&entity.RFQVendor{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

// SetSentAt stamps the send time
func (r *RFQRepository) SetSentAt(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.RFQ{}).
		Where("id = ?", id).
		Update("sent_at", at).Error
}

// UpdateStatus compare-and-sets the RFQ status. Returns ErrNotFound when
// no row matched, which callers treat as a lost transition race.
func (r *RFQRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.RFQ{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindLineByID finds one RFQ line
func (r *RFQRepository) FindLineByID(ctx context.Context, lineID string) (*entity.RFQLine, error) {
	var line entity.RFQLine
	err := r.db.WithContext(ctx).Where("id = ?", lineID).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindVendorLink finds the invitation row for (rfq, vendor)
func (r *RFQRepository) FindVendorLink(ctx context.Context, rfqID, vendorID string) (*entity.RFQVendor, error) {
	var link entity.RFQVendor
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND vendor_id = ?", rfqID, vendorID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// UpdateVendorLink saves an invitation row
func (r *RFQRepository) UpdateVendorLink(ctx context.Context, link *entity.RFQVendor) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// ExpirePendingVendors marks every invitation still PENDING as
// NO_RESPONSE and returns how many were expired
func (r *RFQRepository) ExpirePendingVendors(ctx context.Context, rfqID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.RFQVendor{}).
		Where("rfq_id = ? AND status = ?", rfqID, entity.RFQVendorStatusPending).
		Update("status", entity.RFQVendorStatusNoResponse)
	return res.RowsAffected, res.Error
}

// CountPendingVendors counts invitations still awaiting a response
func (r *RFQRepository) CountPendingVendors(ctx context.Context, rfqID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RFQVendor{}).
		Where("rfq_id = ? AND status = ?", rfqID, entity.RFQVendorStatusPending).
		Count(&count).Error
	return count, err
}

// GenerateCode generates an RFQ number RFQ-{year}-{4 digits}
func (r *RFQRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("RFQ-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.RFQ{}).
		Select("COALESCE(MAX(rfq_number), '')").
		Where("rfq_number LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "RFQ-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("RFQ-%s-%04d", year, seq), nil
}
