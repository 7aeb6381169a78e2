package repository

import (
	"context"
	"errors"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"gorm.io/gorm"
)

// ReplenishmentRepository replenishment storage
type ReplenishmentRepository struct {
	db *gorm.DB
}

func NewReplenishmentRepository(db *gorm.DB) *ReplenishmentRepository {
	return &ReplenishmentRepository{db: db}
}

// FindAll lists replenishments with pagination and filters
func (r *ReplenishmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Replenishment, int64, error) {
	var items []entity.Replenishment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Replenishment{})

	if rfqID := filters["rfq_id"]; rfqID != "" {
		query = query.Where("rfq_id = ?", rfqID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
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

// FindByID finds a replenishment with lines, quotes and quote vendors
func (r *ReplenishmentRepository) FindByID(ctx context.Context, id string) (*entity.Replenishment, error) {
	var repl entity.Replenishment
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Preload("Lines.RFQLine").
		Preload("Lines.Quote.Vendor").
		Where("id = ?", id).
		First(&repl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &repl, nil
}

// Create creates a replenishment with its lines in one transaction
func (r *ReplenishmentRepository) Create(ctx context.Context, repl *entity.Replenishment) error {
	return r.db.WithContext(ctx).Create(repl).Error
}

// MarkFinalized compare-and-sets DRAFT to FINALIZED. Returns false when
// the row was not in DRAFT, meaning a concurrent finalize won.
func (r *ReplenishmentRepository) MarkFinalized(ctx context.Context, tx *gorm.DB, id string, at time.Time) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).
		Model(&entity.Replenishment{}).
		Where("id = ? AND status = ?", id, entity.ReplenishmentStatusDraft).
		Updates(map[string]interface{}{
			"status":       entity.ReplenishmentStatusFinalized,
			"finalized_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// LinkLineToPO records which PO a replenishment line was committed to
func (r *ReplenishmentRepository) LinkLineToPO(ctx context.Context, tx *gorm.DB, lineID, poID string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Model(&entity.ReplenishmentLine{}).
		Where("id = ?", lineID).
		Update("purchase_order_id", poID).Error
}
