package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "procure:dashboard"
	dashboardCacheTTL = 5 * time.Minute
)

// DashboardService procurement overview counters
type DashboardService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, logger: logger}
}

// DashboardStats aggregate counters for the procurement dashboard
type DashboardStats struct {
	RFQsByStatus        map[string]int64 `json:"rfqs_by_status"`
	OpenReplenishments  int64            `json:"open_replenishments"`
	PurchaseOrders      int64            `json:"purchase_orders"`
	PurchaseOrderTotal  decimal.Decimal  `json:"purchase_order_total"`
	PendingQuoteVendors int64            `json:"pending_quote_vendors"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// GetStats returns dashboard counters, cached for five minutes. A cache
// miss or redis error falls through to the database.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// Invalidate drops the cached counters
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}

func (s *DashboardService) computeStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		RFQsByStatus: make(map[string]int64),
		GeneratedAt:  time.Now(),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := s.db.WithContext(ctx).
		Model(&entity.RFQ{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.RFQsByStatus[row.Status] = row.Count
	}

	err = s.db.WithContext(ctx).
		Model(&entity.Replenishment{}).
		Where("status = ?", entity.ReplenishmentStatusDraft).
		Count(&stats.OpenReplenishments).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Count(&stats.PurchaseOrders).Error
	if err != nil {
		return nil, err
	}

	var total decimal.NullDecimal
	err = s.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("SUM(total_amount)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	if total.Valid {
		stats.PurchaseOrderTotal = total.Decimal
	}

	err = s.db.WithContext(ctx).
		Model(&entity.RFQVendor{}).
		Where("status = ?", entity.RFQVendorStatusPending).
		Count(&stats.PendingQuoteVendors).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
