package service

import (
	"context"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
)

// OrderService read side of resolver-created purchase orders
type OrderService struct {
	poRepo *repository.PORepository
}

func NewOrderService(poRepo *repository.PORepository) *OrderService {
	return &OrderService{poRepo: poRepo}
}

// List lists purchase orders
func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one purchase order with vendor and lines
func (s *OrderService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}
