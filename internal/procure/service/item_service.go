package service

import (
	"context"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/google/uuid"
)

// ItemService catalog items
type ItemService struct {
	itemRepo *repository.ItemRepository
}

func NewItemService(itemRepo *repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemRequest create request
type CreateItemRequest struct {
	GCode       string `json:"g_code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	UOM         string `json:"uom"`
	Description string `json:"description"`
}

// UpdateItemRequest update request
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	UOM         *string `json:"uom"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// List lists items
func (s *ItemService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Item, int64, error) {
	return s.itemRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one item
func (s *ItemService) Get(ctx context.Context, id string) (*entity.Item, error) {
	return s.itemRepo.FindByID(ctx, id)
}

// Create creates an item
func (s *ItemService) Create(ctx context.Context, req *CreateItemRequest) (*entity.Item, error) {
	item := &entity.Item{
		ID:          uuid.New().String()[:32],
		GCode:       req.GCode,
		Name:        req.Name,
		UOM:         req.UOM,
		Description: req.Description,
		Status:      entity.ItemStatusActive,
	}
	if item.UOM == "" {
		item.UOM = "EA"
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update edits item fields
func (s *ItemService) Update(ctx context.Context, id string, req *UpdateItemRequest) (*entity.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.UOM != nil {
		item.UOM = *req.UOM
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Status != nil {
		if *req.Status != entity.ItemStatusActive && *req.Status != entity.ItemStatusObsolete {
			return nil, Validationf("invalid item status %q", *req.Status)
		}
		item.Status = *req.Status
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
