package service

import (
	"context"
	"fmt"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/google/uuid"
)

// VendorService vendor master data
type VendorService struct {
	vendorRepo  *repository.VendorRepository
	activityLog *repository.ActivityLogRepository
}

func NewVendorService(vendorRepo *repository.VendorRepository, activityLog *repository.ActivityLogRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo, activityLog: activityLog}
}

// CreateVendorRequest create request
type CreateVendorRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	PaymentTerms string `json:"payment_terms"`
	Notes        string `json:"notes"`
}

// UpdateVendorRequest update request
type UpdateVendorRequest struct {
	Name         *string `json:"name"`
	Status       *string `json:"status"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	PaymentTerms *string `json:"payment_terms"`
	Notes        *string `json:"notes"`
}

// CreateContactRequest add a contact to a vendor
type CreateContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

// List lists vendors
func (s *VendorService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.vendorRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one vendor with contacts
func (s *VendorService) Get(ctx context.Context, id string) (*entity.Vendor, error) {
	return s.vendorRepo.FindByID(ctx, id)
}

// Create creates a vendor with a generated code
func (s *VendorService) Create(ctx context.Context, userID string, req *CreateVendorRequest) (*entity.Vendor, error) {
	code, err := s.vendorRepo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	vendor := &entity.Vendor{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		Status:       entity.VendorStatusActive,
		Address:      req.Address,
		Website:      req.Website,
		PaymentTerms: req.PaymentTerms,
		CreatedBy:    userID,
		Notes:        req.Notes,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "vendor", vendor.ID, vendor.Code, "create", "", entity.VendorStatusActive,
		fmt.Sprintf("vendor %s created", vendor.Name), userID)
	return vendor, nil
}

// Update edits vendor fields
func (s *VendorService) Update(ctx context.Context, id, userID string, req *UpdateVendorRequest) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Status != nil {
		if *req.Status != entity.VendorStatusActive && *req.Status != entity.VendorStatusInactive {
			return nil, Validationf("invalid vendor status %q", *req.Status)
		}
		vendor.Status = *req.Status
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.Website != nil {
		vendor.Website = *req.Website
	}
	if req.PaymentTerms != nil {
		vendor.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		vendor.Notes = *req.Notes
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// ListContacts lists a vendor's contacts
func (s *VendorService) ListContacts(ctx context.Context, vendorID string) ([]entity.VendorContact, error) {
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.vendorRepo.FindContacts(ctx, vendorID)
}

// AddContact adds a contact to a vendor
func (s *VendorService) AddContact(ctx context.Context, vendorID string, req *CreateContactRequest) (*entity.VendorContact, error) {
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}

	contact := &entity.VendorContact{
		ID:        uuid.New().String()[:32],
		VendorID:  vendorID,
		Name:      req.Name,
		Title:     req.Title,
		Phone:     req.Phone,
		Email:     req.Email,
		IsPrimary: req.IsPrimary,
	}
	if err := s.vendorRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// RemoveContact deletes a vendor contact
func (s *VendorService) RemoveContact(ctx context.Context, vendorID, contactID string) error {
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return err
	}
	return s.vendorRepo.DeleteContact(ctx, contactID)
}
