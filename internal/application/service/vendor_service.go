package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/marketday/fleamarket-api/pkg/apperror"
)

// VendorService manages the vendors whose items flow through the event
type VendorService struct {
	vendorRepo repository.VendorRepository
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// CreateVendorInput represents the create vendor input
type CreateVendorInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Create registers a new vendor
func (s *VendorService) Create(ctx context.Context, input *CreateVendorInput) (*entity.Vendor, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Vendor name is required")
	}
	vendor := &entity.Vendor{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Get fetches a vendor by id
func (s *VendorService) Get(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return vendor, nil
}

// Find searches vendors by name, email or phone fragment
func (s *VendorService) Find(ctx context.Context, query string) ([]entity.Vendor, error) {
	return s.vendorRepo.Find(ctx, query)
}
