package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
)

// VendorRepository defines the interface for vendor data operations
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	// Find matches vendors by name, email or phone fragments.
	Find(ctx context.Context, query string) ([]entity.Vendor, error)
}
