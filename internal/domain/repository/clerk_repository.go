package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
)

// ClerkRepository defines the interface for clerk data operations
type ClerkRepository interface {
	// Create inserts a clerk; returns a duplicate-key error when the clerk
	// number collides, so callers can retry with a fresh number.
	Create(ctx context.Context, clerk *entity.Clerk) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Clerk, error)
	GetByNumber(ctx context.Context, number int) (*entity.Clerk, error)
	MaxNumber(ctx context.Context) (int, error)
}

// CounterRepository defines the interface for counter data operations
type CounterRepository interface {
	Create(ctx context.Context, counter *entity.Counter) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Counter, error)
	// GetByIdentifier performs a case-insensitive lookup.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.Counter, error)
}

// ErrDuplicateKey signals a unique-constraint violation. Implementations
// wrap their driver error with it so callers can retry with a fresh code.
var ErrDuplicateKey = errors.New("duplicate key")
