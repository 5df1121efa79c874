package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/pkg/pagination"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// ListByVendor returns the vendor's items, optionally restricted to the
	// given states. An empty state list means all states.
	ListByVendor(ctx context.Context, vendorID uuid.UUID, states []enum.ItemState) ([]entity.Item, error)
	// SetAbandoned flags all of the vendor's items currently in one of the
	// given states as abandoned, without touching state or the log.
	SetAbandoned(ctx context.Context, vendorID uuid.UUID, states []enum.ItemState) (int64, error)
	Search(ctx context.Context, params *ItemFilterParams) ([]entity.Item, int64, error)
}

// ItemFilterParams contains filtering parameters for item queries
type ItemFilterParams struct {
	Pagination *pagination.PaginationParams
	Query      string
	Code       string
	VendorID   *uuid.UUID
	States     []enum.ItemState
	MinPrice   *int64
	MaxPrice   *int64
}

// ItemStateLogRepository defines the interface for the append-only
// item transition log
type ItemStateLogRepository interface {
	Create(ctx context.Context, entry *entity.ItemStateLog) error
	// Each streams log entries ascending by time, invoking fn for each.
	// Returning an error from fn stops the iteration.
	Each(ctx context.Context, filter StateLogFilter, fn func(entity.ItemStateLog) error) error
}

// StateLogFilter restricts a log replay to a subset of transitions
type StateLogFilter struct {
	// OnlyNewState keeps entries whose new state equals this value.
	OnlyNewState *enum.ItemState
	// ExcludeNewState drops entries whose new state equals this value.
	ExcludeNewState *enum.ItemState
}
