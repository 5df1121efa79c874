package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	domainRepo "github.com/marketday/fleamarket-api/internal/domain/repository"
	"gorm.io/gorm"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return translateErr(dbFrom(ctx, r.db).Create(item).Error)
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := dbFrom(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	var item entity.Item
	err := dbFrom(ctx, r.db).First(&item, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return dbFrom(ctx, r.db).Save(item).Error
}

func (r *itemRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, states []enum.ItemState) ([]entity.Item, error) {
	var items []entity.Item
	query := dbFrom(ctx, r.db).Where("vendor_id = ?", vendorID)
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}
	err := query.Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepository) SetAbandoned(ctx context.Context, vendorID uuid.UUID, states []enum.ItemState) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Item{}).
		Where("vendor_id = ? AND state IN ?", vendorID, states).
		Update("abandoned", true)
	return result.RowsAffected, result.Error
}

func (r *itemRepository) Search(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Item{})

	if params.Query != "" {
		query = query.Where("name ILIKE ?", "%"+params.Query+"%")
	}
	if params.Code != "" {
		query = query.Where("code = ?", params.Code)
	}
	if params.VendorID != nil {
		query = query.Where("vendor_id = ?", *params.VendorID)
	}
	if len(params.States) > 0 {
		query = query.Where("state IN ?", params.States)
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Order("created_at DESC").Find(&items).Error
	return items, total, err
}

type itemStateLogRepository struct {
	db *gorm.DB
}

// NewItemStateLogRepository creates a new item state log repository
func NewItemStateLogRepository(db *gorm.DB) domainRepo.ItemStateLogRepository {
	return &itemStateLogRepository{db: db}
}

func (r *itemStateLogRepository) Create(ctx context.Context, entry *entity.ItemStateLog) error {
	return dbFrom(ctx, r.db).Create(entry).Error
}

// Each streams log entries ascending by time in fixed-size batches so a full
// replay does not load the whole log at once.
func (r *itemStateLogRepository) Each(ctx context.Context, filter domainRepo.StateLogFilter, fn func(entity.ItemStateLog) error) error {
	query := dbFrom(ctx, r.db).Model(&entity.ItemStateLog{})
	if filter.OnlyNewState != nil {
		query = query.Where("new_state = ?", *filter.OnlyNewState)
	}
	if filter.ExcludeNewState != nil {
		query = query.Where("new_state <> ?", *filter.ExcludeNewState)
	}

	var batch []entity.ItemStateLog
	result := query.Order("time ASC").FindInBatches(&batch, 500, func(_ *gorm.DB, _ int) error {
		for _, entry := range batch {
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	})
	return result.Error
}
