package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	domainRepo "github.com/marketday/fleamarket-api/internal/domain/repository"
	"gorm.io/gorm"
)

type clerkRepository struct {
	db *gorm.DB
}

// NewClerkRepository creates a new clerk repository
func NewClerkRepository(db *gorm.DB) domainRepo.ClerkRepository {
	return &clerkRepository{db: db}
}

func (r *clerkRepository) Create(ctx context.Context, clerk *entity.Clerk) error {
	return translateErr(dbFrom(ctx, r.db).Create(clerk).Error)
}

func (r *clerkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Clerk, error) {
	var clerk entity.Clerk
	err := dbFrom(ctx, r.db).First(&clerk, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &clerk, err
}

func (r *clerkRepository) GetByNumber(ctx context.Context, number int) (*entity.Clerk, error) {
	var clerk entity.Clerk
	err := dbFrom(ctx, r.db).First(&clerk, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &clerk, err
}

func (r *clerkRepository) MaxNumber(ctx context.Context) (int, error) {
	var max int
	err := dbFrom(ctx, r.db).Model(&entity.Clerk{}).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	return max, err
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) domainRepo.CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Create(ctx context.Context, counter *entity.Counter) error {
	return translateErr(dbFrom(ctx, r.db).Create(counter).Error)
}

func (r *counterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Counter, error) {
	var counter entity.Counter
	err := dbFrom(ctx, r.db).First(&counter, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &counter, err
}

func (r *counterRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.Counter, error) {
	var counter entity.Counter
	err := dbFrom(ctx, r.db).First(&counter, "LOWER(identifier) = LOWER(?)", identifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &counter, err
}
