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

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return dbFrom(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("receipt_items.sequence ASC").Preload("Item")
		}).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return dbFrom(ctx, r.db).Save(receipt).Error
}

func (r *receiptRepository) ListPending(ctx context.Context) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := dbFrom(ctx, r.db).
		Where("status = ?", enum.ReceiptStatusPending).
		Order("start_time ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ListPendingByClerk(ctx context.Context, clerkID uuid.UUID) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := dbFrom(ctx, r.db).
		Where("status = ? AND clerk_id = ?", enum.ReceiptStatusPending, clerkID).
		Order("start_time ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) FindByItemCode(ctx context.Context, code string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFrom(ctx, r.db).
		Joins("JOIN receipt_items ON receipt_items.receipt_id = receipts.id").
		Joins("JOIN items ON items.id = receipt_items.item_id").
		Where("items.code = ? AND receipt_items.action = ?", code, enum.ReceiptActionAdd).
		Order("receipt_items.add_time DESC").
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

type receiptItemRepository struct {
	db *gorm.DB
}

// NewReceiptItemRepository creates a new receipt line repository
func NewReceiptItemRepository(db *gorm.DB) domainRepo.ReceiptItemRepository {
	return &receiptItemRepository{db: db}
}

func (r *receiptItemRepository) Create(ctx context.Context, line *entity.ReceiptItem) error {
	return dbFrom(ctx, r.db).Create(line).Error
}

func (r *receiptItemRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	var lines []entity.ReceiptItem
	err := dbFrom(ctx, r.db).
		Where("receipt_id = ?", receiptID).
		Order("sequence ASC").
		Find(&lines).Error
	return lines, err
}

func (r *receiptItemRepository) UpdateAction(ctx context.Context, id uuid.UUID, action enum.ReceiptAction) error {
	return dbFrom(ctx, r.db).Model(&entity.ReceiptItem{}).
		Where("id = ?", id).
		Update("action", action).Error
}

func (r *receiptItemRepository) SumExtras(ctx context.Context, vendorID uuid.UUID, extraType enum.ExtraType) (int64, error) {
	var sum int64
	err := dbFrom(ctx, r.db).Model(&entity.ReceiptItem{}).
		Joins("JOIN receipts ON receipts.id = receipt_items.receipt_id").
		Where("receipts.vendor_id = ?", vendorID).
		Where("receipts.type = ? AND receipts.status = ?", enum.ReceiptTypeCompensation, enum.ReceiptStatusFinished).
		Where("receipt_items.action = ? AND receipt_items.extra_type = ?", enum.ReceiptActionExtra, extraType).
		Select("COALESCE(SUM(receipt_items.value), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *receiptItemRepository) ListAddsByItem(ctx context.Context, itemID uuid.UUID) ([]entity.ReceiptItem, error) {
	var lines []entity.ReceiptItem
	err := dbFrom(ctx, r.db).
		Where("item_id = ? AND action = ?", itemID, enum.ReceiptActionAdd).
		Order("add_time ASC").
		Find(&lines).Error
	return lines, err
}
