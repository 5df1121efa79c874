package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetWithItems loads the receipt and its lines in insertion order.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	ListPending(ctx context.Context) ([]entity.Receipt, error)
	ListPendingByClerk(ctx context.Context, clerkID uuid.UUID) ([]entity.Receipt, error)
	// FindByItemCode returns the receipt holding a live Add line for the item.
	FindByItemCode(ctx context.Context, code string) (*entity.Receipt, error)
}

// ReceiptItemRepository defines the interface for receipt line operations
type ReceiptItemRepository interface {
	Create(ctx context.Context, line *entity.ReceiptItem) error
	// ListByReceipt returns the receipt's lines in insertion order.
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error)
	UpdateAction(ctx context.Context, id uuid.UUID, action enum.ReceiptAction) error
	// SumExtras sums the values of Extra lines of the given sub-type across
	// the vendor's finished compensation receipts.
	SumExtras(ctx context.Context, vendorID uuid.UUID, extraType enum.ExtraType) (int64, error)
	// ListAddsByItem returns live Add lines referencing the item, any receipt.
	ListAddsByItem(ctx context.Context, itemID uuid.UUID) ([]entity.ReceiptItem, error)
}
