package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Receipt represents one clerk-operated transaction: a sale at the counter
// or a compensation payout to a vendor
type Receipt struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ClerkID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"clerk_id"`
	CounterID uuid.UUID          `gorm:"type:uuid;not null;index" json:"counter_id"`
	VendorID  *uuid.UUID         `gorm:"type:uuid;index" json:"vendor_id,omitempty"` // Set for compensation receipts only
	Type      enum.ReceiptType   `gorm:"default:0" json:"type"`
	Status    enum.ReceiptStatus `gorm:"default:0;index" json:"status"`
	Total     int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	StartTime time.Time          `json:"start_time"`
	SellTime  *time.Time         `json:"sell_time,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Relationships
	Clerk   Clerk         `gorm:"foreignKey:ClerkID" json:"-"`
	Counter Counter       `gorm:"foreignKey:CounterID" json:"-"`
	Items   []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler exposing the total in minor currency units
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Total int64 `json:"total"`
	}{
		Alias: Alias(r),
		Total: r.Total,
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartTime.IsZero() {
		r.StartTime = time.Now()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// IsPending reports whether the receipt still accepts item mutation
func (r *Receipt) IsPending() bool {
	return r.Status == enum.ReceiptStatusPending
}

// ReceiptItem is one line in a receipt. Add/Remove/RemovedLater lines
// reference an item and snapshot its price; Extra lines carry a signed
// commission value and no item reference.
type ReceiptItem struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID          `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ItemID    *uuid.UUID         `gorm:"type:uuid;index" json:"item_id,omitempty"`
	Action    enum.ReceiptAction `gorm:"default:0" json:"action"`
	Price     int64              `gorm:"default:0" json:"price"` // Snapshot at add time, in cents
	ExtraType *enum.ExtraType    `json:"extra_type,omitempty"`
	Value     int64              `gorm:"default:0" json:"value"` // Signed, Extra lines only, in cents
	Sequence  int                `gorm:"not null;index" json:"sequence"`
	AddTime   time.Time          `gorm:"autoCreateTime" json:"add_time"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Item    *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (ri *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}
