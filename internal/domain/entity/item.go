package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Item represents one physical good registered for sale by a vendor
type Item struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	VendorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Code         string         `gorm:"size:100;unique;not null" json:"code"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Price        int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	State        enum.ItemState `gorm:"default:0;index" json:"state"`
	Hidden       bool           `gorm:"default:false" json:"hidden"`
	Abandoned    bool           `gorm:"default:false" json:"abandoned"`
	LostProperty bool           `gorm:"default:false" json:"lost_property"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relationships
	Vendor Vendor `gorm:"foreignKey:VendorID" json:"-"`
}

// MarshalJSON custom marshaler exposing the price in minor currency units
func (i Item) MarshalJSON() ([]byte, error) {
	type Alias Item
	return json.Marshal(&struct {
		Alias
		Price int64 `json:"price"`
	}{
		Alias: Alias(i),
		Price: i.Price,
	})
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// PriceDecimal returns the price as a decimal (for display)
func (i *Item) PriceDecimal() float64 {
	return float64(i.Price) / 100
}
