package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ItemStateLog is an immutable audit record of one item state transition.
// Rows are append-only and ordered by time; the stats aggregator replays
// them as the source of truth. OldState is nil for the registration entry.
type ItemStateLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	OldState  *enum.ItemState `json:"old_state,omitempty"`
	NewState  enum.ItemState  `gorm:"not null;index" json:"new_state"`
	Time      time.Time       `gorm:"not null;index" json:"time"`
	ClerkID   *uuid.UUID      `gorm:"type:uuid" json:"clerk_id,omitempty"`
	CounterID *uuid.UUID      `gorm:"type:uuid" json:"counter_id,omitempty"`

	// Relationships
	Item Item `gorm:"foreignKey:ItemID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new log entry
func (l *ItemStateLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Time.IsZero() {
		l.Time = time.Now()
	}
	return nil
}

// TableName returns the table name for the ItemStateLog model
func (ItemStateLog) TableName() string {
	return "item_state_logs"
}
