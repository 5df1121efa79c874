package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clerk is a staff operator who logs into a counter with an access code.
// The code's public part is the clerk number; the secret part is stored
// hashed and never leaves the database.
type Clerk struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Number        int       `gorm:"unique;not null" json:"number"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	AccessKeyHash string    `gorm:"size:255;not null" json:"-"`
	Overseer      bool      `gorm:"default:false" json:"overseer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new clerk
func (c *Clerk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Clerk model
func (Clerk) TableName() string {
	return "clerks"
}

// Counter is a physical checkout station, validated before accepting
// clerk operations
type Counter struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Identifier string    `gorm:"size:100;unique;not null" json:"identifier"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new counter
func (c *Counter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Counter model
func (Counter) TableName() string {
	return "counters"
}
