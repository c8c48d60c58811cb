package domain

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:180"`
	Description string    `gorm:"type:text"`
	UnitPrice   float64   `gorm:"type:decimal(12,2)"`
	Subsidiary  string    `gorm:"size:40;index"`
	Active      bool      `gorm:"default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemSourcing is what the order form copies into a line when an item
// is selected: description and price are authoritative on the item.
type ItemSourcing struct {
	ItemID      uuid.UUID
	Description string
	UnitPrice   float64
	Subsidiary  string
}
