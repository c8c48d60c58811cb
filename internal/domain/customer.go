package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"size:140;index"`
	Name           string     `gorm:"size:140"`
	Phone          string     `gorm:"size:60"`
	Subsidiary     string     `gorm:"size:40;index"`
	SalesRepID     *uuid.UUID `gorm:"type:uuid;index"`
	AddressChanged bool       `gorm:"not null;default:false"`
	Addresses      []Address
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	Label      string    `gorm:"size:60"`
	Text       string    `gorm:"type:text"`
	CreatedAt  time.Time
}
