package domain

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"size:140"`
	Email        string     `gorm:"size:140;index"`
	SupervisorID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
}
