package domain

import (
	"time"

	"github.com/google/uuid"
)

type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusDeposited DepositStatus = "deposited"
	DepositStatusApplied   DepositStatus = "applied"
	DepositStatusRefunded  DepositStatus = "refunded"
)

// ActiveDepositStatuses are the statuses that count toward the
// fulfillment guard's deposit sum.
var ActiveDepositStatuses = []DepositStatus{DepositStatusPending, DepositStatusDeposited}

type Deposit struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID     `gorm:"type:uuid;index"`
	Amount    float64       `gorm:"type:decimal(12,2)"`
	Status    DepositStatus `gorm:"type:varchar(20);index"`
	CreatedAt time.Time
}

type Fulfillment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Memo      string    `gorm:"size:255"`
	CreatedAt time.Time
}
