package domain

import (
	"time"

	"github.com/google/uuid"
)

type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

var BloodGroups = []BloodGroup{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
	BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
}

type Donor struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName    string     `gorm:"size:100"`
	LastName     string     `gorm:"size:100"`
	Gender       string     `gorm:"size:20"`
	Phone        string     `gorm:"size:60"`
	BloodGroup   BloodGroup `gorm:"type:varchar(3);index"`
	LastDonation *time.Time
	CreatedAt    time.Time
}

// EligibleAt reports whether the donor can donate at the given time:
// never donated, or the last donation is at least three months old.
func (d Donor) EligibleAt(now time.Time) bool {
	if d.LastDonation == nil {
		return true
	}
	return !d.LastDonation.After(now.AddDate(0, -3, 0))
}
