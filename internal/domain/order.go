package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPendingApproval    OrderStatus = "pending_approval"
	OrderStatusPendingFulfillment OrderStatus = "pending_fulfillment"
	OrderStatusPartiallyFulfilled OrderStatus = "partially_fulfilled"
	OrderStatusPendingBilling     OrderStatus = "pending_billing"
	OrderStatusBilled             OrderStatus = "billed"
	OrderStatusCancelled          OrderStatus = "cancelled"
)

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Number     string      `gorm:"size:40;uniqueIndex"`
	CustomerID uuid.UUID   `gorm:"type:uuid;index"`
	Status     OrderStatus `gorm:"type:varchar(30);index"`
	SalesRepID *uuid.UUID  `gorm:"type:uuid;index"`
	Subsidiary string      `gorm:"size:40;index"`
	Department string      `gorm:"size:80"`
	Class      string      `gorm:"size:80"`
	Lines      []OrderLine
	Subtotal   float64 `gorm:"type:decimal(12,2);default:0"`
	TaxTotal   float64 `gorm:"type:decimal(12,2);default:0"`
	Total      float64 `gorm:"type:decimal(12,2);default:0"`
	OrderDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	ItemID      uuid.UUID `gorm:"type:uuid;index"`
	Description string    `gorm:"size:255"`
	Quantity    float64   `gorm:"type:decimal(12,2)"`
	UnitPrice   float64   `gorm:"type:decimal(12,2)"`
	Amount      float64   `gorm:"type:decimal(12,2)"`
}

// LineAmount is the convenience echo shown on the form while editing a
// line. The authoritative total is computed when the order is saved.
func LineAmount(qty, price float64) float64 {
	return qty * price
}

// ValidateLine rejects a line before it can be committed to the order.
// Both quantity and price must be present, and the item must belong to
// the customer's subsidiary.
func ValidateLine(l OrderLine, itemSubsidiary, customerSubsidiary string) error {
	if l.ItemID == uuid.Nil {
		return ErrLineIncomplete
	}
	if l.Quantity <= 0 || l.UnitPrice <= 0 {
		return ErrLineIncomplete
	}
	if !strings.EqualFold(strings.TrimSpace(itemSubsidiary), strings.TrimSpace(customerSubsidiary)) {
		return ErrSubsidiaryMismatch
	}
	return nil
}

// Recalculate derives line amounts and the order totals from the
// committed lines. Tax stays at the rate already set on the order.
func (o *Order) Recalculate(taxRate float64) {
	sub := 0.0
	for i := range o.Lines {
		o.Lines[i].Amount = LineAmount(o.Lines[i].Quantity, o.Lines[i].UnitPrice)
		sub += o.Lines[i].Amount
	}
	o.Subtotal = sub
	o.TaxTotal = sub * taxRate
	o.Total = o.Subtotal + o.TaxTotal
}
