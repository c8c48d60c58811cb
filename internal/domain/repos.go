package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrLineIncomplete     = errors.New("line requires both quantity and price")
	ErrSubsidiaryMismatch = errors.New("item not in the customer's subsidiary")
)

type CustomerRepo interface {
	FindByEmail(ctx context.Context, email string) ([]Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}

type ItemRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListActive(ctx context.Context) ([]Item, error)
}

// OrderFilter mirrors the filter row of the sales order listing page.
// Empty fields are ignored.
type OrderFilter struct {
	Status     OrderStatus
	CustomerID *uuid.UUID
	Subsidiary string
	Department string
}

// OrderAmount is one row of an aggregate query, keyed by order ID.
type OrderAmount struct {
	OrderID uuid.UUID
	Amount  float64
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, error)
	// SubtotalsByOrder and TaxTotalsByOrder are two independent
	// aggregate queries over the same filtered set; callers merge
	// them by order ID.
	SubtotalsByOrder(ctx context.Context, f OrderFilter) ([]OrderAmount, error)
	TaxTotalsByOrder(ctx context.Context, f OrderFilter) ([]OrderAmount, error)
}

type DepositRepo interface {
	// SumActiveByOrder sums deposits against the order whose status is
	// one of ActiveDepositStatuses. Returns the sum and how many
	// deposits contributed to it.
	SumActiveByOrder(ctx context.Context, orderID uuid.UUID) (float64, int64, error)
	Save(ctx context.Context, d *Deposit) error
}

type FulfillmentRepo interface {
	Save(ctx context.Context, f *Fulfillment) error
}

type EmployeeRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
}

type DonorRepo interface {
	Save(ctx context.Context, d *Donor) error
	FindByBloodGroup(ctx context.Context, g BloodGroup) ([]Donor, error)
}

// Notifier delivers a one-line message. No delivery confirmation is
// surfaced beyond the error.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EventPublisher announces domain events to external consumers.
// Implementations are best effort; a nil publisher disables events.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o *Order) error
}
