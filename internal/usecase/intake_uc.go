package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arveloz/erpforms/internal/domain"
)

// IntakeLine is one row of the order form's item table.
type IntakeLine struct {
	ItemID    uuid.UUID
	Quantity  float64
	UnitPrice float64
}

// IntakeForm carries the submitted body fields plus the committed
// lines. Lines that failed commit validation never reach this struct.
type IntakeForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Lines     []IntakeLine
}

// IntakeResult reports the terminal state back to the user.
type IntakeResult struct {
	OrderID         uuid.UUID
	OrderNumber     string
	CustomerID      uuid.UUID
	CustomerCreated bool
	Notified        bool
}

// OrderIntakeUC runs the submission workflow:
//
//	start → lookup_customer → {existing | create} → create_order → {notify | skip} → done
//
// Failure policy is deliberately best effort: a failed lookup falls
// through to customer creation, and a failed notification or event
// publish never blocks the order (it is logged and the workflow
// carries on).
type OrderIntakeUC struct {
	Lookup    *CustomerLookupUC
	Customers domain.CustomerRepo
	Items     domain.ItemRepo
	Orders    domain.OrderRepo
	Employees domain.EmployeeRepo
	Notifier  domain.Notifier
	Events    domain.EventPublisher

	NotifyThreshold   float64
	DefaultSubsidiary string
	TaxRate           float64
	BaseURL           string
}

func (uc *OrderIntakeUC) Submit(ctx context.Context, form IntakeForm) (*IntakeResult, error) {
	res := &IntakeResult{}

	// lookup_customer
	found := uc.Lookup.ByEmail(ctx, form.Email)
	subsidiary := found.Subsidiary
	if found.Found {
		res.CustomerID = found.CustomerID
	} else {
		// create_customer
		c, err := uc.createCustomer(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		res.CustomerID = c.ID
		res.CustomerCreated = true
		subsidiary = c.Subsidiary
	}

	// create_order
	order, err := uc.createOrder(ctx, res.CustomerID, subsidiary, form.Lines)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	res.OrderID = order.ID
	res.OrderNumber = order.Number

	// Read the committed order back: total and sales rep are
	// authoritative only after the save.
	saved, err := uc.Orders.FindByID(ctx, order.ID)
	if err != nil {
		log.Error().Err(err).Str("order", order.ID.String()).Msg("order readback failed, skipping notification")
		return res, nil
	}

	// notify | skip_notify
	if saved.Total > uc.NotifyThreshold {
		res.Notified = uc.notifySupervisor(ctx, saved)
	}
	if uc.Events != nil {
		if err := uc.Events.OrderCreated(ctx, saved); err != nil {
			log.Warn().Err(err).Str("order", saved.ID.String()).Msg("order event publish failed")
		}
	}
	return res, nil
}

func (uc *OrderIntakeUC) createCustomer(ctx context.Context, form IntakeForm) (*domain.Customer, error) {
	name := strings.TrimSpace(form.FirstName + " " + form.LastName)
	c := &domain.Customer{
		ID:         uuid.New(),
		Name:       name,
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:      strings.TrimSpace(form.Phone),
		Subsidiary: uc.DefaultSubsidiary,
	}
	if err := uc.Customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *OrderIntakeUC) createOrder(ctx context.Context, customerID uuid.UUID, subsidiary string, lines []IntakeLine) (*domain.Order, error) {
	o := &domain.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     domain.OrderStatusPendingFulfillment,
		Subsidiary: subsidiary,
		OrderDate:  time.Now(),
	}
	o.Number = "SO-" + strings.ToUpper(o.ID.String()[:8])
	// The sales rep sources from the customer record, as the host
	// platform does it. A failed read leaves the order unassigned.
	if cust, err := uc.Customers.FindByID(ctx, customerID); err == nil && cust.SalesRepID != nil {
		o.SalesRepID = cust.SalesRepID
	}
	for _, l := range lines {
		it, err := uc.Items.FindByID(ctx, l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", l.ItemID, err)
		}
		line := domain.OrderLine{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ItemID:      it.ID,
			Description: it.Description,
			Quantity:    l.Quantity,
			UnitPrice:   it.UnitPrice,
		}
		if err := domain.ValidateLine(line, it.Subsidiary, subsidiary); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if len(o.Lines) == 0 {
		return nil, domain.ErrLineIncomplete
	}
	o.Recalculate(uc.TaxRate)
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// notifySupervisor resolves the order's sales rep, then the rep's
// supervisor, and sends a single message with a link to the order.
// Any failure on this path is logged and swallowed.
func (uc *OrderIntakeUC) notifySupervisor(ctx context.Context, o *domain.Order) bool {
	if uc.Notifier == nil || o.SalesRepID == nil {
		return false
	}
	rep, err := uc.Employees.FindByID(ctx, *o.SalesRepID)
	if err != nil {
		log.Error().Err(err).Str("order", o.ID.String()).Msg("sales rep lookup failed")
		return false
	}
	if rep.SupervisorID == nil {
		log.Warn().Str("rep", rep.ID.String()).Msg("sales rep has no supervisor")
		return false
	}
	sup, err := uc.Employees.FindByID(ctx, *rep.SupervisorID)
	if err != nil {
		log.Error().Err(err).Str("order", o.ID.String()).Msg("supervisor lookup failed")
		return false
	}
	subject := fmt.Sprintf("Sales order %s above threshold", o.Number)
	body := fmt.Sprintf("%s/orders/%s", strings.TrimRight(uc.BaseURL, "/"), o.ID)
	if err := uc.Notifier.Send(ctx, sup.Email, subject, body); err != nil {
		log.Error().Err(err).Str("order", o.ID.String()).Msg("supervisor notification failed")
		return false
	}
	return true
}
