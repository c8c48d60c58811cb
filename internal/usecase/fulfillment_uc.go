package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arveloz/erpforms/internal/domain"
)

// DenyMessage is the fixed text shown when a fulfillment save is
// blocked by the deposit guard.
const DenyMessage = "Item fulfillment can only be saved for sales orders in pending fulfillment status " +
	"if a customer deposit exists and is greater than or equal to the sales order total. " +
	"If these conditions are not met, saving will be restricted."

// FulfillmentGuardUC decides whether a fulfillment against an order
// may be saved. It is a pure guard: no mutation, binary outcome.
type FulfillmentGuardUC struct {
	Orders   domain.OrderRepo
	Deposits domain.DepositRepo

	// AllowMissingDeposit preserves the behavior of one of the two
	// original script copies, which let a save through when no
	// deposit existed at all. Off by default.
	AllowMissingDeposit bool
}

type GuardDecision struct {
	Allowed    bool
	Message    string
	DepositSum float64
	OrderTotal float64
}

// Allow sums the order's active deposits and compares against the
// order total. The boundary is inclusive: a sum equal to the total
// passes. Query failures deny with the fixed message rather than
// letting an unverified save through.
func (uc *FulfillmentGuardUC) Allow(ctx context.Context, orderID uuid.UUID) GuardDecision {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order", orderID.String()).Msg("guard: order lookup failed")
		return GuardDecision{Allowed: false, Message: DenyMessage}
	}
	sum, count, err := uc.Deposits.SumActiveByOrder(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order", orderID.String()).Msg("guard: deposit sum failed")
		return GuardDecision{Allowed: false, Message: DenyMessage}
	}
	d := GuardDecision{DepositSum: sum, OrderTotal: o.Total}
	if count == 0 && uc.AllowMissingDeposit {
		d.Allowed = true
		return d
	}
	if count > 0 && sum >= o.Total {
		d.Allowed = true
		return d
	}
	d.Message = DenyMessage
	return d
}

// FulfillmentUC saves a fulfillment once the guard has allowed it.
type FulfillmentUC struct {
	Guard        *FulfillmentGuardUC
	Fulfillments domain.FulfillmentRepo
}

func (uc *FulfillmentUC) Create(ctx context.Context, orderID uuid.UUID, memo string) (*domain.Fulfillment, *GuardDecision, error) {
	dec := uc.Guard.Allow(ctx, orderID)
	if !dec.Allowed {
		return nil, &dec, nil
	}
	f := &domain.Fulfillment{ID: uuid.New(), OrderID: orderID, Memo: memo, CreatedAt: time.Now()}
	if err := uc.Fulfillments.Save(ctx, f); err != nil {
		return nil, &dec, err
	}
	return f, &dec, nil
}
