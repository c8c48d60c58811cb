package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arveloz/erpforms/internal/domain"
)

// OrderRow is one rendered row of the sales order listing.
type OrderRow struct {
	ID         uuid.UUID
	Number     string
	Date       string
	Status     domain.OrderStatus
	Customer   string
	Subsidiary string
	Department string
	Class      string
	Subtotal   float64
	Tax        float64
	Total      float64
}

type OrderListUC struct {
	Orders    domain.OrderRepo
	Customers domain.CustomerRepo
}

// List runs the filtered order query plus the two aggregate queries
// (subtotal, tax) and merges the three result sets by order ID. An
// order with no tax row renders 0; a missing department or class
// degrades to an empty cell rather than failing the page.
func (uc *OrderListUC) List(ctx context.Context, f domain.OrderFilter) ([]OrderRow, error) {
	orders, err := uc.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	subtotals, err := uc.Orders.SubtotalsByOrder(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("subtotal aggregate failed")
		subtotals = nil
	}
	taxes, err := uc.Orders.TaxTotalsByOrder(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("tax aggregate failed")
		taxes = nil
	}

	subByID := make(map[uuid.UUID]float64, len(subtotals))
	for _, s := range subtotals {
		subByID[s.OrderID] = s.Amount
	}
	taxByID := make(map[uuid.UUID]float64, len(taxes))
	for _, t := range taxes {
		taxByID[t.OrderID] = t.Amount
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		row := OrderRow{
			ID:         o.ID,
			Number:     o.Number,
			Status:     o.Status,
			Subsidiary: o.Subsidiary,
			Department: o.Department,
			Class:      o.Class,
			Subtotal:   subByID[o.ID],
			Tax:        taxByID[o.ID],
			Total:      o.Total,
		}
		if !o.OrderDate.IsZero() {
			row.Date = o.OrderDate.Format("2006-01-02")
		}
		if c, err := uc.Customers.FindByID(ctx, o.CustomerID); err == nil {
			row.Customer = c.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
