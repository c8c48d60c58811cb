package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Lines").First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) filtered(ctx context.Context, f domain.OrderFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", domain.OrderStatusCancelled)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Subsidiary != "" {
		q = q.Where("subsidiary = ?", f.Subsidiary)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	return q
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := r.filtered(ctx, f).Order("order_date DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) SubtotalsByOrder(ctx context.Context, f domain.OrderFilter) ([]domain.OrderAmount, error) {
	var out []domain.OrderAmount
	err := r.filtered(ctx, f).
		Select("id AS order_id, subtotal AS amount").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) TaxTotalsByOrder(ctx context.Context, f domain.OrderFilter) ([]domain.OrderAmount, error) {
	var out []domain.OrderAmount
	err := r.filtered(ctx, f).
		Where("tax_total <> 0").
		Select("id AS order_id, tax_total AS amount").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
