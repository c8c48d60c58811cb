package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/domain"
)

type DepositRepo struct{ db *gorm.DB }

func NewDepositRepo(db *gorm.DB) *DepositRepo { return &DepositRepo{db: db} }

func (r *DepositRepo) SumActiveByOrder(ctx context.Context, orderID uuid.UUID) (float64, int64, error) {
	var row struct {
		Sum   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Deposit{}).
		Where("order_id = ? AND status IN ?", orderID, domain.ActiveDepositStatuses).
		Select("COALESCE(SUM(amount), 0) AS sum, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Sum, row.Count, nil
}

func (r *DepositRepo) Save(ctx context.Context, d *domain.Deposit) error {
	return r.db.WithContext(ctx).Save(d).Error
}

type FulfillmentRepo struct{ db *gorm.DB }

func NewFulfillmentRepo(db *gorm.DB) *FulfillmentRepo { return &FulfillmentRepo{db: db} }

func (r *FulfillmentRepo) Save(ctx context.Context, f *domain.Fulfillment) error {
	return r.db.WithContext(ctx).Save(f).Error
}
