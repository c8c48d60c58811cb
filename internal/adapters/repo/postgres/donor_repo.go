package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/domain"
)

type DonorRepo struct{ db *gorm.DB }

func NewDonorRepo(db *gorm.DB) *DonorRepo { return &DonorRepo{db: db} }

func (r *DonorRepo) Save(ctx context.Context, d *domain.Donor) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DonorRepo) FindByBloodGroup(ctx context.Context, g domain.BloodGroup) ([]domain.Donor, error) {
	var out []domain.Donor
	err := r.db.WithContext(ctx).
		Where("blood_group = ?", g).
		Order("last_donation ASC NULLS FIRST").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
