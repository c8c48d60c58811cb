package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/domain"
)

type ItemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var it domain.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) ListActive(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
