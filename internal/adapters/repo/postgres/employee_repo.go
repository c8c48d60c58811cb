package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/domain"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

func (r *EmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
