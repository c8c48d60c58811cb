package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arveloz/erpforms/internal/domain"
)

type DonorForm struct {
	FirstName    string
	LastName     string
	Gender       string
	Phone        string
	BloodGroup   string
	LastDonation string // yyyy-mm-dd, optional
}

type DonorUC struct {
	Donors domain.DonorRepo
}

func (uc *DonorUC) Register(ctx context.Context, form DonorForm) (*domain.Donor, error) {
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.Phone) == "" {
		return nil, errors.New("first name and phone are mandatory")
	}
	g, ok := parseBloodGroup(form.BloodGroup)
	if !ok {
		return nil, errors.New("unknown blood group")
	}
	d := &domain.Donor{
		ID:         uuid.New(),
		FirstName:  strings.TrimSpace(form.FirstName),
		LastName:   strings.TrimSpace(form.LastName),
		Gender:     strings.TrimSpace(form.Gender),
		Phone:      strings.TrimSpace(form.Phone),
		BloodGroup: g,
	}
	if s := strings.TrimSpace(form.LastDonation); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, errors.New("last donation date must be yyyy-mm-dd")
		}
		d.LastDonation = &t
	}
	if err := uc.Donors.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FindEligible returns donors of the given group whose last donation
// is at least three months old, or who never donated.
func (uc *DonorUC) FindEligible(ctx context.Context, group string) ([]domain.Donor, error) {
	g, ok := parseBloodGroup(group)
	if !ok {
		return nil, errors.New("unknown blood group")
	}
	all, err := uc.Donors.FindByBloodGroup(ctx, g)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]domain.Donor, 0, len(all))
	for _, d := range all {
		if d.EligibleAt(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func parseBloodGroup(s string) (domain.BloodGroup, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, g := range domain.BloodGroups {
		if string(g) == v {
			return g, true
		}
	}
	return "", false
}
