package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arveloz/erpforms/internal/domain"
)

// LookupResult is written back to the form so the user sees the
// matched customer before submitting. Both fields may be empty.
type LookupResult struct {
	CustomerID uuid.UUID
	Subsidiary string
	Found      bool
}

type CustomerLookupUC struct {
	Customers domain.CustomerRepo
}

// ByEmail finds the customer whose email matches exactly. With more
// than one match the most recently created record wins; the original
// scripts let the last search row silently overwrite earlier ones, so
// the choice is made explicit here and logged.
// Query failures degrade to an empty result.
func (uc *CustomerLookupUC) ByEmail(ctx context.Context, email string) LookupResult {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return LookupResult{}
	}
	matches, err := uc.Customers.FindByEmail(ctx, e)
	if err != nil {
		log.Error().Err(err).Str("email", e).Msg("customer lookup failed")
		return LookupResult{}
	}
	if len(matches) == 0 {
		return LookupResult{}
	}
	if len(matches) > 1 {
		log.Warn().Str("email", e).Int("matches", len(matches)).Msg("duplicate customer emails, using newest")
	}
	newest := matches[0]
	for _, m := range matches[1:] {
		if m.CreatedAt.After(newest.CreatedAt) {
			newest = m
		}
	}
	return LookupResult{CustomerID: newest.ID, Subsidiary: newest.Subsidiary, Found: true}
}

type ItemSourcingUC struct {
	Items domain.ItemRepo
}

// Source looks up the description, price and subsidiary the form
// copies into the current line. A subsidiary mismatch rejects the
// selection outright; the caller must leave the line untouched.
func (uc *ItemSourcingUC) Source(ctx context.Context, itemID uuid.UUID, customerSubsidiary string) (*domain.ItemSourcing, error) {
	it, err := uc.Items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("item", itemID.String()).Msg("item lookup failed")
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(it.Subsidiary), strings.TrimSpace(customerSubsidiary)) {
		return nil, domain.ErrSubsidiaryMismatch
	}
	return &domain.ItemSourcing{
		ItemID:      it.ID,
		Description: it.Description,
		UnitPrice:   it.UnitPrice,
		Subsidiary:  it.Subsidiary,
	}, nil
}
