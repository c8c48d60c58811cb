package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arveloz/erpforms/internal/domain"
)

func TestCustomerLookupNoMatch(t *testing.T) {
	uc := &CustomerLookupUC{Customers: newFakeCustomerRepo()}

	res := uc.ByEmail(context.Background(), "nobody@example.com")

	assert.False(t, res.Found)
	assert.Equal(t, uuid.Nil, res.CustomerID)
	assert.Empty(t, res.Subsidiary)
}

func TestCustomerLookupEmptyEmail(t *testing.T) {
	uc := &CustomerLookupUC{Customers: newFakeCustomerRepo()}

	assert.False(t, uc.ByEmail(context.Background(), "   ").Found)
}

func TestCustomerLookupSingleMatch(t *testing.T) {
	repo := newFakeCustomerRepo()
	c := domain.Customer{ID: uuid.New(), Email: "ann@example.com", Subsidiary: "2"}
	repo.add(c)
	uc := &CustomerLookupUC{Customers: repo}

	res := uc.ByEmail(context.Background(), "Ann@Example.com ")

	require.True(t, res.Found)
	assert.Equal(t, c.ID, res.CustomerID)
	assert.Equal(t, "2", res.Subsidiary)
}

func TestCustomerLookupDuplicatesNewestWins(t *testing.T) {
	repo := newFakeCustomerRepo()
	older := domain.Customer{ID: uuid.New(), Email: "dup@example.com", Subsidiary: "1",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.Customer{ID: uuid.New(), Email: "dup@example.com", Subsidiary: "3",
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	repo.add(older)
	repo.add(newer)
	uc := &CustomerLookupUC{Customers: repo}

	res := uc.ByEmail(context.Background(), "dup@example.com")

	require.True(t, res.Found)
	assert.Equal(t, newer.ID, res.CustomerID)
	assert.Equal(t, "3", res.Subsidiary)
}

func TestCustomerLookupQueryFailureDegrades(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.findErr = errBoom
	uc := &CustomerLookupUC{Customers: repo}

	assert.False(t, uc.ByEmail(context.Background(), "ann@example.com").Found)
}

func TestItemSourcing(t *testing.T) {
	it := domain.Item{ID: uuid.New(), Name: "Widget", Description: "A widget", UnitPrice: 12.5, Subsidiary: "1"}
	uc := &ItemSourcingUC{Items: newFakeItemRepo(it)}

	src, err := uc.Source(context.Background(), it.ID, "1")

	require.NoError(t, err)
	assert.Equal(t, "A widget", src.Description)
	assert.Equal(t, 12.5, src.UnitPrice)
}

func TestItemSourcingSubsidiaryMismatch(t *testing.T) {
	it := domain.Item{ID: uuid.New(), Name: "Widget", UnitPrice: 12.5, Subsidiary: "2"}
	uc := &ItemSourcingUC{Items: newFakeItemRepo(it)}

	_, err := uc.Source(context.Background(), it.ID, "1")

	assert.ErrorIs(t, err, domain.ErrSubsidiaryMismatch)
}

func TestItemSourcingUnknownItem(t *testing.T) {
	uc := &ItemSourcingUC{Items: newFakeItemRepo()}

	_, err := uc.Source(context.Background(), uuid.New(), "1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
