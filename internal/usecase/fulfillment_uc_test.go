package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arveloz/erpforms/internal/domain"
)

func guardFixture(total, depositSum float64, depositCount int64) (*FulfillmentGuardUC, uuid.UUID) {
	orders := newFakeOrderRepo()
	o := &domain.Order{ID: uuid.New(), Total: total, Status: domain.OrderStatusPendingFulfillment}
	orders.orders[o.ID] = o
	return &FulfillmentGuardUC{
		Orders:   orders,
		Deposits: &fakeDepositRepo{sum: depositSum, count: depositCount},
	}, o.ID
}

func TestGuardDepositEqualToTotalAllows(t *testing.T) {
	guard, orderID := guardFixture(250, 250, 1)

	dec := guard.Allow(context.Background(), orderID)

	assert.True(t, dec.Allowed)
	assert.Empty(t, dec.Message)
}

func TestGuardDepositAboveTotalAllows(t *testing.T) {
	guard, orderID := guardFixture(250, 300, 2)

	assert.True(t, guard.Allow(context.Background(), orderID).Allowed)
}

func TestGuardDepositOneCentShortDenies(t *testing.T) {
	guard, orderID := guardFixture(250, 249.99, 1)

	dec := guard.Allow(context.Background(), orderID)

	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyMessage, dec.Message)
}

func TestGuardNoDepositDenies(t *testing.T) {
	guard, orderID := guardFixture(250, 0, 0)

	dec := guard.Allow(context.Background(), orderID)

	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyMessage, dec.Message)
}

func TestGuardNoDepositAllowedWhenConfigured(t *testing.T) {
	guard, orderID := guardFixture(250, 0, 0)
	guard.AllowMissingDeposit = true

	assert.True(t, guard.Allow(context.Background(), orderID).Allowed)
}

func TestGuardUnknownOrderDenies(t *testing.T) {
	guard, _ := guardFixture(250, 250, 1)

	dec := guard.Allow(context.Background(), uuid.New())

	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyMessage, dec.Message)
}

func TestGuardDepositQueryFailureDenies(t *testing.T) {
	guard, orderID := guardFixture(250, 250, 1)
	guard.Deposits = &fakeDepositRepo{err: errBoom}

	assert.False(t, guard.Allow(context.Background(), orderID).Allowed)
}

func TestFulfillmentCreateSavesWhenAllowed(t *testing.T) {
	guard, orderID := guardFixture(100, 100, 1)
	repo := &fakeFulfillmentRepo{}
	uc := &FulfillmentUC{Guard: guard, Fulfillments: repo}

	f, dec, err := uc.Create(context.Background(), orderID, "ship it")

	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	require.NotNil(t, f)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "ship it", repo.saved[0].Memo)
}

func TestFulfillmentCreateBlockedLeavesNoRecord(t *testing.T) {
	guard, orderID := guardFixture(100, 40, 1)
	repo := &fakeFulfillmentRepo{}
	uc := &FulfillmentUC{Guard: guard, Fulfillments: repo}

	f, dec, err := uc.Create(context.Background(), orderID, "ship it")

	require.NoError(t, err)
	assert.Nil(t, f)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyMessage, dec.Message)
	assert.Empty(t, repo.saved)
}
