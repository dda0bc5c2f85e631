package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ornament-catalog/models"
)

func TestPurchaseFlow_HappyPath(t *testing.T) {
	f := NewPurchaseFlow()
	bell := models.OrnamentRecord{ID: 2, Name: "Bell", Price: 5}

	require.NoError(t, f.Open(bell))
	assert.Equal(t, PurchaseAwaitingConfirmation, f.State())

	target, gen, err := f.Begin(10)
	require.NoError(t, err)
	assert.Equal(t, bell, target)
	assert.Equal(t, PurchaseSubmitting, f.State())

	got, outcome := f.Resolve(gen, nil)
	assert.Equal(t, OutcomeResolved, outcome)
	assert.Equal(t, bell, got)
	assert.Equal(t, PurchaseIdle, f.State())
	assert.Nil(t, f.Target())
}

func TestPurchaseFlow_FailureKeepsDialogOpen(t *testing.T) {
	f := NewPurchaseFlow()
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))
	_, gen, err := f.Begin(10)
	require.NoError(t, err)

	_, outcome := f.Resolve(gen, Rejection("purchase", 400, ""))
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, PurchaseAwaitingConfirmation, f.State())
	assert.ErrorIs(t, f.LastError(), ErrRejection)

	// Retry is allowed
	_, _, err = f.Begin(10)
	assert.NoError(t, err)
}

func TestPurchaseFlow_SecondConfirmWhileSubmitting(t *testing.T) {
	f := NewPurchaseFlow()
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))
	_, _, err := f.Begin(10)
	require.NoError(t, err)

	_, _, err = f.Begin(10)
	assert.ErrorIs(t, err, ErrPurchaseInFlight)
	assert.ErrorIs(t, f.Open(models.OrnamentRecord{ID: 3}), ErrPurchaseInFlight)
}

func TestPurchaseFlow_ConfirmWithoutTarget(t *testing.T) {
	f := NewPurchaseFlow()
	_, _, err := f.Begin(10)
	assert.ErrorIs(t, err, ErrNoPurchaseTarget)
}

func TestPurchaseFlow_InsufficientBalance(t *testing.T) {
	f := NewPurchaseFlow()
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))

	_, _, err := f.Begin(3)
	assert.True(t, IsPrecondition(err))
	assert.Equal(t, PurchaseAwaitingConfirmation, f.State())
}

func TestPurchaseFlow_CancelDiscardsLateResult(t *testing.T) {
	f := NewPurchaseFlow()
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))
	_, gen, err := f.Begin(10)
	require.NoError(t, err)

	f.Cancel()
	assert.Equal(t, PurchaseIdle, f.State())

	_, outcome := f.Resolve(gen, nil)
	assert.Equal(t, OutcomeStale, outcome)
	_, outcome = f.Resolve(gen, errors.New("boom"))
	assert.Equal(t, OutcomeStale, outcome)
	assert.Equal(t, PurchaseIdle, f.State())
}

func TestPurchaseFlow_CancelKeepsRequestInFlight(t *testing.T) {
	f := NewPurchaseFlow()
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))
	_, gen, err := f.Begin(10)
	require.NoError(t, err)

	f.Cancel()
	assert.True(t, f.InFlight())

	// The dialog can be reopened, but no second request is handed out
	require.NoError(t, f.Open(models.OrnamentRecord{ID: 2, Price: 5}))
	_, _, err = f.Begin(10)
	assert.ErrorIs(t, err, ErrPurchaseInFlight)
	assert.Equal(t, PurchaseAwaitingConfirmation, f.State())

	_, outcome := f.Resolve(gen, nil)
	assert.Equal(t, OutcomeStale, outcome)
	assert.False(t, f.InFlight())

	_, gen2, err := f.Begin(10)
	require.NoError(t, err)
	assert.NotEqual(t, gen, gen2)
}
