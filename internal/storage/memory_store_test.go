package storage

import (
	"testing"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositEntry(id uint32, client uint16, units int64) domain.TransactionEntry {
	return domain.TransactionEntry{
		ID:       id,
		ClientID: client,
		Kind:     domain.EntryKindDeposit,
		Amount:   money.FromUnits(units),
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	store := NewMemoryStore()

	err := store.Insert(depositEntry(1, 1, 10000))
	require.NoError(t, err)

	entry, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint16(1), entry.ClientID)
	assert.Equal(t, domain.DisputeStateClean, entry.DisputeState)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Insert_DuplicateKeepsFirst(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Insert(depositEntry(1, 1, 10000)))

	err := store.Insert(depositEntry(1, 2, 99999))
	assert.ErrorIs(t, err, domain.ErrDuplicateTransaction)

	entry, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint16(1), entry.ClientID)
	assert.Equal(t, int64(10000), entry.Amount.Units())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore()

	entry, ok := store.Get(42)
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestMemoryStore_SetDisputeState(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Insert(depositEntry(1, 1, 10000)))

	err := store.SetDisputeState(1, domain.DisputeStateDisputed)
	require.NoError(t, err)

	entry, _ := store.Get(1)
	assert.Equal(t, domain.DisputeStateDisputed, entry.DisputeState)
	assert.Equal(t, []uint32{1}, store.Disputed())

	err = store.SetDisputeState(1, domain.DisputeStateResolved)
	require.NoError(t, err)
	assert.Empty(t, store.Disputed())
}

func TestMemoryStore_SetDisputeState_NotFound(t *testing.T) {
	store := NewMemoryStore()

	err := store.SetDisputeState(7, domain.DisputeStateDisputed)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_Disputed_Sorted(t *testing.T) {
	store := NewMemoryStore()

	for _, id := range []uint32{30, 10, 20, 40} {
		require.NoError(t, store.Insert(depositEntry(id, 1, 100)))
	}
	for _, id := range []uint32{40, 10, 30} {
		require.NoError(t, store.SetDisputeState(id, domain.DisputeStateDisputed))
	}

	assert.Equal(t, []uint32{10, 30, 40}, store.Disputed())
}

func TestMemoryStore_ImplementsTransactionLog(t *testing.T) {
	assert.Implements(t, (*domain.TransactionLog)(nil), NewMemoryStore())
}
