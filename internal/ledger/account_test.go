package ledger

import (
	"testing"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_TransitionsDoNotMutateReceiver(t *testing.T) {
	acc := newAccount(1)

	next, err := acc.deposit(money.FromUnits(100))
	require.NoError(t, err)

	assert.True(t, acc.Available().IsZero())
	assert.Equal(t, int64(100), next.Available().Units())
}

func TestAccount_Snapshot(t *testing.T) {
	acc := Account{client: 4, available: money.FromUnits(15000), held: money.FromUnits(5000)}

	s := acc.Snapshot()
	assert.Equal(t, domain.AccountSnapshot{
		Client:    4,
		Available: money.FromUnits(15000),
		Held:      money.FromUnits(5000),
		Total:     money.FromUnits(20000),
		Locked:    false,
	}, s)
}

func TestAccount_HoldAndRelease(t *testing.T) {
	testCases := []struct {
		name          string
		kind          domain.EntryKind
		wantAvailable int64
		wantHeld      int64
	}{
		{"Deposit", domain.EntryKindDeposit, 700, 300},
		{"Withdrawal", domain.EntryKindWithdrawal, 1000, 300},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc := Account{client: 1, available: money.FromUnits(1000)}

			held, err := acc.hold(tc.kind, money.FromUnits(300))
			require.NoError(t, err)
			assert.Equal(t, tc.wantAvailable, held.Available().Units())
			assert.Equal(t, tc.wantHeld, held.Held().Units())

			released, err := held.release(tc.kind, money.FromUnits(300))
			require.NoError(t, err)
			assert.Equal(t, acc, released)
		})
	}
}

func TestAccount_ReleaseMoreThanHeld(t *testing.T) {
	acc := Account{client: 1, held: money.FromUnits(10)}

	_, err := acc.release(domain.EntryKindDeposit, money.FromUnits(11))
	assert.ErrorIs(t, err, domain.ErrInvariantViolated)

	_, err = acc.chargeback(money.FromUnits(11))
	assert.ErrorIs(t, err, domain.ErrInvariantViolated)
}

func TestAccount_Verify(t *testing.T) {
	assert.NoError(t, Account{available: money.FromUnits(1)}.verify())
	assert.ErrorIs(t, Account{available: money.FromUnits(-1)}.verify(), domain.ErrInvariantViolated)
	assert.ErrorIs(t, Account{held: money.FromUnits(-1)}.verify(), domain.ErrInvariantViolated)
}
