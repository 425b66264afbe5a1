package domain

import (
	"errors"
	"testing"

	"github.com/grachmannico95/txengine/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestParseRecordKind(t *testing.T) {
	testCases := []struct {
		input  string
		want   RecordKind
		wantOK bool
	}{
		{"deposit", RecordKindDeposit, true},
		{"Withdrawal", RecordKindWithdrawal, true},
		{" DISPUTE ", RecordKindDispute, true},
		{"resolve", RecordKindResolve, true},
		{"ChargeBack", RecordKindChargeback, true},
		{"transfer", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			kind, ok := ParseRecordKind(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestRecord_Accessors(t *testing.T) {
	records := []Record{
		Deposit{Client: 1, Tx: 10, Amount: money.FromUnits(1)},
		Withdrawal{Client: 2, Tx: 20, Amount: money.FromUnits(1)},
		Dispute{Client: 3, Tx: 30},
		Resolve{Client: 4, Tx: 40},
		Chargeback{Client: 5, Tx: 50},
	}
	kinds := []RecordKind{RecordKindDeposit, RecordKindWithdrawal, RecordKindDispute, RecordKindResolve, RecordKindChargeback}

	for i, r := range records {
		assert.Equal(t, kinds[i], r.Kind())
		assert.Equal(t, uint16(i+1), r.ClientID())
		assert.Equal(t, uint32((i+1)*10), r.TxID())
	}
}

func TestRejectionError(t *testing.T) {
	err := NewRejection(Dispute{Client: 7, Tx: 99}, ErrTransactionNotFound)

	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, "dispute rejected (client 7, tx 99): transaction not found", err.Error())

	var rejection *RejectionError
	assert.True(t, errors.As(error(err), &rejection))
	assert.Equal(t, uint32(99), rejection.Tx)
}

func TestStats_Add(t *testing.T) {
	read := Stats{
		RowsRead:  5,
		Malformed: 1,
		ByReason:  map[string]int{"bad id": 1},
	}
	applied := Stats{
		Applied:  3,
		Rejected: 1,
		ByReason: map[string]int{"bad id": 1, "account locked": 1},
	}

	read.Add(applied)

	assert.Equal(t, Stats{
		RowsRead:  5,
		Malformed: 1,
		Applied:   3,
		Rejected:  1,
		ByReason:  map[string]int{"bad id": 2, "account locked": 1},
	}, read)
	assert.Equal(t, map[string]int{"bad id": 1, "account locked": 1}, applied.ByReason)
}

func TestStats_AddAllocatesReasons(t *testing.T) {
	var total Stats
	total.Add(Stats{})
	assert.Nil(t, total.ByReason)

	total.Add(Stats{Rejected: 2, ByReason: map[string]int{"account locked": 2}})
	assert.Equal(t, 2, total.Rejected)
	assert.Equal(t, map[string]int{"account locked": 2}, total.ByReason)
}
