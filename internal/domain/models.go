package domain

import (
	"strings"

	"github.com/grachmannico95/txengine/pkg/money"
)

type RecordKind string

const (
	RecordKindDeposit    RecordKind = "deposit"
	RecordKindWithdrawal RecordKind = "withdrawal"
	RecordKindDispute    RecordKind = "dispute"
	RecordKindResolve    RecordKind = "resolve"
	RecordKindChargeback RecordKind = "chargeback"
)

// ParseRecordKind matches the five kinds case-insensitively.
func ParseRecordKind(text string) (RecordKind, bool) {
	switch kind := RecordKind(strings.ToLower(strings.TrimSpace(text))); kind {
	case RecordKindDeposit, RecordKindWithdrawal, RecordKindDispute, RecordKindResolve, RecordKindChargeback:
		return kind, true
	default:
		return "", false
	}
}

// Record is one validated input row. The set of implementations is closed:
// Deposit, Withdrawal, Dispute, Resolve and Chargeback.
type Record interface {
	Kind() RecordKind
	ClientID() uint16
	TxID() uint32
	isRecord()
}

type Deposit struct {
	Client uint16
	Tx     uint32
	Amount money.Amount
}

type Withdrawal struct {
	Client uint16
	Tx     uint32
	Amount money.Amount
}

type Dispute struct {
	Client uint16
	Tx     uint32
}

type Resolve struct {
	Client uint16
	Tx     uint32
}

type Chargeback struct {
	Client uint16
	Tx     uint32
}

func (Deposit) Kind() RecordKind { return RecordKindDeposit }
func (d Deposit) ClientID() uint16 { return d.Client }
func (d Deposit) TxID() uint32 { return d.Tx }
func (Deposit) isRecord() {}

func (Withdrawal) Kind() RecordKind { return RecordKindWithdrawal }
func (w Withdrawal) ClientID() uint16 { return w.Client }
func (w Withdrawal) TxID() uint32 { return w.Tx }
func (Withdrawal) isRecord() {}

func (Dispute) Kind() RecordKind { return RecordKindDispute }
func (d Dispute) ClientID() uint16 { return d.Client }
func (d Dispute) TxID() uint32 { return d.Tx }
func (Dispute) isRecord() {}

func (Resolve) Kind() RecordKind { return RecordKindResolve }
func (r Resolve) ClientID() uint16 { return r.Client }
func (r Resolve) TxID() uint32 { return r.Tx }
func (Resolve) isRecord() {}

func (Chargeback) Kind() RecordKind { return RecordKindChargeback }
func (c Chargeback) ClientID() uint16 { return c.Client }
func (c Chargeback) TxID() uint32 { return c.Tx }
func (Chargeback) isRecord() {}

type EntryKind string

const (
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
)

type DisputeState string

const (
	DisputeStateClean       DisputeState = "clean"
	DisputeStateDisputed    DisputeState = "disputed"
	DisputeStateResolved    DisputeState = "resolved"
	DisputeStateChargedBack DisputeState = "charged_back"
)

// TransactionEntry is an accepted deposit or withdrawal.
type TransactionEntry struct {
	ID           uint32
	ClientID     uint16
	Kind         EntryKind
	Amount       money.Amount
	DisputeState DisputeState
}

// AccountSnapshot is the read-out form of an account. Total is computed at
// snapshot time from Available and Held.
type AccountSnapshot struct {
	Client    uint16
	Available money.Amount
	Held      money.Amount
	Total     money.Amount
	Locked    bool
}

// Stats counts what happened to every row of one run. The reader fills
// RowsRead and Malformed, the ledger fills Applied and Rejected, and both add
// to ByReason.
type Stats struct {
	RowsRead  int
	Malformed int
	Applied   int
	Rejected  int
	ByReason  map[string]int
}

// Add folds other into s. ByReason is allocated on first use.
func (s *Stats) Add(other Stats) {
	s.RowsRead += other.RowsRead
	s.Malformed += other.Malformed
	s.Applied += other.Applied
	s.Rejected += other.Rejected

	if len(other.ByReason) == 0 {
		return
	}
	if s.ByReason == nil {
		s.ByReason = make(map[string]int, len(other.ByReason))
	}
	for reason, count := range other.ByReason {
		s.ByReason[reason] += count
	}
}

// Result is the final state produced by one run over an input stream.
type Result struct {
	RunID    string
	Accounts []AccountSnapshot
	Disputed []uint32
	Stats    Stats
}
