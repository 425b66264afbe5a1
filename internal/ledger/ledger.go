// Package ledger applies validated records to per-client accounts and the
// transaction log. It has a single writer: records must be applied one at a
// time, in input order.
package ledger

import (
	"maps"
	"slices"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/internal/storage"
)

type Ledger struct {
	accounts map[uint16]Account
	txlog    domain.TransactionLog
	stats    domain.Stats
}

type Option func(*Ledger)

// WithTransactionLog replaces the default in-memory log. The ledger must be
// the only writer of the log it is given.
func WithTransactionLog(txlog domain.TransactionLog) Option {
	return func(l *Ledger) {
		l.txlog = txlog
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[uint16]Account),
		stats:    domain.Stats{ByReason: make(map[string]int)},
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.txlog == nil {
		l.txlog = storage.NewMemoryStore()
	}

	return l
}

// Apply applies one record. A rejected record leaves every account and log
// entry unchanged and is returned as a *domain.RejectionError.
func (l *Ledger) Apply(record domain.Record) error {
	if record == nil {
		l.countRejection(domain.ErrUnknownKind)
		return &domain.RejectionError{Reason: domain.ErrUnknownKind}
	}

	if err := l.apply(record); err != nil {
		l.countRejection(err)
		return domain.NewRejection(record, err)
	}

	l.stats.Applied++
	return nil
}

func (l *Ledger) apply(record domain.Record) error {
	switch r := record.(type) {
	case domain.Deposit:
		return l.deposit(r)
	case domain.Withdrawal:
		return l.withdraw(r)
	case domain.Dispute:
		return l.dispute(r)
	case domain.Resolve:
		return l.resolve(r)
	case domain.Chargeback:
		return l.chargeback(r)
	default:
		return domain.ErrUnknownKind
	}
}

func (l *Ledger) deposit(r domain.Deposit) error {
	if _, exists := l.txlog.Get(r.Tx); exists {
		return domain.ErrDuplicateTransaction
	}

	acc, exists := l.accounts[r.Client]
	if !exists {
		acc = newAccount(r.Client)
	}

	next, err := acc.deposit(r.Amount)
	if err != nil {
		return err
	}

	return l.commitEntry(next, domain.TransactionEntry{
		ID:       r.Tx,
		ClientID: r.Client,
		Kind:     domain.EntryKindDeposit,
		Amount:   r.Amount,
	})
}

func (l *Ledger) withdraw(r domain.Withdrawal) error {
	if _, exists := l.txlog.Get(r.Tx); exists {
		return domain.ErrDuplicateTransaction
	}

	acc, exists := l.accounts[r.Client]
	if !exists {
		return domain.ErrUnknownClient
	}

	next, err := acc.withdraw(r.Amount)
	if err != nil {
		return err
	}

	return l.commitEntry(next, domain.TransactionEntry{
		ID:       r.Tx,
		ClientID: r.Client,
		Kind:     domain.EntryKindWithdrawal,
		Amount:   r.Amount,
	})
}

func (l *Ledger) dispute(r domain.Dispute) error {
	entry, acc, err := l.lookup(r.Tx, r.Client)
	if err != nil {
		return err
	}

	switch entry.DisputeState {
	case domain.DisputeStateDisputed:
		return domain.ErrAlreadyDisputed
	case domain.DisputeStateChargedBack:
		return domain.ErrChargedBack
	}

	next, err := acc.hold(entry.Kind, entry.Amount)
	if err != nil {
		return err
	}

	return l.commitState(next, entry.ID, domain.DisputeStateDisputed)
}

func (l *Ledger) resolve(r domain.Resolve) error {
	entry, acc, err := l.lookup(r.Tx, r.Client)
	if err != nil {
		return err
	}
	if entry.DisputeState != domain.DisputeStateDisputed {
		return domain.ErrNotDisputed
	}

	next, err := acc.release(entry.Kind, entry.Amount)
	if err != nil {
		return err
	}

	return l.commitState(next, entry.ID, domain.DisputeStateResolved)
}

func (l *Ledger) chargeback(r domain.Chargeback) error {
	entry, acc, err := l.lookup(r.Tx, r.Client)
	if err != nil {
		return err
	}
	if entry.DisputeState != domain.DisputeStateDisputed {
		return domain.ErrNotDisputed
	}

	next, err := acc.chargeback(entry.Amount)
	if err != nil {
		return err
	}

	return l.commitState(next, entry.ID, domain.DisputeStateChargedBack)
}

// lookup finds the referenced entry and the account that owns it. Disputes,
// resolves and chargebacks never cross clients.
func (l *Ledger) lookup(tx uint32, client uint16) (domain.TransactionEntry, Account, error) {
	entry, exists := l.txlog.Get(tx)
	if !exists {
		return domain.TransactionEntry{}, Account{}, domain.ErrTransactionNotFound
	}
	if entry.ClientID != client {
		return domain.TransactionEntry{}, Account{}, domain.ErrClientMismatch
	}

	acc, exists := l.accounts[client]
	if !exists {
		return domain.TransactionEntry{}, Account{}, domain.ErrUnknownClient
	}

	return *entry, acc, nil
}

func (l *Ledger) commitEntry(next Account, entry domain.TransactionEntry) error {
	if err := next.verify(); err != nil {
		return err
	}

	entry.DisputeState = domain.DisputeStateClean
	if err := l.txlog.Insert(entry); err != nil {
		return err
	}

	l.accounts[next.client] = next
	return nil
}

func (l *Ledger) commitState(next Account, tx uint32, state domain.DisputeState) error {
	if err := next.verify(); err != nil {
		return err
	}

	if err := l.txlog.SetDisputeState(tx, state); err != nil {
		return err
	}

	l.accounts[next.client] = next
	return nil
}

func (l *Ledger) countRejection(reason error) {
	l.stats.Rejected++
	l.stats.ByReason[reason.Error()]++
}

// Account returns the snapshot of one client's account.
func (l *Ledger) Account(client uint16) (domain.AccountSnapshot, bool) {
	acc, exists := l.accounts[client]
	if !exists {
		return domain.AccountSnapshot{}, false
	}
	return acc.Snapshot(), true
}

// Accounts returns every known account ordered by client id.
func (l *Ledger) Accounts() []domain.AccountSnapshot {
	clients := slices.Sorted(maps.Keys(l.accounts))

	snapshots := make([]domain.AccountSnapshot, 0, len(clients))
	for _, client := range clients {
		snapshots = append(snapshots, l.accounts[client].Snapshot())
	}

	return snapshots
}

// Entry returns a copy of a logged transaction.
func (l *Ledger) Entry(tx uint32) (domain.TransactionEntry, bool) {
	entry, exists := l.txlog.Get(tx)
	if !exists {
		return domain.TransactionEntry{}, false
	}
	return *entry, true
}

func (l *Ledger) Disputed() []uint32 {
	return l.txlog.Disputed()
}

// Stats returns the ledger's share of the run counters: Applied, Rejected and
// the rejection reasons, keyed by reason text.
func (l *Ledger) Stats() domain.Stats {
	return domain.Stats{
		Applied:  l.stats.Applied,
		Rejected: l.stats.Rejected,
		ByReason: maps.Clone(l.stats.ByReason),
	}
}
