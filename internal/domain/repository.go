package domain

// TransactionLog stores accepted deposits and withdrawals by transaction id.
type TransactionLog interface {
	// Insert stores entry unless its id is already present, in which case
	// ErrDuplicateTransaction is returned and the stored entry is kept.
	Insert(entry TransactionEntry) error
	Get(id uint32) (*TransactionEntry, bool)
	SetDisputeState(id uint32, state DisputeState) error
	// Disputed returns the ids of entries currently disputed, ascending.
	Disputed() []uint32
	Len() int
}
