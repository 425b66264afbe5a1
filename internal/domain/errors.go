package domain

import (
	"errors"
	"fmt"
)

// Validation failures. The row is dropped and the stream continues.
var (
	ErrUnknownKind   = errors.New("unknown record kind")
	ErrBadID         = errors.New("bad id")
	ErrBadAmount     = errors.New("bad amount")
	ErrMissingAmount = errors.New("missing amount")
	ErrMalformedRow  = errors.New("malformed row")
)

// Ledger rejections. A rejected record leaves the ledger unchanged.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrAccountLocked        = errors.New("account locked")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
	ErrUnknownClient        = errors.New("unknown client")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrClientMismatch       = errors.New("client does not own transaction")
	ErrAlreadyDisputed      = errors.New("transaction already disputed")
	ErrChargedBack          = errors.New("transaction already charged back")
	ErrNotDisputed          = errors.New("transaction not disputed")
	ErrBalanceOverflow      = errors.New("balance overflow")
	ErrInvariantViolated    = errors.New("account invariant violated")
)

// RejectionError describes a record the ledger refused to apply.
type RejectionError struct {
	Kind   RecordKind
	Client uint16
	Tx     uint32
	Reason error
}

func NewRejection(record Record, reason error) *RejectionError {
	return &RejectionError{
		Kind:   record.Kind(),
		Client: record.ClientID(),
		Tx:     record.TxID(),
		Reason: reason,
	}
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected (client %d, tx %d): %v", e.Kind, e.Client, e.Tx, e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}
