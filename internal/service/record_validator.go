package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/pkg/money"
)

// RawRecord is one input row before validation. Fields are untrimmed text.
type RawRecord struct {
	Line      int
	Kind      string
	Client    string
	Tx        string
	Amount    string
	HasAmount bool
}

type RecordValidator interface {
	Validate(raw RawRecord) (domain.Record, error)
}

type recordValidator struct{}

func NewRecordValidator() RecordValidator {
	return recordValidator{}
}

// Validate decodes raw into one of the five record types. The amount column
// is required for deposits and withdrawals and ignored for everything else.
func (recordValidator) Validate(raw RawRecord) (domain.Record, error) {
	kind, ok := domain.ParseRecordKind(raw.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, strings.TrimSpace(raw.Kind))
	}

	client, err := strconv.ParseUint(strings.TrimSpace(raw.Client), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client %q", domain.ErrBadID, strings.TrimSpace(raw.Client))
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(raw.Tx), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %q", domain.ErrBadID, strings.TrimSpace(raw.Tx))
	}

	switch kind {
	case domain.RecordKindDeposit, domain.RecordKindWithdrawal:
		amount, err := parseAmount(raw)
		if err != nil {
			return nil, err
		}
		if kind == domain.RecordKindDeposit {
			return domain.Deposit{Client: uint16(client), Tx: uint32(tx), Amount: amount}, nil
		}
		return domain.Withdrawal{Client: uint16(client), Tx: uint32(tx), Amount: amount}, nil
	case domain.RecordKindDispute:
		return domain.Dispute{Client: uint16(client), Tx: uint32(tx)}, nil
	case domain.RecordKindResolve:
		return domain.Resolve{Client: uint16(client), Tx: uint32(tx)}, nil
	default:
		return domain.Chargeback{Client: uint16(client), Tx: uint32(tx)}, nil
	}
}

func parseAmount(raw RawRecord) (money.Amount, error) {
	text := strings.TrimSpace(raw.Amount)
	if !raw.HasAmount || text == "" {
		return money.Zero, fmt.Errorf("%w: %w", domain.ErrBadAmount, domain.ErrMissingAmount)
	}

	amount, err := money.ParseNonNegative(text)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %w", domain.ErrBadAmount, err)
	}

	return amount, nil
}

// validationReason maps a validation error to the counter key used in stats.
func validationReason(err error) string {
	for _, reason := range []error{
		domain.ErrUnknownKind,
		domain.ErrBadID,
		domain.ErrBadAmount,
		domain.ErrMalformedRow,
	} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return domain.ErrMalformedRow.Error()
}
