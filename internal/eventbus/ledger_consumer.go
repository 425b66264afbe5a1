package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/pkg/logger"
	"go.uber.org/zap/zapcore"
)

var ErrOutOfOrder = errors.New("event out of order")

// RecordApplier is the ledger as seen by the consumer.
type RecordApplier interface {
	Apply(record domain.Record) error
}

// LedgerConsumer is the sole writer of a ledger. Ledger rejections are logged
// and absorbed; only delivery problems stop the stream.
type LedgerConsumer struct {
	ledger  RecordApplier
	logger  *logger.Logger
	lastSeq uint64
}

func NewLedgerConsumer(ledger RecordApplier, log *logger.Logger) *LedgerConsumer {
	return &LedgerConsumer{
		ledger: ledger,
		logger: log,
	}
}

func (lc *LedgerConsumer) Consume(ctx context.Context, event Event) error {
	ctx = logger.WithSeq(ctx, event.Seq)

	// Replayed events were already applied once.
	if event.Seq <= lc.lastSeq {
		lc.logger.Debug(ctx, "Event already applied, skipping")
		return nil
	}
	if event.Seq != lc.lastSeq+1 {
		return fmt.Errorf("%w: got seq %d after %d", ErrOutOfOrder, event.Seq, lc.lastSeq)
	}

	payload, ok := event.Payload.(RecordEvent)
	if !ok {
		lc.logger.Error(ctx, "Invalid payload type for record event",
			"payload_type", fmt.Sprintf("%T", event.Payload),
		)
		return fmt.Errorf("invalid payload type %T", event.Payload)
	}

	if payload.RunID != "" {
		ctx = logger.WithRunID(ctx, payload.RunID)
	}
	ctx = logger.WithLine(ctx, payload.LineNumber)

	err := lc.ledger.Apply(payload.Record)

	var rejection *domain.RejectionError
	switch {
	case err == nil:
		if lc.logger.Enabled(zapcore.DebugLevel) {
			lc.logger.Debug(ctx, "Record applied",
				"kind", payload.Record.Kind(),
				"client", payload.Record.ClientID(),
				"tx", payload.Record.TxID(),
			)
		}
	case errors.As(err, &rejection):
		lc.logger.Warn(ctx, "Record rejected",
			"kind", rejection.Kind,
			"client", rejection.Client,
			"tx", rejection.Tx,
			"reason", rejection.Reason.Error(),
		)
	default:
		return fmt.Errorf("apply record at line %d: %w", payload.LineNumber, err)
	}

	lc.lastSeq = event.Seq
	return nil
}

func (lc *LedgerConsumer) LastSeq() uint64 {
	return lc.lastSeq
}
