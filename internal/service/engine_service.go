package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/internal/eventbus"
	"github.com/grachmannico95/txengine/internal/ledger"
	"github.com/grachmannico95/txengine/pkg/logger"
)

type EngineService interface {
	Process(ctx context.Context, reader io.Reader) (*domain.Result, error)
}

// ProcessorFactory builds the producer for one run's bus.
type ProcessorFactory func(bus eventbus.EventBus) CSVProcessorInterface

type engineService struct {
	newProcessor  ProcessorFactory
	channelBuffer int
	logger        *logger.Logger
}

func NewEngineService(channelBuffer int, log *logger.Logger) EngineService {
	validator := NewRecordValidator()

	return NewEngineServiceWithProcessor(channelBuffer, log, func(bus eventbus.EventBus) CSVProcessorInterface {
		return NewCSVProcessor(bus, validator, log)
	})
}

func NewEngineServiceWithProcessor(channelBuffer int, log *logger.Logger, newProcessor ProcessorFactory) EngineService {
	return &engineService{
		newProcessor:  newProcessor,
		channelBuffer: channelBuffer,
		logger:        log,
	}
}

// Process runs one input stream to completion. The reader runs in the calling
// goroutine and the ledger in a single bus worker, so records are applied in
// input order while parsing overlaps with applying.
func (s *engineService) Process(ctx context.Context, reader io.Reader) (*domain.Result, error) {
	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)

	s.logger.Info(ctx, "Starting run")

	l := ledger.New()
	bus := eventbus.New(s.logger, &eventbus.Config{
		ChannelBuffer: s.channelBuffer,
	})

	consumer := eventbus.NewLedgerConsumer(l, s.logger)
	if err := bus.Subscribe(eventbus.EventTypeRecord, consumer); err != nil {
		return nil, fmt.Errorf("subscribe ledger consumer: %w", err)
	}
	if err := bus.Start(ctx); err != nil {
		return nil, fmt.Errorf("start event bus: %w", err)
	}
	defer func() {
		_ = bus.Shutdown(ctx)
	}()

	readStats, readErr := s.newProcessor(bus).ProcessStream(ctx, runID, reader)

	bus.Close()
	applyErr := bus.Wait()

	// A consumer failure stops the bus, which then surfaces in the reader as
	// ErrClosed. Report the root cause.
	if applyErr != nil {
		s.logger.Error(ctx, "Run aborted by ledger",
			"error", applyErr,
		)
		return nil, fmt.Errorf("apply records: %w", applyErr)
	}
	if readErr != nil {
		return nil, readErr
	}

	stats := readStats
	stats.Add(l.Stats())

	result := &domain.Result{
		RunID:    runID,
		Accounts: l.Accounts(),
		Disputed: l.Disputed(),
		Stats:    stats,
	}

	s.logger.Info(ctx, "Run completed",
		"rows_read", result.Stats.RowsRead,
		"malformed", result.Stats.Malformed,
		"applied", result.Stats.Applied,
		"rejected", result.Stats.Rejected,
		"accounts", len(result.Accounts),
	)

	return result, nil
}
