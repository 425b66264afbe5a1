package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/internal/eventbus"
	"github.com/grachmannico95/txengine/pkg/logger"
)

type CSVProcessorInterface interface {
	ProcessStream(ctx context.Context, runID string, reader io.Reader) (domain.Stats, error)
}

// maxLineSize bounds a single input row.
const maxLineSize = 1 << 20

type CSVProcessor struct {
	eventBus  eventbus.EventBus
	validator RecordValidator
	logger    *logger.Logger
}

func NewCSVProcessor(eventBus eventbus.EventBus, validator RecordValidator, log *logger.Logger) *CSVProcessor {
	return &CSVProcessor{
		eventBus:  eventBus,
		validator: validator,
		logger:    log,
	}
}

// ProcessStream reads `type,client,tx,amount` rows and publishes each valid
// record in input order. Every line is lexed on its own, so a bad row never
// affects the rows after it. Bad rows are logged and counted in RowsRead,
// Malformed and ByReason. Only a failure of the underlying reader or of the
// bus ends the stream early.
func (p *CSVProcessor) ProcessStream(ctx context.Context, runID string, reader io.Reader) (domain.Stats, error) {
	ctx = logger.WithRunID(ctx, runID)

	p.logger.Info(ctx, "Starting CSV processing")

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	stats := domain.Stats{ByReason: make(map[string]int)}
	var seq uint64
	lineNumber := 0
	published := 0
	first := true

	for scanner.Scan() {
		lineNumber++
		lineCtx := logger.WithLine(ctx, lineNumber)

		record, err := parseLine(scanner.Text())
		if err == io.EOF {
			continue
		}
		if err != nil {
			p.logger.Warn(lineCtx, "Failed to parse CSV line",
				"error", err,
			)
			first = false
			stats.RowsRead++
			countMalformed(&stats, err)
			continue
		}

		if isBlank(record) {
			continue
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		stats.RowsRead++

		raw, err := toRawRecord(record, lineNumber)
		if err != nil {
			p.logger.Warn(lineCtx, "Malformed row",
				"error", err,
			)
			countMalformed(&stats, err)
			continue
		}

		rec, err := p.validator.Validate(raw)
		if err != nil {
			p.logger.Warn(lineCtx, "Invalid record",
				"error", err,
			)
			countMalformed(&stats, err)
			continue
		}

		seq++
		event := eventbus.Event{
			ID:   fmt.Sprintf("%s-%d", runID, lineNumber),
			Type: eventbus.EventTypeRecord,
			Seq:  seq,
			Payload: eventbus.RecordEvent{
				RunID:      runID,
				Record:     rec,
				LineNumber: lineNumber,
			},
			Timestamp: time.Now(),
		}

		if err := p.eventBus.Publish(lineCtx, event); err != nil {
			p.logger.Error(logger.WithEventID(lineCtx, event.ID), "Failed to publish record",
				"error", err,
			)
			return stats, fmt.Errorf("publish record at line %d: %w", lineNumber, err)
		}

		published++
	}

	if err := scanner.Err(); err != nil {
		p.logger.Error(logger.WithLine(ctx, lineNumber+1), "Failed to read input",
			"error", err,
		)
		return stats, fmt.Errorf("read input: %w", err)
	}

	p.logger.Info(ctx, "CSV processing completed",
		"rows_read", stats.RowsRead,
		"published", published,
		"malformed", stats.Malformed,
	)

	return stats, nil
}

// parseLine lexes one input line. A blank line yields io.EOF. A quote left
// open ends with the line instead of running into the next one.
func parseLine(line string) ([]string, error) {
	csvReader := csv.NewReader(strings.NewReader(line))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	return csvReader.Read()
}

func countMalformed(stats *domain.Stats, err error) {
	stats.Malformed++
	stats.ByReason[validationReason(err)]++
}

// toRawRecord accepts three or four columns. Extra trailing columns are
// tolerated only when empty, which covers a trailing separator.
func toRawRecord(record []string, lineNumber int) (RawRecord, error) {
	if len(record) < 3 {
		return RawRecord{}, fmt.Errorf("%w: expected at least 3 fields, got %d", domain.ErrMalformedRow, len(record))
	}
	for _, extra := range record[min(len(record), 4):] {
		if strings.TrimSpace(extra) != "" {
			return RawRecord{}, fmt.Errorf("%w: unexpected field %q", domain.ErrMalformedRow, extra)
		}
	}

	raw := RawRecord{
		Line:   lineNumber,
		Kind:   record[0],
		Client: record[1],
		Tx:     record[2],
	}
	if len(record) > 3 {
		raw.Amount = record[3]
		raw.HasAmount = strings.TrimSpace(record[3]) != ""
	}

	return raw, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHeader(record []string) bool {
	return strings.EqualFold(strings.TrimSpace(record[0]), "type")
}
