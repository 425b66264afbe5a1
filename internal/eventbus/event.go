package eventbus

import (
	"time"

	"github.com/grachmannico95/txengine/internal/domain"
)

type EventType string

const (
	EventTypeRecord EventType = "record"
)

type Event struct {
	ID   string
	Type EventType
	// Seq numbers published events from 1 without gaps, in input order.
	Seq       uint64
	Payload   interface{}
	Timestamp time.Time
}

type RecordEvent struct {
	RunID      string
	Record     domain.Record
	LineNumber int
}
