package orchestrator

import "fmt"

// EventStatus is the state of a block within a run.
type EventStatus string

const (
	EventPending    EventStatus = "pending"
	EventWorking    EventStatus = "working"
	EventResolved   EventStatus = "resolved"
	EventUnresolved EventStatus = "unresolved"
)

// Event is emitted as blocks move through resolution.
type Event struct {
	Path string
	// Block is the zero-based block index within the file.
	Block int
	// Line is the 1-based line of the block's opening marker.
	Line    int
	Status  EventStatus
	Message string
}

// ProgressReporter buffers events on a channel for a single consumer.
type ProgressReporter struct {
	ch chan Event
}

// NewProgressReporter creates a ProgressReporter with a buffer of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{ch: make(chan Event, 64)}
}

// Emit sends an event without blocking. If the buffer is full the event is
// dropped.
func (pr *ProgressReporter) Emit(ev Event) {
	select {
	case pr.ch <- ev:
	default:
	}
}

// Subscribe returns the channel events are delivered on.
func (pr *ProgressReporter) Subscribe() <-chan Event {
	return pr.ch
}

// Close closes the event channel. Emit must not be called afterwards.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatEvent renders an event as a human-readable status line.
func FormatEvent(ev Event) string {
	name := fmt.Sprintf("%s block %d (line %d)", ev.Path, ev.Block+1, ev.Line)
	switch ev.Status {
	case EventPending:
		return fmt.Sprintf("  ○ %s (pending)", name)
	case EventWorking:
		return fmt.Sprintf("  ● %s...", name)
	case EventResolved:
		return fmt.Sprintf("  ✓ %s resolved", name)
	case EventUnresolved:
		return fmt.Sprintf("  ✗ %s unresolved: %s", name, ev.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", name)
	}
}
