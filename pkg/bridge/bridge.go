// Package bridge turns one blocking worker function into an ordered,
// heartbeat-augmented channel of events, generalizing a poll-a-queue
// worker loop from "poll a DB table" to "bridge one blocking call that
// emits as it goes".
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robotforge/robotforge/pkg/models"
)

// Message is one item delivered on a Bridge's output channel: either a real
// event or a heartbeat tick. The transport shell (pkg/api/sse.go) renders a
// heartbeat as a bare SSE comment so intermediaries don't time the
// connection out during a long container run.
type Message struct {
	Event     *models.Event
	Heartbeat bool
}

// Emit is the callback a bridged worker function uses to publish an event
// as it makes progress, called at each stage transition.
type Emit func(models.Event)

// Work is the blocking function a Bridge runs on a goroutine. It reports
// progress through emit and returns its terminal error, if any.
type Work func(ctx context.Context, emit Emit) error

// Bridge ticks a heartbeat at a fixed interval while Work runs on a
// goroutine, recovering any panic from Work into a single terminal error
// event rather than crashing the caller.
type Bridge struct {
	heartbeatInterval time.Duration
}

// New builds a Bridge that ticks a heartbeat every interval. A
// non-positive interval disables heartbeat ticks.
func New(interval time.Duration) *Bridge {
	return &Bridge{heartbeatInterval: interval}
}

// Run starts work on its own goroutine and returns a channel of Messages.
// The channel is closed once work returns (or panics) and its last event,
// if any, has been delivered. ctx cancellation stops heartbeat ticks but
// does not force work to return early — work must itself respect ctx.
//
// Both the worker and the heartbeat ticker feed an internal channel; a
// single forwarding goroutine owns out and is the only one that ever
// closes it, so a heartbeat tick can never race a worker completion into
// a send-on-closed-channel panic.
func (b *Bridge) Run(ctx context.Context, seq *int, work Work) <-chan Message {
	internal := make(chan Message, 16)
	out := make(chan Message, 16)
	workDone := make(chan struct{})

	go b.runWork(ctx, internal, seq, work, workDone)
	go b.runHeartbeat(ctx, internal, workDone)
	go forward(internal, out, workDone)

	return out
}

// forward copies internal to out until the worker signals completion,
// then drains any remaining buffered heartbeat ticks before closing out.
func forward(internal <-chan Message, out chan<- Message, workDone <-chan struct{}) {
	defer close(out)
	for {
		select {
		case msg := <-internal:
			out <- msg
		case <-workDone:
			for {
				select {
				case msg := <-internal:
					out <- msg
				default:
					return
				}
			}
		}
	}
}

func (b *Bridge) runWork(ctx context.Context, internal chan<- Message, seq *int, work Work, workDone chan<- struct{}) {
	defer close(workDone)
	var stage string
	defer func() {
		if r := recover(); r != nil {
			slog.Error("bridge: worker panic recovered", "panic", r)
			internal <- Message{Event: terminalErrorEvent(seq, stage, fmt.Errorf("internal error: %v", r))}
		}
	}()

	emit := func(e models.Event) {
		stage = e.Stage
		*seq++
		e.Sequence = *seq
		internal <- Message{Event: &e}
	}

	if err := work(ctx, emit); err != nil {
		internal <- Message{Event: terminalErrorEvent(seq, stage, err)}
	}
}

func (b *Bridge) runHeartbeat(ctx context.Context, internal chan<- Message, workDone <-chan struct{}) {
	if b.heartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(b.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-workDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case internal <- Message{Heartbeat: true}:
			case <-workDone:
				return
			}
		}
	}
}

// terminalErrorEvent carries the stage of the last event the worker
// emitted, so a failure is reported under the phase it occurred in.
func terminalErrorEvent(seq *int, stage string, err error) *models.Event {
	*seq++
	return &models.Event{
		Sequence: *seq,
		Stage:    stage,
		Status:   models.StatusError,
		Message:  err.Error(),
	}
}
