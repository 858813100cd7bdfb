package colortrack

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Observer is notified after every processed frame (e.g. to export metrics).
// err is nil for successful frames.
type Observer interface {
	ObserveFrame(elapsed time.Duration, res Result, err error)
}

// TrackerOption configures Tracker
type TrackerOption func(*Tracker)

// WithObserver sets frame observer
func WithObserver(obs Observer) TrackerOption {
	return func(t *Tracker) {
		t.observer = obs
	}
}

// Tracker couples a Session with a Mailbox: the control goroutine calls Publish and Latest,
// the frame goroutine calls ProcessFrame. Initialize and Release belong to the frame goroutine too.
type Tracker struct {
	session  *Session
	mailbox  *Mailbox
	latest   atomic.Pointer[Result]
	observer Observer
}

// NewTracker creates tracker with its own session and mailbox
func NewTracker(cfg Config, options ...TrackerOption) *Tracker {
	t := &Tracker{
		session: NewSession(cfg),
		mailbox: NewMailbox(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Initialize allocates session resources
func (t *Tracker) Initialize() error {
	return t.session.Initialize()
}

// Release frees session resources. It is idempotent
func (t *Tracker) Release() {
	t.session.Release()
}

// Session exposes underlying session. Only the frame goroutine may use it
func (t *Tracker) Session() *Session {
	return t.session
}

// Publish hands a new ROI/boxes/reinit/seed snapshot to the frame goroutine. Safe for concurrent use
func (t *Tracker) Publish(snap Snapshot) {
	t.mailbox.Publish(snap)
}

// Latest returns result of the last successful frame. Safe for concurrent use; the result must not be modified
func (t *Tracker) Latest() (Result, bool) {
	res := t.latest.Load()
	if res == nil {
		return Result{}, false
	}
	return *res, true
}

// ProcessFrame runs one update with the most recent snapshot.
// Nothing happens (zero Result, nil error) until the first snapshot is published.
// When the frame fails, reinit and seed requests of the snapshot are retried on the next frame;
// a seed is dropped when the request was rejected as invalid input.
func (t *Tracker) ProcessFrame(frame Frame) (Result, error) {
	snap, ok := t.mailbox.Take()
	if !ok {
		return Result{}, nil
	}
	start := time.Now()
	res, err := t.session.Update(frame, snap.Request())
	elapsed := time.Since(start)
	if t.observer != nil {
		t.observer.ObserveFrame(elapsed, res, err)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			// A rejected seed would fail every retry
			snap.Seed = nil
		}
		t.mailbox.Requeue(snap)
		return Result{}, err
	}
	t.mailbox.Adopt(res.Boxes)
	t.latest.Store(&res)
	return res, nil
}
