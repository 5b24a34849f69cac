package update

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=coordinator.go Notifier,Source

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Decision is the user's answer to an available update.
type Decision int32

const (
	Declined Decision = -1
	Pending  Decision = 0
	Accepted Decision = 1
)

func (d Decision) String() string {
	switch d {
	case Declined:
		return "declined"
	case Accepted:
		return "accepted"
	default:
		return "pending"
	}
}

// Phase is the coordinator's position in the update flow.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseChecking
	PhaseAwaitingDecision
	PhaseDeclined
	PhaseAccepted
	PhaseDownloading
	PhaseInstalled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseChecking:
		return "checking"
	case PhaseAwaitingDecision:
		return "awaiting-decision"
	case PhaseDeclined:
		return "declined"
	case PhaseAccepted:
		return "accepted"
	case PhaseDownloading:
		return "downloading"
	case PhaseInstalled:
		return "installed"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Event names delivered to Notifier. Front ends listen for these.
const (
	EventAvailable    = "updateIsAvailable"
	EventNotAvailable = "noUpdateAvailable"
	EventPending      = "updateIsPending"
	EventProgress     = "updateHasProgress"
	EventDownloaded   = "updateIsDownloaded"
	EventFinished     = "updateIsFinished"
	EventError        = "updateThrewError"
)

// AvailablePayload accompanies EventAvailable.
type AvailablePayload struct {
	Body    string `json:"body"`
	Date    string `json:"date"`
	Version string `json:"version"`
}

// ProgressPayload accompanies EventProgress. ChunkLen is cumulative.
type ProgressPayload struct {
	ChunkLen   uint64 `json:"chunk_len"`
	ContentLen int64  `json:"content_len"`
}

// Notifier receives update events. Payload is nil, a string for EventError,
// or one of the payload types above.
type Notifier interface {
	Notify(event string, payload any)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event string, payload any)

// Notify implements Notifier.
func (f NotifierFunc) Notify(event string, payload any) {
	f(event, payload)
}

// Release is an available update.
type Release struct {
	Version string
	Notes   string
	Date    string
	URL     string
}

// Source checks for and installs releases.
type Source interface {
	// Check returns nil when the running version is current.
	Check(ctx context.Context) (*Release, error)
	// DownloadAndInstall calls onChunk after every received chunk with the
	// chunk size and the total length (-1 if unknown), and onDownloaded once
	// the artifact is complete, before installing it.
	DownloadAndInstall(ctx context.Context, rel Release, onChunk func(n int, total int64), onDownloaded func()) error
}

// ErrAlreadyRunning is returned by Run while another run is in progress.
var ErrAlreadyRunning = errors.New("update check already running")

// Coordinator gates an update download behind a user decision. The decision
// and the progress counter are independent atomics; progress is only
// meaningful once the decision is Accepted.
type Coordinator struct {
	source   Source
	notifier Notifier
	logger   *log.Logger

	decision atomic.Int32
	progress atomic.Uint64
	phase    atomic.Int32
	running  atomic.Bool
	wake     chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets the event receiver.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator returns an idle coordinator over source.
func NewCoordinator(source Source, opts ...Option) *Coordinator {
	c := &Coordinator{
		source:   source,
		notifier: NotifierFunc(func(string, any) {}),
		logger:   log.Default(),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "update")
	return c
}

// Decide records the user's decision and wakes the waiting run. Pending
// decisions are recorded but do not end the wait.
func (c *Coordinator) Decide(d Decision) {
	c.decision.Store(int32(d))
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Decision returns the last recorded decision.
func (c *Coordinator) Decision() Decision {
	return Decision(c.decision.Load())
}

// Progress returns the number of bytes downloaded so far.
func (c *Coordinator) Progress() uint64 {
	return c.progress.Load()
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

// Start runs one update check in the background and returns immediately.
func (c *Coordinator) Start(ctx context.Context) {
	go func() {
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("update run ended with error", "error", err)
		}
	}()
}

// Run checks for an update, waits for a decision if one is available and
// downloads and installs it when accepted. A failed check returns to idle
// without retrying; a failed download ends in PhaseFailed. Both are reported
// through EventError.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.decision.Store(int32(Pending))
	c.progress.Store(0)
	c.drainWake()

	c.setPhase(PhaseChecking)
	rel, err := c.source.Check(ctx)
	if err != nil {
		c.notifier.Notify(EventError, err.Error())
		c.setPhase(PhaseIdle)
		return fmt.Errorf("check for update: %w", err)
	}
	if rel == nil {
		c.notifier.Notify(EventNotAvailable, nil)
		c.setPhase(PhaseIdle)
		return nil
	}

	c.setPhase(PhaseAwaitingDecision)
	c.logger.Info("update available", "version", rel.Version)
	c.notifier.Notify(EventAvailable, AvailablePayload{Body: rel.Notes, Date: rel.Date, Version: rel.Version})

	decision, err := c.awaitDecision(ctx)
	if err != nil {
		c.setPhase(PhaseIdle)
		return err
	}
	if decision == Declined {
		c.setPhase(PhaseDeclined)
		c.logger.Info("update declined", "version", rel.Version)
		return nil
	}

	c.setPhase(PhaseAccepted)
	c.notifier.Notify(EventPending, nil)
	c.setPhase(PhaseDownloading)
	err = c.source.DownloadAndInstall(ctx, *rel,
		func(n int, total int64) {
			done := c.progress.Add(uint64(n))
			c.notifier.Notify(EventProgress, ProgressPayload{ChunkLen: done, ContentLen: total})
		},
		func() {
			c.notifier.Notify(EventDownloaded, nil)
		},
	)
	if err != nil {
		c.notifier.Notify(EventError, err.Error())
		c.setPhase(PhaseFailed)
		return fmt.Errorf("download and install: %w", err)
	}

	c.setPhase(PhaseInstalled)
	c.logger.Info("update installed", "version", rel.Version, "bytes", c.Progress())
	c.notifier.Notify(EventFinished, nil)
	return nil
}

func (c *Coordinator) awaitDecision(ctx context.Context) (Decision, error) {
	for {
		if d := c.Decision(); d != Pending {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return Pending, ctx.Err()
		case <-c.wake:
		}
	}
}

func (c *Coordinator) drainWake() {
	select {
	case <-c.wake:
	default:
	}
}

func (c *Coordinator) setPhase(p Phase) {
	c.phase.Store(int32(p))
	c.logger.Debug("update phase", "phase", p)
}
