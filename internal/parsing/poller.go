package parsing

import (
	"context"
	"math"
	"sync"
	"time"
)

// Poller delay schedule. The first check runs immediately on Start; each
// later check is scheduled after the current delay, which then grows by
// BackoffFactor up to MaxDelay. After MaxTicks non-terminal checks the
// poller gives up with ErrPollTimeout.
const (
	DefaultInitialDelay  = 2000 * time.Millisecond
	DefaultMaxDelay      = 10000 * time.Millisecond
	DefaultBackoffFactor = 1.5
	DefaultMaxTicks      = 60
)

// StatusReader is the read side of the job store a Poller watches.
type StatusReader interface {
	Status(ctx context.Context, jobID string) (Job, error)
}

// PollOutcome is delivered to OnDone exactly once: the terminal job, or the
// error that ended polling. Stop delivers nothing.
type PollOutcome struct {
	Job Job
	Err error
}

// PollerOptions configures a Poller. Zero values fall back to the defaults
// above.
type PollerOptions struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	MaxTicks      int
	OnDone        func(PollOutcome)

	// schedule is swappable in tests to drive ticks deterministically.
	schedule scheduleFunc
}

type scheduleFunc func(d time.Duration, fn func()) (cancel func())

// Poller polls a job's status with backoff until it reaches a terminal
// state, errors, or times out. SetVisible(false) suspends all polling;
// SetVisible(true) resets the delay and checks immediately. All state is
// guarded by mu and ticks never overlap.
type Poller struct {
	reader StatusReader
	jobID  string
	opts   PollerOptions

	mu          sync.Mutex
	ctx         context.Context
	delay       time.Duration
	ticks       int
	visible     bool
	started     bool
	finished    bool
	stopped     bool
	cancelTimer func()
}

// NewPoller constructs a Poller for one job.
func NewPoller(reader StatusReader, jobID string, opts PollerOptions) *Poller {
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.BackoffFactor <= 1 {
		opts.BackoffFactor = DefaultBackoffFactor
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	if opts.schedule == nil {
		opts.schedule = func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		}
	}
	return &Poller{
		reader:  reader,
		jobID:   jobID,
		opts:    opts,
		delay:   opts.InitialDelay,
		visible: true,
	}
}

// Start begins polling with an immediate first check. Calling Start twice is
// a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.ctx = ctx
	p.mu.Unlock()

	p.tick()
}

// Stop cancels polling without delivering an outcome. It is idempotent and
// safe to call from any goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.cancelTimer != nil {
		p.cancelTimer()
		p.cancelTimer = nil
	}
}

// SetVisible suspends or resumes polling. Going hidden cancels the pending
// check; coming back resets the delay to its initial value and checks
// immediately so a stale view refreshes at once.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	if p.visible == visible || p.stopped || p.finished {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	if !visible {
		if p.cancelTimer != nil {
			p.cancelTimer()
			p.cancelTimer = nil
		}
		p.mu.Unlock()
		return
	}
	p.delay = p.opts.InitialDelay
	started := p.started
	p.mu.Unlock()

	if started {
		p.tick()
	}
}

// tick runs one status check. The lock is held for the whole check so ticks
// are strictly serialized; the outcome callback fires after the lock is
// released so it may call back into the poller.
func (p *Poller) tick() {
	outcome, done := p.tickLocked()
	if done && p.opts.OnDone != nil {
		p.opts.OnDone(outcome)
	}
}

func (p *Poller) tickLocked() (PollOutcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.finished || !p.visible {
		return PollOutcome{}, false
	}

	job, err := p.reader.Status(p.ctx, p.jobID)
	if err != nil {
		return p.finish(PollOutcome{Err: err}), true
	}
	if Terminal(job.Status) {
		return p.finish(PollOutcome{Job: job}), true
	}

	p.ticks++
	if p.ticks >= p.opts.MaxTicks {
		return p.finish(PollOutcome{Job: job, Err: ErrPollTimeout}), true
	}

	next := p.delay
	p.delay = min(time.Duration(math.Round(float64(p.delay)*p.opts.BackoffFactor)), p.opts.MaxDelay)
	p.cancelTimer = p.opts.schedule(next, p.tick)
	return PollOutcome{}, false
}

// finish is called with mu held.
func (p *Poller) finish(outcome PollOutcome) PollOutcome {
	p.finished = true
	if p.cancelTimer != nil {
		p.cancelTimer()
		p.cancelTimer = nil
	}
	return outcome
}
