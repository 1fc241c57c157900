package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	DefaultInterval     = 3 * time.Second
	DefaultSleepSlice   = 500 * time.Millisecond
	DefaultFetchTimeout = 20 * time.Second
)

// State of the refresh loop
type State int32

const (
	Idle State = iota
	Fetching
	Publishing
	Sleeping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Publishing:
		return "publishing"
	case Sleeping:
		return "sleeping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats counts cycles for diagnostics
type Stats struct {
	Cycles    int64
	Failures  int64
	Published int64
}

// Loop periodically rebuilds the snapshot and hands it to a Publisher.
//
// Each check either runs a cycle, when at least Interval has passed since
// the previous cycle finished, or sleeps for SleepSlice. Refresh latency is
// therefore bounded by Interval + SleepSlice.
type Loop struct {
	builder *Builder
	pub     Publisher
	project models.Project

	clock        clockwork.Clock
	interval     time.Duration
	sleepSlice   time.Duration
	fetchTimeout time.Duration
	log          zerolog.Logger

	state     atomic.Int32
	cycles    atomic.Int64
	failures  atomic.Int64
	published atomic.Int64
}

// Option configures a Loop
type Option func(*Loop)

func WithClock(c clockwork.Clock) Option { return func(l *Loop) { l.clock = c } }

func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithSleepSlice(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.sleepSlice = d
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.fetchTimeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option { return func(l *Loop) { l.log = log } }

// NewLoop creates a loop for an already resolved project. The project is
// fixed for the loop's lifetime.
func NewLoop(builder *Builder, pub Publisher, project models.Project, opts ...Option) *Loop {
	l := &Loop{
		builder:      builder,
		pub:          pub,
		project:      project,
		clock:        clockwork.NewRealClock(),
		interval:     DefaultInterval,
		sleepSlice:   DefaultSleepSlice,
		fetchTimeout: DefaultFetchTimeout,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current state
func (l *Loop) State() State { return State(l.state.Load()) }

// Stats returns cycle counters
func (l *Loop) Stats() Stats {
	return Stats{
		Cycles:    l.cycles.Load(),
		Failures:  l.failures.Load(),
		Published: l.published.Load(),
	}
}

func (l *Loop) setState(s State) {
	if prev := State(l.state.Swap(int32(s))); prev != s {
		l.log.Debug().Stringer("from", prev).Stringer("to", s).Msg("loop state")
	}
}

// Run blocks until ctx is cancelled. Stop is observed between checks: a
// cycle already in flight completes before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.setState(Idle)
	defer l.setState(Stopped)

	l.log.Info().
		Str("project", l.project.PathWithNamespace).
		Dur("interval", l.interval).
		Dur("sleep_slice", l.sleepSlice).
		Msg("refresh loop started")

	var lastCycle time.Time
	for {
		if ctx.Err() != nil {
			l.log.Info().Msg("refresh loop stopped")
			return nil
		}

		if lastCycle.IsZero() || l.clock.Since(lastCycle) >= l.interval {
			l.cycle(ctx)
			lastCycle = l.clock.Now()
		}

		l.setState(Sleeping)
		select {
		case <-ctx.Done():
		case <-l.clock.After(l.sleepSlice):
		}
	}
}

// cycle runs fetch, normalize and publish once. Failures are logged and the
// previously published snapshot stays current.
func (l *Loop) cycle(ctx context.Context) {
	n := l.cycles.Add(1)
	l.setState(Fetching)

	// in-flight requests survive a stop request, bounded by the fetch timeout
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.fetchTimeout)
	defer cancel()

	start := l.clock.Now()
	rows, err := l.builder.Build(fetchCtx, l.project)
	if err != nil {
		l.failures.Add(1)
		l.log.Error().
			Err(err).
			Int64("cycle", n).
			Str("class", apperr.Class(err)).
			Msg("refresh failed, keeping last snapshot")
		return
	}

	l.setState(Publishing)
	snap := Snapshot{
		Project:     l.project,
		Rows:        rows,
		Cycle:       int(n),
		PublishedAt: l.clock.Now(),
	}
	l.pub.Publish(snap)
	l.published.Add(1)

	l.log.Debug().
		Int64("cycle", n).
		Int("pipelines", len(rows)).
		Dur("took", l.clock.Since(start)).
		Msg("snapshot published")
}

// Once builds a single snapshot without starting the loop
func Once(ctx context.Context, builder *Builder, project models.Project) (Snapshot, error) {
	rows, err := builder.Build(ctx, project)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Project: project, Rows: rows, Cycle: 1, PublishedAt: time.Now()}, nil
}
