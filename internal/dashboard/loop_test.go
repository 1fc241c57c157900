package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/codewandler/pipeman/internal/gitlab"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	clock  *clockwork.FakeClock
	gw     *fakeGateway
	rec    *recorder
	loop   *Loop
	ctx    context.Context
	cancel context.CancelFunc
	done   chan error
}

func startLoop(t *testing.T, gw *fakeGateway) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		clock: clockwork.NewFakeClock(),
		gw:    gw,
		rec:   &recorder{},
		done:  make(chan error, 1),
	}
	h.loop = NewLoop(newBuilder(gw), h.rec, project,
		WithClock(h.clock),
		WithInterval(3*time.Second),
		WithSleepSlice(500*time.Millisecond),
	)
	h.ctx, h.cancel = context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(h.cancel)

	go func() { h.done <- h.loop.Run(h.ctx) }()
	h.waitSleeping()
	return h
}

// waitSleeping blocks until the loop waits on its sleep slice
func (h *harness) waitSleeping() {
	h.t.Helper()
	require.NoError(h.t, h.clock.BlockUntilContext(h.ctx, 1))
}

// tick advances one sleep slice and waits for the loop to sleep again
func (h *harness) tick() {
	h.t.Helper()
	h.clock.Advance(500 * time.Millisecond)
	h.waitSleeping()
}

func (h *harness) stop() {
	h.t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		require.NoError(h.t, err)
	case <-time.After(2 * time.Second):
		h.t.Fatal("loop did not stop")
	}
}

func TestLoop_FirstCycleRunsImmediately(t *testing.T) {
	h := startLoop(t, newFakeGateway(pipeline(1, "running")))

	snaps := h.rec.all()
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].Cycle)
	assert.Equal(t, "team/app", snaps[0].Project.PathWithNamespace)
	assert.Equal(t, Sleeping, h.loop.State())

	h.stop()
	assert.Equal(t, Stopped, h.loop.State())
}

func TestLoop_RefreshesWithinIntervalPlusSlice(t *testing.T) {
	gw := newFakeGateway(pipeline(1, "running"))
	h := startLoop(t, gw)
	require.Equal(t, 1, gw.calls())

	// the service changes right after the first cycle
	gw.set(pipeline(2, "running"), pipeline(1, "success"))

	for i := 0; i < 5; i++ {
		h.tick()
		assert.Equal(t, 1, gw.calls(), "no fetch before the interval elapsed (tick %d)", i+1)
	}

	h.tick()
	assert.Equal(t, 2, gw.calls())

	snaps := h.rec.all()
	require.Len(t, snaps, 2)
	latest, ok := snaps[1].Latest()
	require.True(t, ok)
	assert.Equal(t, 2, latest.Pipeline.ID)
	assert.Equal(t, 3*time.Second, snaps[1].PublishedAt.Sub(snaps[0].PublishedAt))

	h.stop()
}

func TestLoop_StopDuringSleepSkipsFurtherFetches(t *testing.T) {
	gw := newFakeGateway(pipeline(1, "running"))
	h := startLoop(t, gw)

	h.tick()
	h.stop()

	assert.Equal(t, 1, gw.calls())
	assert.Len(t, h.rec.all(), 1)
	assert.Equal(t, Stopped, h.loop.State())
}

func TestLoop_FailedCycleKeepsLastSnapshot(t *testing.T) {
	gw := newFakeGateway(pipeline(1, "running"))
	h := startLoop(t, gw)
	first := h.rec.last()

	gw.failList(errBoom)
	for i := 0; i < 6; i++ {
		h.tick()
	}
	assert.Equal(t, 2, gw.calls())
	require.Len(t, h.rec.all(), 1)
	assert.Equal(t, first, h.rec.last())

	stats := h.loop.Stats()
	assert.Equal(t, int64(2), stats.Cycles)
	assert.Equal(t, int64(1), stats.Failures)
	assert.Equal(t, int64(1), stats.Published)

	// the gate counts from the failed cycle, and the next one recovers
	gw.failList(nil)
	gw.set(pipeline(2, "success"))
	for i := 0; i < 6; i++ {
		h.tick()
	}
	assert.Equal(t, 3, gw.calls())
	snaps := h.rec.all()
	require.Len(t, snaps, 2)
	assert.Equal(t, 3, snaps[1].Cycle)
	assert.Equal(t, 2, snaps[1].Rows[0].Pipeline.ID)

	h.stop()
}

func TestLoop_Defaults(t *testing.T) {
	l := NewLoop(newBuilder(newFakeGateway()), &recorder{}, project, WithInterval(0), WithSleepSlice(-1))
	assert.Equal(t, DefaultInterval, l.interval)
	assert.Equal(t, DefaultSleepSlice, l.sleepSlice)
	assert.Equal(t, DefaultFetchTimeout, l.fetchTimeout)
	assert.Equal(t, Idle, l.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestOnce(t *testing.T) {
	snap, err := Once(context.Background(), newBuilder(newFakeGateway(pipeline(7, "manual"))), project)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.True(t, snap.Rows[0].Pipeline.IsLatest)
}

// blockingGateway parks ListPipelines until release is closed
type blockingGateway struct {
	*fakeGateway
	started chan context.Context
	release chan struct{}
}

func (g *blockingGateway) ListPipelines(ctx context.Context, projectID int) ([]*gitlab.RawPipeline, error) {
	g.started <- ctx
	<-g.release
	return g.fakeGateway.ListPipelines(ctx, projectID)
}

func TestLoop_StopWaitsForInFlightFetch(t *testing.T) {
	gw := &blockingGateway{
		fakeGateway: newFakeGateway(pipeline(1, "running")),
		started:     make(chan context.Context, 1),
		release:     make(chan struct{}),
	}
	rec := &recorder{}
	loop := NewLoop(newBuilder(gw), rec, project,
		WithClock(clockwork.NewFakeClock()),
		WithInterval(3*time.Second),
		WithSleepSlice(500*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var fetchCtx context.Context
	select {
	case fetchCtx = <-gw.started:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not start")
	}
	assert.Equal(t, Fetching, loop.State())

	cancel()
	select {
	case <-done:
		t.Fatal("loop returned while a fetch was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	assert.NoError(t, fetchCtx.Err())

	close(gw.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	snaps := rec.all()
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].Rows[0].Pipeline.ID)
}
