package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu         sync.Mutex
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeSource) Acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired++
	return nil
}

func (f *fakeSource) Frame(ctx context.Context) ([]byte, error) {
	return []byte("frame"), nil
}

func (f *fakeSource) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, frame []byte) ([]float64, error) {
	return []float64{0.1, 0.2}, nil
}

type fakeMatcher struct {
	mu      sync.Mutex
	matched bool
	err     error
	calls   int
}

func (f *fakeMatcher) Match(ctx context.Context, embedding []float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.matched, f.err
}

func (f *fakeMatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestOrchestrator(source *fakeSource, matcher *fakeMatcher) *Orchestrator {
	return NewOrchestrator(OrchestratorConfig{
		Source:         source,
		Embedder:       fakeEmbedder{},
		Matcher:        matcher,
		SampleInterval: 5 * time.Millisecond,
		Dwell:          40 * time.Millisecond,
		Cooldown:       time.Second,
	})
}

func TestMatchReturnsToWaitingOnlyAfterDwell(t *testing.T) {
	source := &fakeSource{}
	matcher := &fakeMatcher{matched: true}
	o := newTestOrchestrator(source, matcher)

	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()
	o.Begin()

	require.Eventually(t, func() bool { return o.State() == StateMatched },
		time.Second, time.Millisecond)

	// The success display holds for the dwell.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, StateMatched, o.State(), "must not leave matched before the dwell elapses")

	require.Eventually(t, func() bool { return o.State() == StateWaiting },
		time.Second, time.Millisecond)
}

func TestNoMatchReturnsToScanning(t *testing.T) {
	source := &fakeSource{}
	matcher := &fakeMatcher{matched: false}
	o := newTestOrchestrator(source, matcher)

	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()
	o.Begin()

	require.Eventually(t, func() bool { return o.State() == StateUnmatched },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return o.State() == StateScanning },
		time.Second, time.Millisecond)
}

func TestTransportErrorBehavesLikeNoMatch(t *testing.T) {
	source := &fakeSource{}
	matcher := &fakeMatcher{err: errors.New("connection refused")}
	o := newTestOrchestrator(source, matcher)

	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()
	o.Begin()

	require.Eventually(t, func() bool { return o.State() == StateUnmatched },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return o.State() == StateScanning },
		time.Second, time.Millisecond)
}

func TestCooldownLimitsSubmissions(t *testing.T) {
	source := &fakeSource{}
	matcher := &fakeMatcher{matched: false}
	o := newTestOrchestrator(source, matcher)

	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()
	o.Begin()

	require.Eventually(t, func() bool { return matcher.callCount() == 1 },
		time.Second, time.Millisecond)

	// Back in scanning, but inside the cooldown window no new frames
	// are submitted.
	require.Eventually(t, func() bool { return o.State() == StateScanning },
		time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, matcher.callCount())
}

func TestAcquireFailureLeavesStatusMessage(t *testing.T) {
	source := &fakeSource{acquireErr: errors.New("permission denied")}
	o := newTestOrchestrator(source, &fakeMatcher{})

	err := o.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateWaiting, o.State())
	assert.Equal(t, "camera unavailable", o.Status())
}

func TestStopReleasesCamera(t *testing.T) {
	source := &fakeSource{}
	o := newTestOrchestrator(source, &fakeMatcher{matched: true})

	require.NoError(t, o.Start(context.Background()))
	o.Stop()

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 1, source.acquired)
	assert.Equal(t, 1, source.released)
}
