package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/solar-potential/internal/solar"
)

type fakeProber struct {
	mu       sync.Mutex
	calls    int
	deadline time.Time
}

func (f *fakeProber) ProbeProviders(ctx context.Context) []solar.ProbeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.deadline, _ = ctx.Deadline()
	return []solar.ProbeResult{
		{Provider: solar.ProviderPVWatts, OK: true},
		{Provider: solar.ProviderOpenMeteo, OK: false, Kind: solar.KindTimeout},
	}
}

func (f *fakeProber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunOnceBoundsProbeRound(t *testing.T) {
	p := &fakeProber{}
	s := New(30*time.Minute, 5*time.Second, p)

	before := time.Now()
	s.RunOnce()

	assert.Equal(t, 1, p.Calls())
	assert.WithinDuration(t, before.Add(5*time.Second), p.deadline, time.Second)
}

func TestStartWithZeroIntervalIsNoop(t *testing.T) {
	p := &fakeProber{}
	s := New(0, time.Second, p)

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, p.Calls())
}

func TestStartHonoursSubMinuteInterval(t *testing.T) {
	p := &fakeProber{}
	s := New(50*time.Millisecond, time.Second, p)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return p.Calls() >= 3 }, 2*time.Second, 10*time.Millisecond)
}
