package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/solar-potential/internal/solar"
)

func probe(provider string, ok bool, at time.Time) solar.ProbeResult {
	return solar.ProbeResult{Provider: provider, OK: ok, CheckedAt: at}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)
	now := time.Now().UTC()

	_, err := s.GetLatest(solar.ProviderPVWatts)
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveProbe(probe(solar.ProviderPVWatts, true, now.Add(-2*time.Hour)))
	s.SaveProbe(probe(solar.ProviderPVWatts, false, now.Add(-1*time.Hour)))
	s.SaveProbe(probe(solar.ProviderOpenMeteo, true, now))

	latest, err := s.GetLatest(solar.ProviderPVWatts)
	require.NoError(t, err)
	assert.False(t, latest.OK)

	got, err := s.GetRange(solar.ProviderPVWatts, now.Add(-2*time.Hour), now.Add(-1*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.GetRange(solar.ProviderPVWatts, now.Add(-30*time.Minute), now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMaxHistory(t *testing.T) {
	s := NewMemoryStore(3, 0)
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.SaveProbe(probe(solar.ProviderOpenMeteo, true, now.Add(time.Duration(i)*time.Minute)))
	}

	got, err := s.GetRange(solar.ProviderOpenMeteo, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, now.Add(2*time.Minute), got[0].CheckedAt)
}

func TestMemoryStoreMaxAgeKeepsNewest(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	old := time.Now().Add(-3 * time.Hour)

	s.SaveProbe(probe(solar.ProviderSolarResource, true, old))
	s.SaveProbe(probe(solar.ProviderSolarResource, false, old.Add(time.Minute)))

	got, err := s.GetRange(solar.ProviderSolarResource, old.Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].OK)

	s.SaveProbe(probe(solar.ProviderSolarResource, true, time.Now()))
	latest, err := s.GetLatest(solar.ProviderSolarResource)
	require.NoError(t, err)
	assert.True(t, latest.OK)
	got, err = s.GetRange(solar.ProviderSolarResource, old.Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
