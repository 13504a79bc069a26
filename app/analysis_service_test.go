package app

import (
	"context"
	"path/filepath"
	"testing"

	"macropanel/adapters/csvcache"
	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/report"
	"macropanel/internal"
	"macropanel/internal/testkit"
	"macropanel/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed dataset and counts how often it is asked.
type fakeSource struct {
	obs   []panel.Observation
	calls int
}

func (f *fakeSource) FetchPanel(ctx context.Context, years core.YearRange) ([]panel.Observation, error) {
	f.calls++
	return f.obs, nil
}

// captureStore keeps every bundle handed to it.
type captureStore struct {
	bundles []*report.ResultBundle
}

func (c *captureStore) Save(ctx context.Context, bundle *report.ResultBundle) error {
	c.bundles = append(c.bundles, bundle)
	return nil
}

func TestRunProducesSealedBundle(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{obs: testkit.RawObservations(30, 6, 2018, 42)}
	store := &captureStore{}
	svc := NewAnalysisService(source, csvcache.New(filepath.Join(dir, "panel.csv")),
		[]ports.BundleStore{store}, core.YearRange{Start: 2018, End: 2023},
		internal.NewLogger(internal.LogLevelError))

	bundle, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, bundle.Validate())

	assert.Equal(t, report.SourceRemote, bundle.Source)
	assert.False(t, bundle.Fingerprint.IsEmpty())
	assert.Len(t, store.bundles, 1)
	assert.Len(t, bundle.TopPerformers, LeaderboardSize)
	assert.Len(t, bundle.BottomPerformers, LeaderboardSize)
	assert.Equal(t, 6, len(bundle.Correlations.Fields))
	assert.NotEmpty(t, bundle.PanelModel.Terms)
}

func TestRunCacheShortCircuitsSource(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{obs: testkit.RawObservations(30, 6, 2018, 42)}
	cache := csvcache.New(filepath.Join(dir, "panel.csv"))
	store := &captureStore{}
	svc := NewAnalysisService(source, cache, []ports.BundleStore{store},
		core.YearRange{Start: 2018, End: 2023}, internal.NewLogger(internal.LogLevelError))
	ctx := context.Background()

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, report.SourceRemote, first.Source)
	assert.True(t, cache.Exists(), "remote fetch must populate the cache")

	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "cached run must not contact the source")
	assert.Equal(t, report.SourceCache, second.Source)
}

func TestRunFingerprintDeterministicOnCachedInput(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{obs: testkit.RawObservations(30, 6, 2018, 42)}
	store := &captureStore{}
	svc := NewAnalysisService(source, csvcache.New(filepath.Join(dir, "panel.csv")),
		[]ports.BundleStore{store}, core.YearRange{Start: 2018, End: 2023},
		internal.NewLogger(internal.LogLevelError))
	ctx := context.Background()

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	second, err := svc.Run(ctx)
	require.NoError(t, err)

	assert.True(t, first.Fingerprint.Equals(second.Fingerprint),
		"identical cached input must reproduce the fingerprint")
	assert.NotEqual(t, first.RunID, second.RunID, "run identity is fresh each run")
}

func TestRunFailsWhenDatasetTooSmall(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{obs: testkit.RawObservations(3, 2, 2022, 7)}
	svc := NewAnalysisService(source, csvcache.New(filepath.Join(dir, "panel.csv")),
		nil, core.YearRange{Start: 2022, End: 2023},
		internal.NewLogger(internal.LogLevelError))

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}
