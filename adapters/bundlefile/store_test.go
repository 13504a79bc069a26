package bundlefile

import (
	"context"
	"path/filepath"
	"testing"

	"macropanel/domain/core"
	"macropanel/domain/report"
	"macropanel/internal"
	"macropanel/internal/clean"
	"macropanel/internal/fit"
	"macropanel/internal/summarize"
	"macropanel/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBundle runs the computation stages over a synthetic dataset so the
// store test exercises a realistic, sealed bundle.
func buildBundle(t *testing.T) *report.ResultBundle {
	t.Helper()
	logger := internal.NewLogger(internal.LogLevelError)

	p, audit, err := clean.Clean(testkit.RawObservations(20, 5, 2019, 31), logger)
	require.NoError(t, err)
	cs, err := p.CrossSection()
	require.NoError(t, err)

	ols, err := fit.CrossSectionOLS(cs)
	require.NoError(t, err)
	fe, modelPanel, err := fit.PanelTwoWayFE(p)
	require.NoError(t, err)

	bundle := &report.ResultBundle{
		SchemaVersion:     report.SchemaVersion,
		RunID:             core.NewRunID(),
		CreatedAt:         core.Now(),
		Source:            report.SourceCache,
		YearRange:         core.YearRange{Start: 2019, End: 2023},
		CrossSectionModel: ols,
		PanelModel:        fe,
		Correlations:      summarize.Correlations(cs),
		RegionSummaries:   summarize.ByRegion(cs),
		YearSummaries:     summarize.ByYear(p),
		TopPerformers:     summarize.TopPerformers(cs, 10),
		BottomPerformers:  summarize.BottomPerformers(cs, 10),
		CrossSection:      cs,
		CleanPanel:        p,
		ModelPanel:        modelPanel,
		Audit:             audit,
	}
	require.NoError(t, bundle.Seal())
	return bundle
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bundle.json")
	store := New(path)
	bundle := buildBundle(t)

	require.NoError(t, store.Save(context.Background(), bundle))

	got, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, got.Validate())

	assert.Equal(t, bundle.RunID, got.RunID)
	assert.True(t, bundle.Fingerprint.Equals(got.Fingerprint))
	assert.Equal(t, len(bundle.CleanPanel.Rows), len(got.CleanPanel.Rows))
	assert.Equal(t, bundle.Audit, got.Audit)
	assert.InDelta(t, bundle.PanelModel.Terms[0].Estimate, got.PanelModel.Terms[0].Estimate, 1e-12)
}

func TestSaveOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	store := New(path)
	ctx := context.Background()

	first := buildBundle(t)
	require.NoError(t, store.Save(ctx, first))
	second := buildBundle(t)
	require.NoError(t, store.Save(ctx, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, got.RunID)
}

func TestSaveRejectsUnsealedBundle(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "bundle.json"))
	bundle := buildBundle(t)
	bundle.Fingerprint = ""

	assert.Error(t, store.Save(context.Background(), bundle))
}
