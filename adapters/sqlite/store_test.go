package sqlite

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

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBundle(t *testing.T) *report.ResultBundle {
	t.Helper()
	logger := internal.NewLogger(internal.LogLevelError)

	p, audit, err := clean.Clean(testkit.RawObservations(15, 4, 2020, 11), logger)
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
		Source:            report.SourceRemote,
		YearRange:         core.YearRange{Start: 2020, End: 2023},
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

func TestSaveWritesAllTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store := New(path)
	bundle := buildBundle(t)

	require.NoError(t, store.Save(context.Background(), bundle))

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var runs int
	require.NoError(t, db.Get(&runs, `SELECT COUNT(*) FROM run`))
	assert.Equal(t, 1, runs)

	var fingerprint string
	require.NoError(t, db.Get(&fingerprint, `SELECT fingerprint FROM run`))
	assert.Equal(t, bundle.Fingerprint.String(), fingerprint)

	var terms int
	require.NoError(t, db.Get(&terms, `SELECT COUNT(*) FROM model_term WHERE model = 'cross_section'`))
	assert.Equal(t, len(bundle.CrossSectionModel.Terms), terms)

	var correlations int
	require.NoError(t, db.Get(&correlations, `SELECT COUNT(*) FROM correlation`))
	assert.Equal(t, len(bundle.Correlations.Fields)*len(bundle.Correlations.Fields), correlations)

	var performers int
	require.NoError(t, db.Get(&performers, `SELECT COUNT(*) FROM performer WHERE board = 'top'`))
	assert.Equal(t, len(bundle.TopPerformers), performers)

	var cleanRows int
	require.NoError(t, db.Get(&cleanRows, `SELECT clean_rows FROM cleaning_audit`))
	assert.Equal(t, bundle.Audit.CleanRows, cleanRows)
}

func TestSaveReplacesPreviousDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store := New(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, buildBundle(t)))
	second := buildBundle(t)
	require.NoError(t, store.Save(ctx, second))

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var runID string
	require.NoError(t, db.Get(&runID, `SELECT run_id FROM run`))
	assert.Equal(t, second.RunID.String(), runID)

	var runs int
	require.NoError(t, db.Get(&runs, `SELECT COUNT(*) FROM run`))
	assert.Equal(t, 1, runs, "store holds exactly one bundle")
}
