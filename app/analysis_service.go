// Package app wires the pipeline: acquire, clean, fit, summarize, persist.
// One Run call is one complete single-shot execution; there is no daemon
// mode and no partial re-entry.
package app

import (
	"context"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/report"
	"macropanel/internal"
	"macropanel/internal/clean"
	apperrors "macropanel/internal/errors"
	"macropanel/internal/fit"
	"macropanel/internal/summarize"
	"macropanel/ports"
)

// LeaderboardSize is the row count of the top/bottom performer tables.
const LeaderboardSize = 10

// AnalysisService drives one pipeline run end to end.
type AnalysisService struct {
	source ports.IndicatorSource
	cache  ports.PanelCache
	stores []ports.BundleStore
	years  core.YearRange
	logger *internal.Logger
}

// NewAnalysisService assembles the pipeline from its ports. Stores are
// written in order; the first failure aborts the run.
func NewAnalysisService(
	source ports.IndicatorSource,
	cache ports.PanelCache,
	stores []ports.BundleStore,
	years core.YearRange,
	logger *internal.Logger,
) *AnalysisService {
	return &AnalysisService{
		source: source,
		cache:  cache,
		stores: stores,
		years:  years,
		logger: logger,
	}
}

// Run executes the full pipeline and returns the sealed bundle it persisted.
// Acquisition, model fitting and persistence failures are fatal; row drops
// during cleaning are not.
func (s *AnalysisService) Run(ctx context.Context) (*report.ResultBundle, error) {
	runID := core.NewRunID()
	s.logger.Info("starting analysis run %s (years %d-%d)", runID, s.years.Start, s.years.End)

	raw, source, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("acquired %d raw rows from %s", len(raw), source)

	p, audit, err := clean.Clean(raw, s.logger)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeValidationError, err)
	}

	cs, err := p.CrossSection()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeValidationError, err)
	}
	s.logger.Info("cross section: %d countries at year %d", len(cs.Rows), cs.Year)

	olsModel, err := fit.CrossSectionOLS(cs)
	if err != nil {
		return nil, apperrors.ModelFitError("cross-sectional OLS", err)
	}
	feModel, modelPanel, err := fit.PanelTwoWayFE(p)
	if err != nil {
		return nil, apperrors.ModelFitError("two-way fixed effects", err)
	}
	s.logger.Info("models fitted: OLS r2=%.4f, FE within-r2=%.4f",
		olsModel.Fit.RSquared, feModel.Fit.RSquared)

	bundle := &report.ResultBundle{
		SchemaVersion: report.SchemaVersion,
		RunID:         runID,
		CreatedAt:     core.Now(),
		Source:        source,
		YearRange:     s.years,

		CrossSectionModel: olsModel,
		PanelModel:        feModel,

		Correlations:     summarize.Correlations(cs),
		RegionSummaries:  summarize.ByRegion(cs),
		YearSummaries:    summarize.ByYear(p),
		TopPerformers:    summarize.TopPerformers(cs, LeaderboardSize),
		BottomPerformers: summarize.BottomPerformers(cs, LeaderboardSize),

		CrossSection: cs,
		CleanPanel:   p,
		ModelPanel:   modelPanel,
		Audit:        audit,
	}
	if err := bundle.Seal(); err != nil {
		return nil, apperrors.Wrap(err, "sealing result bundle")
	}

	for _, store := range s.stores {
		if err := store.Save(ctx, bundle); err != nil {
			return nil, err
		}
	}

	s.logger.Info("run %s complete, fingerprint %s", runID, bundle.Fingerprint)
	return bundle, nil
}

// acquire reads the cache when present and only otherwise contacts the
// source. A fresh remote fetch is written back so the next run short-circuits.
func (s *AnalysisService) acquire(ctx context.Context) ([]panel.Observation, report.AcquisitionSource, error) {
	if s.cache.Exists() {
		obs, err := s.cache.Read(ctx)
		if err != nil {
			return nil, "", err
		}
		return obs, report.SourceCache, nil
	}

	obs, err := s.source.FetchPanel(ctx, s.years)
	if err != nil {
		return nil, "", err
	}
	if err := s.cache.Write(ctx, obs); err != nil {
		return nil, "", err
	}
	return obs, report.SourceRemote, nil
}
