// Package report defines the Result Bundle: the single artifact a pipeline
// run produces for the external reporting layer.
package report

import (
	"fmt"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/regress"
)

// SchemaVersion identifies the bundle layout for consumers.
const SchemaVersion = "1.0.0"

// AcquisitionSource records where a run's raw data came from.
type AcquisitionSource string

const (
	SourceCache  AcquisitionSource = "cache"
	SourceRemote AcquisitionSource = "remote"
)

// ResultBundle is the complete output of one pipeline run: both fitted
// models, all summary tables, the three dataset snapshots, and a cleaning
// audit. Written once per run, read-only thereafter.
type ResultBundle struct {
	SchemaVersion string            `json:"schema_version"`
	RunID         core.RunID        `json:"run_id"`
	CreatedAt     core.Timestamp    `json:"created_at"`
	Source        AcquisitionSource `json:"source"`
	YearRange     core.YearRange    `json:"year_range"`

	CrossSectionModel regress.ModelSummary `json:"cross_section_model"`
	PanelModel        regress.ModelSummary `json:"panel_model"`

	Correlations     CorrelationMatrix `json:"correlations"`
	RegionSummaries  []RegionSummary   `json:"region_summaries"`
	YearSummaries    []YearSummary     `json:"year_summaries"`
	TopPerformers    []PerformerRow    `json:"top_performers"`
	BottomPerformers []PerformerRow    `json:"bottom_performers"`

	CrossSection panel.CrossSection `json:"cross_section"`
	CleanPanel   panel.Panel        `json:"clean_panel"`
	ModelPanel   TransformedPanel   `json:"model_panel"`

	Audit CleaningAudit `json:"audit"`

	// Fingerprint covers the computed content only (not RunID or CreatedAt),
	// so re-running on identical cached input reproduces it exactly.
	Fingerprint core.Hash `json:"fingerprint"`
}

// content is the fingerprinted subset of the bundle. Run identity and wall
// clock are deliberately excluded.
type content struct {
	SchemaVersion     string               `json:"schema_version"`
	YearRange         core.YearRange       `json:"year_range"`
	CrossSectionModel regress.ModelSummary `json:"cross_section_model"`
	PanelModel        regress.ModelSummary `json:"panel_model"`
	Correlations      CorrelationMatrix    `json:"correlations"`
	RegionSummaries   []RegionSummary      `json:"region_summaries"`
	YearSummaries     []YearSummary        `json:"year_summaries"`
	TopPerformers     []PerformerRow       `json:"top_performers"`
	BottomPerformers  []PerformerRow       `json:"bottom_performers"`
	CrossSection      panel.CrossSection   `json:"cross_section"`
	CleanPanel        panel.Panel          `json:"clean_panel"`
	ModelPanel        TransformedPanel     `json:"model_panel"`
	Audit             CleaningAudit        `json:"audit"`
}

// Seal computes and stores the content fingerprint. Call once, after all
// tables are attached.
func (b *ResultBundle) Seal() error {
	h, err := core.Fingerprint(content{
		SchemaVersion:     b.SchemaVersion,
		YearRange:         b.YearRange,
		CrossSectionModel: b.CrossSectionModel,
		PanelModel:        b.PanelModel,
		Correlations:      b.Correlations,
		RegionSummaries:   b.RegionSummaries,
		YearSummaries:     b.YearSummaries,
		TopPerformers:     b.TopPerformers,
		BottomPerformers:  b.BottomPerformers,
		CrossSection:      b.CrossSection,
		CleanPanel:        b.CleanPanel,
		ModelPanel:        b.ModelPanel,
		Audit:             b.Audit,
	})
	if err != nil {
		return fmt.Errorf("seal bundle: %w", err)
	}
	b.Fingerprint = h
	return nil
}

// Validate checks the structural invariants a consumer may rely on.
func (b *ResultBundle) Validate() error {
	if b.SchemaVersion == "" {
		return fmt.Errorf("bundle missing schema version")
	}
	if b.Fingerprint.IsEmpty() {
		return fmt.Errorf("bundle not sealed")
	}
	if len(b.CrossSectionModel.Terms) == 0 || len(b.PanelModel.Terms) == 0 {
		return fmt.Errorf("bundle missing fitted models")
	}
	if len(b.Correlations.Fields) == 0 {
		return fmt.Errorf("bundle missing correlation matrix")
	}
	if len(b.CrossSection.Rows) == 0 || len(b.CleanPanel.Rows) == 0 {
		return fmt.Errorf("bundle missing dataset snapshots")
	}
	return nil
}
