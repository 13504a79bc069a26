// Package clean turns raw acquired observations into the validated analysis
// panel. Rows are dropped by policy, never errored: missing classification,
// the first year of each country's series (no inflation lag), and rows left
// incomplete after derivation. Every drop is counted in the audit.
package clean

import (
	"math"
	"sort"

	"macropanel/domain/panel"
	"macropanel/domain/report"
	"macropanel/internal"
)

// Clean derives the analysis fields and filters to complete rows.
//
// Derivations: log_gni_per_capita = ln(gni + 1); inflation_rate is the
// percentage change of CPI against the previous observation in the same
// country's year-ordered series. The lag never crosses a country boundary,
// so each country's first observation has no inflation and is dropped.
func Clean(obs []panel.Observation, logger *internal.Logger) (panel.Panel, report.CleaningAudit, error) {
	audit := report.CleaningAudit{RawRows: len(obs)}

	classified := make([]panel.Observation, 0, len(obs))
	for _, o := range obs {
		if !o.HasClassification() {
			audit.DroppedClassification++
			logger.Debug("drop %s/%d: missing region or income group", o.Country, o.Year)
			continue
		}
		classified = append(classified, o)
	}

	// Lag order: country, then year. Stable so equal keys keep input order.
	sort.SliceStable(classified, func(i, j int) bool {
		if classified[i].Country != classified[j].Country {
			return classified[i].Country < classified[j].Country
		}
		return classified[i].Year < classified[j].Year
	})

	keep := make([]panel.DerivedObservation, 0, len(classified))
	for i, o := range classified {
		d := panel.DerivedObservation{
			Observation:     o,
			LogGNIPerCapita: math.Log(o.GNIPerCapita + 1),
			InflationRate:   math.NaN(),
		}

		firstOfCountry := i == 0 || classified[i-1].Country != o.Country
		if firstOfCountry {
			audit.DroppedFirstYear++
			continue
		}
		prevCPI := classified[i-1].CPI
		d.InflationRate = (o.CPI - prevCPI) / prevCPI * 100

		if !d.Complete() {
			audit.DroppedIncomplete++
			logger.Debug("drop %s/%d: incomplete after derivation", o.Country, o.Year)
			continue
		}
		keep = append(keep, d)
	}
	audit.CleanRows = len(keep)

	logger.Info("cleaned %d raw rows to %d (classification=%d first_year=%d incomplete=%d)",
		audit.RawRows, audit.CleanRows,
		audit.DroppedClassification, audit.DroppedFirstYear, audit.DroppedIncomplete)

	p, err := panel.NewPanel(keep)
	if err != nil {
		return panel.Panel{}, audit, err
	}
	return p, audit, nil
}
