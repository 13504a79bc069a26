// Package summarize computes the descriptive tables of the result bundle:
// correlation matrix, regional and time aggregates, and growth leaderboards.
// All aggregations are order-insensitive over their inputs and deterministic
// in their outputs.
package summarize

import (
	"sort"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/domain/report"

	"github.com/montanaflynn/stats"
	gostat "gonum.org/v1/gonum/stat"
)

// Correlations builds the pairwise Pearson correlation matrix over the six
// regression variables on the cross section. Symmetric with a unit diagonal
// by construction.
func Correlations(cs panel.CrossSection) report.CorrelationMatrix {
	fields := panel.RegressionVars()
	n := len(fields)

	cols := make([][]float64, n)
	for i, f := range fields {
		cols[i] = cs.Column(f)
	}

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := gostat.Correlation(cols[i], cols[j], nil)
			values[i][j] = r
			values[j][i] = r
		}
	}

	return report.CorrelationMatrix{Fields: fields, Values: values}
}

// ByRegion aggregates the cross section per region: arithmetic means of
// growth, income, exports, investment and unemployment, sorted descending by
// mean growth. Ties keep first-appearance order (stable sort).
func ByRegion(cs panel.CrossSection) []report.RegionSummary {
	type group struct {
		growth, income, exports, investment, unemployment []float64
	}

	groups := make(map[string]*group)
	var order []string
	for _, r := range cs.Rows {
		g := groups[r.Region]
		if g == nil {
			g = &group{}
			groups[r.Region] = g
			order = append(order, r.Region)
		}
		g.growth = append(g.growth, r.GDPGrowth)
		g.income = append(g.income, r.GNIPerCapita)
		g.exports = append(g.exports, r.ExportsGDP)
		g.investment = append(g.investment, r.CapitalFormation)
		g.unemployment = append(g.unemployment, r.Unemployment)
	}

	out := make([]report.RegionSummary, 0, len(order))
	for _, region := range order {
		g := groups[region]
		out = append(out, report.RegionSummary{
			Region:           region,
			Countries:        len(g.growth),
			MeanGrowth:       mean(g.growth),
			MeanIncome:       mean(g.income),
			MeanExports:      mean(g.exports),
			MeanInvestment:   mean(g.investment),
			MeanUnemployment: mean(g.unemployment),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeanGrowth > out[j].MeanGrowth
	})
	return out
}

// ByYear aggregates the full panel per year: mean growth, investment and
// trade openness (exports share) plus country count, in natural year order.
func ByYear(p panel.Panel) []report.YearSummary {
	type group struct {
		growth, investment, openness []float64
	}

	groups := make(map[core.Year]*group)
	for _, r := range p.Rows {
		g := groups[r.Year]
		if g == nil {
			g = &group{}
			groups[r.Year] = g
		}
		g.growth = append(g.growth, r.GDPGrowth)
		g.investment = append(g.investment, r.CapitalFormation)
		g.openness = append(g.openness, r.ExportsGDP)
	}

	out := make([]report.YearSummary, 0, len(groups))
	for _, year := range p.Years() {
		g := groups[year]
		out = append(out, report.YearSummary{
			Year:              year,
			Countries:         len(g.growth),
			MeanGrowth:        mean(g.growth),
			MeanInvestment:    mean(g.investment),
			MeanTradeOpenness: mean(g.openness),
		})
	}
	return out
}

// TopPerformers returns the n fastest-growing countries in the cross section.
func TopPerformers(cs panel.CrossSection, n int) []report.PerformerRow {
	ranked := rankByGrowth(cs)
	if n > len(ranked) {
		n = len(ranked)
	}
	return toRows(ranked[:n])
}

// BottomPerformers returns the n slowest-growing countries, slowest first.
// Both leaderboards slice the same full ranking, so a tie group straddling
// the middle can never land a country on both lists.
func BottomPerformers(cs panel.CrossSection, n int) []report.PerformerRow {
	ranked := rankByGrowth(cs)
	if n > len(ranked) {
		n = len(ranked)
	}
	tail := ranked[len(ranked)-n:]

	out := make([]panel.DerivedObservation, n)
	for i := range tail {
		out[n-1-i] = tail[i]
	}
	return toRows(out)
}

// rankByGrowth orders the cross section fastest first, ties broken by
// country code ascending for deterministic output.
func rankByGrowth(cs panel.CrossSection) []panel.DerivedObservation {
	rows := make([]panel.DerivedObservation, len(cs.Rows))
	copy(rows, cs.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GDPGrowth != rows[j].GDPGrowth {
			return rows[i].GDPGrowth > rows[j].GDPGrowth
		}
		return rows[i].Country < rows[j].Country
	})
	return rows
}

func toRows(ranked []panel.DerivedObservation) []report.PerformerRow {
	out := make([]report.PerformerRow, len(ranked))
	for i, r := range ranked {
		out[i] = report.PerformerRow{
			Country:          r.Country,
			CountryName:      r.CountryName,
			Region:           r.Region,
			GDPGrowth:        r.GDPGrowth,
			CapitalFormation: r.CapitalFormation,
			ExportsGDP:       r.ExportsGDP,
		}
	}
	return out
}

func mean(data []float64) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}
