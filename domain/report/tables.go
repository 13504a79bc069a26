package report

import (
	"macropanel/domain/core"
)

// CorrelationMatrix is an N×N pairwise Pearson correlation table over the
// regression variables. Values[i][j] correlates Fields[i] with Fields[j];
// the matrix is symmetric with a unit diagonal.
type CorrelationMatrix struct {
	Fields []core.FieldKey `json:"fields"`
	Values [][]float64     `json:"values"`
}

// RegionSummary is one row of the per-region aggregate table.
type RegionSummary struct {
	Region           string  `json:"region"`
	Countries        int     `json:"countries"`
	MeanGrowth       float64 `json:"mean_growth"`
	MeanIncome       float64 `json:"mean_income"`
	MeanExports      float64 `json:"mean_exports"`
	MeanInvestment   float64 `json:"mean_investment"`
	MeanUnemployment float64 `json:"mean_unemployment"`
}

// YearSummary is one row of the time-trend table.
type YearSummary struct {
	Year              core.Year `json:"year"`
	Countries         int       `json:"countries"`
	MeanGrowth        float64   `json:"mean_growth"`
	MeanInvestment    float64   `json:"mean_investment"`
	MeanTradeOpenness float64   `json:"mean_trade_openness"`
}

// PerformerRow is one row of a top/bottom growth leaderboard.
type PerformerRow struct {
	Country          core.CountryCode `json:"country"`
	CountryName      string           `json:"country_name"`
	Region           string           `json:"region"`
	GDPGrowth        float64          `json:"gdp_growth"`
	CapitalFormation float64          `json:"capital_formation"`
	ExportsGDP       float64          `json:"exports_gdp"`
}

// CleaningAudit counts rows dropped at each cleaning step. Drops are policy,
// not errors; the audit exists so a run's data loss is visible.
type CleaningAudit struct {
	RawRows               int `json:"raw_rows"`
	DroppedClassification int `json:"dropped_classification"`
	DroppedFirstYear      int `json:"dropped_first_year"`
	DroppedIncomplete     int `json:"dropped_incomplete"`
	CleanRows             int `json:"clean_rows"`
}

// TransformedRow is one (country, year) row of the within-transformed model
// panel: the demeaned values actually entering the fixed-effects regression.
type TransformedRow struct {
	Country core.CountryCode `json:"country"`
	Year    core.Year        `json:"year"`
	Values  []float64        `json:"values"`
}

// TransformedPanel is the model-panel snapshot: regression variables after
// the two-way within transform, column order given by Fields.
type TransformedPanel struct {
	Fields []core.FieldKey  `json:"fields"`
	Rows   []TransformedRow `json:"rows"`
}
