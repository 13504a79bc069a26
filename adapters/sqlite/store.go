// Package sqlite persists the result bundle into a single-file relational
// database, so the reporting layer can query tables instead of parsing JSON.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"macropanel/domain/regress"
	"macropanel/domain/report"
	apperrors "macropanel/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE run (
	run_id          TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	schema_version  TEXT NOT NULL,
	source          TEXT NOT NULL,
	year_start      INTEGER NOT NULL,
	year_end        INTEGER NOT NULL,
	fingerprint     TEXT NOT NULL
);

CREATE TABLE model_fit (
	model           TEXT NOT NULL,
	r_squared       REAL NOT NULL,
	adj_r_squared   REAL NOT NULL,
	residual_se     REAL NOT NULL,
	f_stat          REAL NOT NULL,
	f_p_value       REAL NOT NULL,
	observations    INTEGER NOT NULL,
	degrees_freedom INTEGER NOT NULL
);

CREATE TABLE model_term (
	model    TEXT NOT NULL,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	estimate REAL NOT NULL,
	std_err  REAL NOT NULL,
	t_stat   REAL NOT NULL,
	p_value  REAL NOT NULL,
	stars    TEXT NOT NULL
);

CREATE TABLE correlation (
	row_field TEXT NOT NULL,
	col_field TEXT NOT NULL,
	value     REAL NOT NULL
);

CREATE TABLE region_summary (
	region            TEXT NOT NULL,
	countries         INTEGER NOT NULL,
	mean_growth       REAL NOT NULL,
	mean_income       REAL NOT NULL,
	mean_exports      REAL NOT NULL,
	mean_investment   REAL NOT NULL,
	mean_unemployment REAL NOT NULL
);

CREATE TABLE year_summary (
	year                INTEGER NOT NULL,
	countries           INTEGER NOT NULL,
	mean_growth         REAL NOT NULL,
	mean_investment     REAL NOT NULL,
	mean_trade_openness REAL NOT NULL
);

CREATE TABLE performer (
	board             TEXT NOT NULL,
	position          INTEGER NOT NULL,
	country           TEXT NOT NULL,
	country_name      TEXT NOT NULL,
	region            TEXT NOT NULL,
	gdp_growth        REAL NOT NULL,
	capital_formation REAL NOT NULL,
	exports_gdp       REAL NOT NULL
);

CREATE TABLE cleaning_audit (
	raw_rows               INTEGER NOT NULL,
	dropped_classification INTEGER NOT NULL,
	dropped_first_year     INTEGER NOT NULL,
	dropped_incomplete     INTEGER NOT NULL,
	clean_rows             INTEGER NOT NULL
);
`

// Store writes bundles to a SQLite database file.
type Store struct {
	path string
}

// New returns a store targeting the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save rebuilds the database from scratch for this run. The previous file is
// removed first; a bundle store holds exactly one bundle.
func (s *Store) Save(ctx context.Context, bundle *report.ResultBundle) error {
	if err := bundle.Validate(); err != nil {
		return apperrors.StoreError("bundle failed validation", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.StoreError("creating output directory", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return apperrors.StoreError("removing previous database", err)
	}

	db, err := sqlx.Open("sqlite3", s.path)
	if err != nil {
		return apperrors.StoreError("opening result database", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return apperrors.StoreError("creating result schema", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.StoreError("starting result transaction", err)
	}
	defer tx.Rollback()

	if err := insertBundle(ctx, tx, bundle); err != nil {
		return apperrors.StoreError("writing result tables", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreError("committing result transaction", err)
	}
	return nil
}

func insertBundle(ctx context.Context, tx *sqlx.Tx, b *report.ResultBundle) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO run (run_id, created_at, schema_version, source, year_start, year_end, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.RunID.String(), b.CreatedAt.Time().Format(time.RFC3339Nano), b.SchemaVersion, string(b.Source),
		int(b.YearRange.Start), int(b.YearRange.End), b.Fingerprint.String())
	if err != nil {
		return err
	}

	if err := insertModel(ctx, tx, "cross_section", b.CrossSectionModel); err != nil {
		return err
	}
	if err := insertModel(ctx, tx, "panel_fe", b.PanelModel); err != nil {
		return err
	}

	for i, rowField := range b.Correlations.Fields {
		for j, colField := range b.Correlations.Fields {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO correlation (row_field, col_field, value) VALUES (?, ?, ?)`,
				rowField.String(), colField.String(), b.Correlations.Values[i][j]); err != nil {
				return err
			}
		}
	}

	for _, r := range b.RegionSummaries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO region_summary (region, countries, mean_growth, mean_income, mean_exports, mean_investment, mean_unemployment)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Region, r.Countries, r.MeanGrowth, r.MeanIncome, r.MeanExports, r.MeanInvestment, r.MeanUnemployment); err != nil {
			return err
		}
	}

	for _, y := range b.YearSummaries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO year_summary (year, countries, mean_growth, mean_investment, mean_trade_openness)
			 VALUES (?, ?, ?, ?, ?)`,
			int(y.Year), y.Countries, y.MeanGrowth, y.MeanInvestment, y.MeanTradeOpenness); err != nil {
			return err
		}
	}

	if err := insertPerformers(ctx, tx, "top", b.TopPerformers); err != nil {
		return err
	}
	if err := insertPerformers(ctx, tx, "bottom", b.BottomPerformers); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cleaning_audit (raw_rows, dropped_classification, dropped_first_year, dropped_incomplete, clean_rows)
		 VALUES (?, ?, ?, ?, ?)`,
		b.Audit.RawRows, b.Audit.DroppedClassification, b.Audit.DroppedFirstYear,
		b.Audit.DroppedIncomplete, b.Audit.CleanRows)
	return err
}

func insertModel(ctx context.Context, tx *sqlx.Tx, name string, m regress.ModelSummary) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO model_fit (model, r_squared, adj_r_squared, residual_se, f_stat, f_p_value, observations, degrees_freedom)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, m.Fit.RSquared, m.Fit.AdjRSquared, m.Fit.ResidualStdErr,
		m.Fit.FStat, m.Fit.FPValue, m.Fit.Observations, m.Fit.DegreesFreedom)
	if err != nil {
		return err
	}

	for i, term := range m.Terms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_term (model, position, name, estimate, std_err, t_stat, p_value, stars)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			name, i, term.Name.String(), term.Estimate, term.StdErr,
			term.TStat, term.PValue, term.Stars); err != nil {
			return err
		}
	}
	return nil
}

func insertPerformers(ctx context.Context, tx *sqlx.Tx, board string, rows []report.PerformerRow) error {
	for i, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO performer (board, position, country, country_name, region, gdp_growth, capital_formation, exports_gdp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			board, i+1, r.Country.String(), r.CountryName, r.Region,
			r.GDPGrowth, r.CapitalFormation, r.ExportsGDP); err != nil {
			return err
		}
	}
	return nil
}
