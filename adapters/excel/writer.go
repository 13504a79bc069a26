// Package excel writes the result bundle as a multi-sheet workbook for
// analysts who want the tables without touching JSON or SQL.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"macropanel/domain/regress"
	"macropanel/domain/report"
	apperrors "macropanel/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Writer persists bundles as .xlsx workbooks, one sheet per table.
type Writer struct {
	path string
}

// New returns a writer targeting path.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Save renders the workbook and replaces any previous file at the path.
func (w *Writer) Save(ctx context.Context, bundle *report.ResultBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := bundle.Validate(); err != nil {
		return apperrors.StoreError("bundle failed validation", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeModels(f, bundle); err != nil {
		return apperrors.StoreError("writing model sheets", err)
	}
	if err := writeCorrelations(f, bundle.Correlations); err != nil {
		return apperrors.StoreError("writing correlation sheet", err)
	}
	if err := writeRegions(f, bundle.RegionSummaries); err != nil {
		return apperrors.StoreError("writing region sheet", err)
	}
	if err := writeYears(f, bundle.YearSummaries); err != nil {
		return apperrors.StoreError("writing year sheet", err)
	}
	if err := writePerformers(f, "Top Performers", bundle.TopPerformers); err != nil {
		return apperrors.StoreError("writing top performers sheet", err)
	}
	if err := writePerformers(f, "Bottom Performers", bundle.BottomPerformers); err != nil {
		return apperrors.StoreError("writing bottom performers sheet", err)
	}

	// The default Sheet1 only existed to satisfy excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.StoreError("removing default sheet", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return apperrors.StoreError("creating output directory", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return apperrors.StoreError("saving workbook", err)
	}
	return nil
}

func writeModels(f *excelize.File, b *report.ResultBundle) error {
	for _, m := range []struct {
		sheet string
		model regress.ModelSummary
	}{
		{"OLS Cross Section", b.CrossSectionModel},
		{"Panel Fixed Effects", b.PanelModel},
	} {
		if _, err := f.NewSheet(m.sheet); err != nil {
			return err
		}
		rows := [][]interface{}{
			{"term", "estimate", "std_err", "t_stat", "p_value", "stars"},
		}
		for _, term := range m.model.Terms {
			rows = append(rows, []interface{}{
				term.Name.String(), term.Estimate, term.StdErr, term.TStat, term.PValue, term.Stars,
			})
		}
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"r_squared", m.model.Fit.RSquared},
			[]interface{}{"adj_r_squared", m.model.Fit.AdjRSquared},
			[]interface{}{"residual_std_err", m.model.Fit.ResidualStdErr},
			[]interface{}{"f_stat", m.model.Fit.FStat},
			[]interface{}{"observations", m.model.Fit.Observations},
		)
		if err := writeRows(f, m.sheet, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrelations(f *excelize.File, m report.CorrelationMatrix) error {
	const sheet = "Correlations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	head := []interface{}{""}
	for _, field := range m.Fields {
		head = append(head, field.String())
	}
	rows := [][]interface{}{head}
	for i, field := range m.Fields {
		row := []interface{}{field.String()}
		for j := range m.Fields {
			row = append(row, m.Values[i][j])
		}
		rows = append(rows, row)
	}
	return writeRows(f, sheet, rows)
}

func writeRegions(f *excelize.File, summaries []report.RegionSummary) error {
	const sheet = "Regions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"region", "countries", "mean_growth", "mean_income", "mean_exports", "mean_investment", "mean_unemployment"},
	}
	for _, r := range summaries {
		rows = append(rows, []interface{}{
			r.Region, r.Countries, r.MeanGrowth, r.MeanIncome, r.MeanExports, r.MeanInvestment, r.MeanUnemployment,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeYears(f *excelize.File, summaries []report.YearSummary) error {
	const sheet = "Year Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"year", "countries", "mean_growth", "mean_investment", "mean_trade_openness"},
	}
	for _, y := range summaries {
		rows = append(rows, []interface{}{
			int(y.Year), y.Countries, y.MeanGrowth, y.MeanInvestment, y.MeanTradeOpenness,
		})
	}
	return writeRows(f, sheet, rows)
}

func writePerformers(f *excelize.File, sheet string, performers []report.PerformerRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"rank", "country", "country_name", "region", "gdp_growth", "capital_formation", "exports_gdp"},
	}
	for i, p := range performers {
		rows = append(rows, []interface{}{
			i + 1, p.Country.String(), p.CountryName, p.Region, p.GDPGrowth, p.CapitalFormation, p.ExportsGDP,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
