// Package csvcache stores the raw acquisition output as a flat CSV file.
// The file's presence is the pipeline's only freshness signal: an existing
// cache is always read in full and the upstream source is never contacted.
package csvcache

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	apperrors "macropanel/internal/errors"
)

var header = []string{
	"country", "country_name", "region", "income_group", "year",
	"gdp_growth", "gni_per_capita", "exports_gdp",
	"capital_formation", "cpi", "unemployment",
}

// Cache is a file-backed panel cache.
type Cache struct {
	path string
}

// New returns a cache rooted at path. The file need not exist yet.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }

// Exists reports whether the cache file is present.
func (c *Cache) Exists() bool {
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

// Read loads all cached observations. Empty cells become NaN.
func (c *Cache) Read(ctx context.Context) ([]panel.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, apperrors.CacheError("opening panel cache", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.CacheError("reading panel cache", err)
	}
	if len(records) < 1 {
		return nil, apperrors.CacheError("panel cache has no header", nil)
	}

	obs := make([]panel.Observation, 0, len(records)-1)
	for i, rec := range records[1:] {
		o, err := parseRow(rec)
		if err != nil {
			return nil, apperrors.CacheError(fmt.Sprintf("panel cache row %d", i+2), err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// Write replaces the cache with the given observations. The parent directory
// is created if missing; the write goes through a temp file and rename so a
// failed run never leaves a truncated cache behind.
func (c *Cache) Write(ctx context.Context, obs []panel.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.CacheError("creating cache directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return apperrors.CacheError("creating cache temp file", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return apperrors.CacheError("writing cache header", err)
	}
	for _, o := range obs {
		if err := w.Write(formatRow(o)); err != nil {
			tmp.Close()
			return apperrors.CacheError("writing cache row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return apperrors.CacheError("flushing cache", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.CacheError("closing cache temp file", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return apperrors.CacheError("replacing cache file", err)
	}
	return nil
}

func parseRow(rec []string) (panel.Observation, error) {
	year, err := strconv.Atoi(rec[4])
	if err != nil {
		return panel.Observation{}, fmt.Errorf("year %q: %w", rec[4], err)
	}

	o := panel.Observation{
		Country:     core.CountryCode(rec[0]),
		CountryName: rec[1],
		Region:      rec[2],
		IncomeGroup: rec[3],
		Year:        core.Year(year),
	}

	vals := make([]float64, 6)
	for i, cell := range rec[5:] {
		vals[i], err = parseCell(cell)
		if err != nil {
			return panel.Observation{}, fmt.Errorf("column %s: %w", header[5+i], err)
		}
	}
	o.GDPGrowth = vals[0]
	o.GNIPerCapita = vals[1]
	o.ExportsGDP = vals[2]
	o.CapitalFormation = vals[3]
	o.CPI = vals[4]
	o.Unemployment = vals[5]
	return o, nil
}

func parseCell(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func formatRow(o panel.Observation) []string {
	return []string{
		string(o.Country), o.CountryName, o.Region, o.IncomeGroup,
		strconv.Itoa(int(o.Year)),
		formatCell(o.GDPGrowth),
		formatCell(o.GNIPerCapita),
		formatCell(o.ExportsGDP),
		formatCell(o.CapitalFormation),
		formatCell(o.CPI),
		formatCell(o.Unemployment),
	}
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
