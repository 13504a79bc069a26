// Package worldbank implements the indicator source against the World Bank
// Open Data API v2. Responses are the API's two-element JSON arrays (paging
// header first, data second); all pages of every series are fetched before
// rows are merged into observations.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"

	"macropanel/domain/core"
	"macropanel/domain/panel"
	"macropanel/internal"
	"macropanel/internal/config"
	apperrors "macropanel/internal/errors"
)

// aggregatesRegion marks the API's pseudo-countries (regions, income groups,
// the world total). Rows under it never enter the panel.
const aggregatesRegion = "Aggregates"

// Client fetches indicator panels over HTTP.
type Client struct {
	baseURL string
	perPage int
	http    *http.Client
	logger  *internal.Logger
}

// NewClient builds a client from source configuration.
func NewClient(cfg config.SourceConfig, logger *internal.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		perPage: cfg.PerPage,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		logger:  logger,
	}
}

type pageInfo struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type countryMeta struct {
	name   string
	region string
	income string
}

type countryRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region struct {
		Value string `json:"value"`
	} `json:"region"`
	IncomeLevel struct {
		Value string `json:"value"`
	} `json:"incomeLevel"`
}

type dataRecord struct {
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// FetchPanel acquires all six indicator series for the year range and merges
// them into one row per (country, year). Values the API reports as null stay
// NaN; aggregate rows are dropped at the country-metadata gate.
func (c *Client) FetchPanel(ctx context.Context, years core.YearRange) ([]panel.Observation, error) {
	countries, err := c.fetchCountries(ctx)
	if err != nil {
		return nil, apperrors.AcquisitionError("world bank", err)
	}
	c.logger.Info("fetched metadata for %d non-aggregate countries", len(countries))

	type rowKey struct {
		country core.CountryCode
		year    core.Year
	}
	rows := make(map[rowKey]*panel.Observation)

	for _, code := range Indicators() {
		records, err := c.fetchSeries(ctx, code, years)
		if err != nil {
			return nil, apperrors.AcquisitionError("world bank", err)
		}
		field := fieldByIndicator[code]

		merged := 0
		for _, rec := range records {
			meta, ok := countries[core.CountryCode(rec.CountryISO3)]
			if !ok {
				continue
			}
			year, err := strconv.Atoi(rec.Date)
			if err != nil || !years.Contains(core.Year(year)) {
				continue
			}
			if rec.Value == nil {
				continue
			}

			k := rowKey{core.CountryCode(rec.CountryISO3), core.Year(year)}
			obs := rows[k]
			if obs == nil {
				obs = &panel.Observation{
					Country:          k.country,
					CountryName:      meta.name,
					Region:           meta.region,
					IncomeGroup:      meta.income,
					Year:             k.year,
					GDPGrowth:        math.NaN(),
					GNIPerCapita:     math.NaN(),
					ExportsGDP:       math.NaN(),
					CapitalFormation: math.NaN(),
					CPI:              math.NaN(),
					Unemployment:     math.NaN(),
				}
				rows[k] = obs
			}
			setField(obs, field, *rec.Value)
			merged++
		}
		c.logger.Info("series %s: %d values merged", code, merged)
	}

	if len(rows) == 0 {
		return nil, apperrors.AcquisitionError("world bank", core.ErrEmptyDataset)
	}

	out := make([]panel.Observation, 0, len(rows))
	for _, obs := range rows {
		out = append(out, *obs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// fetchCountries loads the country classification table, keyed by ISO3,
// with aggregate pseudo-countries filtered out.
func (c *Client) fetchCountries(ctx context.Context) (map[core.CountryCode]countryMeta, error) {
	out := make(map[core.CountryCode]countryMeta)

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country?format=json&per_page=400&page=%d", c.baseURL, page)
		var info pageInfo
		var records []countryRecord
		if err := c.getPage(ctx, url, &info, &records); err != nil {
			return nil, fmt.Errorf("country metadata page %d: %w", page, err)
		}

		for _, rec := range records {
			if rec.Region.Value == aggregatesRegion || len(rec.ID) != 3 {
				continue
			}
			code, err := core.ParseCountryCode(rec.ID)
			if err != nil {
				continue
			}
			out[code] = countryMeta{
				name:   rec.Name,
				region: rec.Region.Value,
				income: rec.IncomeLevel.Value,
			}
		}

		if page >= info.Pages {
			break
		}
	}
	return out, nil
}

// fetchSeries loads one indicator for all countries across the year range,
// following the API's paging header until exhausted.
func (c *Client) fetchSeries(ctx context.Context, code core.IndicatorCode, years core.YearRange) ([]dataRecord, error) {
	var all []dataRecord

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country/all/indicator/%s?format=json&date=%d:%d&per_page=%d&page=%d",
			c.baseURL, code, years.Start, years.End, c.perPage, page)
		var info pageInfo
		var records []dataRecord
		if err := c.getPage(ctx, url, &info, &records); err != nil {
			return nil, fmt.Errorf("series %s page %d: %w", code, page, err)
		}
		all = append(all, records...)

		if page >= info.Pages {
			break
		}
	}
	return all, nil
}

// getPage performs one GET and splits the API's [header, rows] envelope.
func (c *Client) getPage(ctx context.Context, url string, info *pageInfo, records interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope) < 2 {
		return fmt.Errorf("malformed response: %d envelope elements", len(envelope))
	}
	if err := json.Unmarshal(envelope[0], info); err != nil {
		return fmt.Errorf("decode paging header: %w", err)
	}
	if err := json.Unmarshal(envelope[1], records); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
