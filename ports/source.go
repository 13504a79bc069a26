package ports

import (
	"context"

	"macropanel/domain/core"
	"macropanel/domain/panel"
)

// IndicatorSource acquires the raw indicator panel from an upstream provider.
// Implementations return one row per (country, year) with every requested
// indicator merged in; missing values are NaN. Aggregate pseudo-countries
// are excluded before rows are returned.
type IndicatorSource interface {
	FetchPanel(ctx context.Context, years core.YearRange) ([]panel.Observation, error)
}
