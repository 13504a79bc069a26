package ports

import (
	"context"

	"macropanel/domain/panel"
)

// PanelCache is the local copy of the raw acquisition output. Presence is
// the only freshness signal: when Exists reports true the pipeline reads the
// cache and never contacts the source, regardless of the cache's age.
type PanelCache interface {
	Exists() bool
	Read(ctx context.Context) ([]panel.Observation, error)
	Write(ctx context.Context, obs []panel.Observation) error
}
