package ports

import (
	"context"

	"macropanel/domain/report"
)

// BundleStore persists a sealed result bundle for the downstream reporting
// layer. Each run overwrites whatever the previous run left behind; stores
// hold exactly one bundle at a time.
type BundleStore interface {
	Save(ctx context.Context, bundle *report.ResultBundle) error
}
