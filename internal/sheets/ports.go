package sheets

import (
	"context"

	"selada/internal/export"
)

// Ports for outbound adapters.
type (
	// ReportPublisher replaces the published copy of each report table.
	ReportPublisher interface {
		PublishReports(ctx context.Context, sheets []export.Sheet) error
	}
)
