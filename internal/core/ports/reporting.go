package ports

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, report *domain.AnalysisReport) error
}
