package ports

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
)

type ReconciliationEngine interface {
	Analyze(ctx context.Context, cloud, iac []domain.ResourceRecord) (*domain.AnalysisReport, error)
}
