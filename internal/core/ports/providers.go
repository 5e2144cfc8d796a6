package ports

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
)

// SnapshotProvider materializes one ordered sequence of resource records,
// e.g. from a JSON snapshot file or a Terraform state export.
type SnapshotProvider interface {
	Type() string
	Load(ctx context.Context) ([]domain.ResourceRecord, error)
}
