package ports

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
)

// Differ computes the ordered change log between a matched cloud/IaC pair.
// Both records must be objects; anything else fails with a
// MalformedResource error.
type Differ interface {
	ChangeLog(ctx context.Context, cloud, iac domain.ResourceRecord) ([]domain.ChangeEntry, error)
}
