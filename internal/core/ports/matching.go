package ports

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
)

// Matcher pairs one cloud resource with its best IaC counterpart from a
// candidate pool. A miss is a normal outcome, not an error; malformed
// records simply never match.
type Matcher interface {
	// FindMatch returns the matched candidate and true, or false when no
	// tier produced a hit. Inputs are never mutated.
	FindMatch(ctx context.Context, cloud domain.ResourceRecord, pool []domain.ResourceRecord) (domain.ResourceRecord, bool)

	// Confidence scores an already-matched pair between 0.0 and 1.0.
	Confidence(cloud, iac domain.ResourceRecord) float64
}
