package tiered

import (
	"context"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
)

const MatcherTypeTiered = "tiered"

// Matcher pairs cloud resources with IaC candidates using three tiers in
// strict precedence order:
//
//  1. identity: exact hit on any of id, resource_id, arn
//  2. type + name
//  3. name + region
//
// Within a tier the first candidate in pool order wins; the pool is an
// ordered slice, so the tie-break is deterministic for identical inputs.
// Ambiguous tiers (more than one hit) are surfaced as a warning.
type Matcher struct {
	logger ports.Logger
}

func NewMatcher(logger ports.Logger) *Matcher {
	return &Matcher{logger: logger}
}

type tierFunc func(cloud, candidate domain.ResourceRecord) bool

func (m *Matcher) FindMatch(ctx context.Context, cloud domain.ResourceRecord, pool []domain.ResourceRecord) (domain.ResourceRecord, bool) {
	if !cloud.IsObject() || len(pool) == 0 {
		return domain.ResourceRecord{}, false
	}

	tiers := []struct {
		name  string
		match tierFunc
	}{
		{"identity", identityMatch},
		{"type+name", typeNameMatch},
		{"name+region", nameRegionMatch},
	}

	for _, tier := range tiers {
		if rec, hits := firstHit(cloud, pool, tier.match); hits > 0 {
			if hits > 1 {
				m.logger.Warnf(ctx, "Ambiguous %s match for resource %s: %d candidates satisfy the tier, keeping the first in pool order",
					tier.name, cloud.DisplayID(), hits)
			}
			m.logger.Debugf(ctx, "Matched resource %s via %s tier", cloud.DisplayID(), tier.name)
			return rec, true
		}
	}

	return domain.ResourceRecord{}, false
}

// firstHit scans the whole pool so ambiguity can be reported, but always
// returns the earliest hit.
func firstHit(cloud domain.ResourceRecord, pool []domain.ResourceRecord, match tierFunc) (domain.ResourceRecord, int) {
	var found domain.ResourceRecord
	hits := 0
	for _, candidate := range pool {
		if !candidate.IsObject() {
			continue
		}
		if match(cloud, candidate) {
			if hits == 0 {
				found = candidate
			}
			hits++
		}
	}
	return found, hits
}

// identityMatch accepts any exact equality between an identity field on
// the candidate and any identity value the cloud resource exposes, so an
// id on one side may match a resource_id on the other.
func identityMatch(cloud, candidate domain.ResourceRecord) bool {
	cloudIDs := cloud.IdentityValues()
	if len(cloudIDs) == 0 {
		return false
	}
	for _, key := range domain.IdentityKeys {
		v := candidate.StringField(key)
		if v == "" {
			continue
		}
		for _, id := range cloudIDs {
			if v == id {
				return true
			}
		}
	}
	return false
}

func typeNameMatch(cloud, candidate domain.ResourceRecord) bool {
	cloudType := cloud.TypeName()
	cloudName := cloud.Name()
	if cloudType == "" || cloudName == "" {
		return false
	}
	return candidate.TypeName() == cloudType && candidate.Name() == cloudName
}

// nameRegionMatch requires the name; regions compare exactly, with absent
// on both sides counting as equal.
func nameRegionMatch(cloud, candidate domain.ResourceRecord) bool {
	cloudName := cloud.Name()
	if cloudName == "" {
		return false
	}
	return candidate.Name() == cloudName && candidate.Region() == cloud.Region()
}

// Confidence scores a matched pair: identity hits are certain, otherwise
// type and name contribute 0.4 each and region 0.2.
func (m *Matcher) Confidence(cloud, iac domain.ResourceRecord) float64 {
	if identityMatch(cloud, iac) {
		return 1.0
	}

	score := 0.0
	if t := cloud.TypeName(); t != "" && t == iac.TypeName() {
		score += 0.4
	}
	if n := cloud.Name(); n != "" && n == iac.Name() {
		score += 0.4
	}
	if r := cloud.Region(); r != "" && r == iac.Region() {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
