package domain

// ResourceState classifies one cloud resource against the IaC pool.
type ResourceState string

const (
	StateMissing  ResourceState = "Missing"
	StateModified ResourceState = "Modified"
	StateMatch    ResourceState = "Match"
)

func (s ResourceState) String() string { return string(s) }

// ChangeEntry is one field-level discrepancy between a matched cloud/IaC
// pair. A nil CloudValue or IacValue means the path is absent on that side
// and serializes as JSON null.
type ChangeEntry struct {
	KeyName    string `json:"KeyName"`
	CloudValue *Value `json:"CloudValue"`
	IacValue   *Value `json:"IacValue"`
}

// AnalysisEntry is the reconciliation result for a single cloud resource.
// IacResourceItem is nil exactly when State is Missing, and ChangeLog is
// non-empty exactly when State is Modified.
type AnalysisEntry struct {
	CloudResourceItem ResourceRecord  `json:"CloudResourceItem"`
	IacResourceItem   *ResourceRecord `json:"IacResourceItem"`
	State             ResourceState   `json:"State"`
	ChangeLog         []ChangeEntry   `json:"ChangeLog"`
}

// Summary aggregates per-state counts. Total always equals
// Missing + Modified + Match.
type Summary struct {
	Total    int `json:"total"`
	Missing  int `json:"missing"`
	Modified int `json:"modified"`
	Match    int `json:"match"`
}

// Diagnostic is a run-level advisory note, e.g. a malformed record that
// was excluded from the analysis. Diagnostics are not part of the report's
// JSON interchange shape.
type Diagnostic struct {
	Code    string
	Message string
}

// AnalysisReport is the full reconciliation result. The JSON shape
// (top-level "analysis" and "summary") is the interchange contract with
// downstream consumers and must not change.
type AnalysisReport struct {
	Analysis    []AnalysisEntry `json:"analysis"`
	Summary     Summary         `json:"summary"`
	Diagnostics []Diagnostic    `json:"-"`
}

// DetailedChanges filters the analysis down to entries carrying at least
// one change. The returned slice shares entries with the report and must
// be treated as read-only.
func (r *AnalysisReport) DetailedChanges() []AnalysisEntry {
	var out []AnalysisEntry
	for _, entry := range r.Analysis {
		if len(entry.ChangeLog) > 0 {
			out = append(out, entry)
		}
	}
	return out
}

// ResourceChange is one change flattened together with the resource it
// belongs to, for human-oriented listings.
type ResourceChange struct {
	ResourceID   string
	ResourceName string
	Change       ChangeEntry
}

// FlattenedChanges lists every change across all modified resources, in
// analysis order.
func (r *AnalysisReport) FlattenedChanges() []ResourceChange {
	var out []ResourceChange
	for _, entry := range r.Analysis {
		for _, change := range entry.ChangeLog {
			out = append(out, ResourceChange{
				ResourceID:   entry.CloudResourceItem.StringField(KeyID),
				ResourceName: entry.CloudResourceItem.Name(),
				Change:       change,
			})
		}
	}
	return out
}
