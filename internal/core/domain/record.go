package domain

// Well-known record keys consulted by the matcher. Everything else on a
// record is opaque payload handled by the differ.
const (
	KeyID           = "id"
	KeyResourceID   = "resource_id"
	KeyARN          = "arn"
	KeyType         = "type"
	KeyResourceType = "resourceType"
	KeyName         = "name"
	KeyRegion       = "region"
)

// IdentityKeys lists the fields that uniquely identify a resource, in
// precedence order.
var IdentityKeys = []string{KeyID, KeyResourceID, KeyARN}

// ResourceRecord is one resource snapshot entry, either observed on the
// cloud platform or declared in IaC. Well-formed records are JSON objects;
// the orchestrator rejects anything else as malformed. Records are never
// mutated after loading.
type ResourceRecord struct {
	value Value
}

func NewResourceRecord(v Value) ResourceRecord {
	return ResourceRecord{value: v}
}

func (r ResourceRecord) Value() Value { return r.value }

// IsObject reports whether the record has the mapping shape required for
// matching and diffing.
func (r ResourceRecord) IsObject() bool {
	return r.value.Kind() == KindObject
}

func (r ResourceRecord) Field(key string) (Value, bool) {
	return r.value.Field(key)
}

// StringField returns the field as a string, or "" when the field is
// absent or not a string.
func (r ResourceRecord) StringField(key string) string {
	v, ok := r.value.Field(key)
	if !ok || v.Kind() != KindString {
		return ""
	}
	return v.StrVal()
}

// IdentityValues collects the non-empty identity field values present on
// the record, in IdentityKeys order.
func (r ResourceRecord) IdentityValues() []string {
	var ids []string
	for _, key := range IdentityKeys {
		if id := r.StringField(key); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// TypeName returns the resource kind, honoring both spellings recognized
// in snapshots ("type" preferred over "resourceType").
func (r ResourceRecord) TypeName() string {
	if t := r.StringField(KeyType); t != "" {
		return t
	}
	return r.StringField(KeyResourceType)
}

func (r ResourceRecord) Name() string   { return r.StringField(KeyName) }
func (r ResourceRecord) Region() string { return r.StringField(KeyRegion) }

// DisplayID is a best-effort identifier for logs and text reports.
func (r ResourceRecord) DisplayID() string {
	if ids := r.IdentityValues(); len(ids) > 0 {
		return ids[0]
	}
	if n := r.Name(); n != "" {
		return n
	}
	return "unknown"
}

func (r ResourceRecord) MarshalJSON() ([]byte, error) {
	return r.value.MarshalJSON()
}

func (r *ResourceRecord) UnmarshalJSON(data []byte) error {
	return r.value.UnmarshalJSON(data)
}
