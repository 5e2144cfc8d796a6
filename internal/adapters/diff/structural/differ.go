package structural

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const DifferTypeStructural = "structural"

type Config struct {
	// IgnoreKeys are root-level keys excluded from diffing. Defaults to
	// the identity fields, which drive matching rather than drift.
	IgnoreKeys []string `mapstructure:"ignore_keys"`
	// CoerceNumericStrings makes "1" equal to 1. Off by default: type
	// mismatches are drift.
	CoerceNumericStrings bool `mapstructure:"coerce_numeric_strings"`
}

func DefaultConfig() Config {
	return Config{IgnoreKeys: append([]string(nil), domain.IdentityKeys...)}
}

// Differ walks two records in lockstep and emits one ChangeEntry per leaf
// position where they disagree. Traversal order is the cloud record's key
// order followed by IaC-only keys, so identical inputs always yield the
// same change log.
type Differ struct {
	config     Config
	ignoreRoot map[string]struct{}
}

func NewDiffer(cfg Config) *Differ {
	if cfg.IgnoreKeys == nil {
		cfg.IgnoreKeys = DefaultConfig().IgnoreKeys
	}
	ignore := make(map[string]struct{}, len(cfg.IgnoreKeys))
	for _, k := range cfg.IgnoreKeys {
		ignore[k] = struct{}{}
	}
	return &Differ{config: cfg, ignoreRoot: ignore}
}

func (d *Differ) ChangeLog(ctx context.Context, cloud, iac domain.ResourceRecord) ([]domain.ChangeEntry, error) {
	if !cloud.IsObject() {
		return nil, errors.New(errors.CodeMalformedResource,
			fmt.Sprintf("cloud resource is not a mapping (got %s)", cloud.Value().Kind()))
	}
	if !iac.IsObject() {
		return nil, errors.New(errors.CodeMalformedResource,
			fmt.Sprintf("iac resource is not a mapping (got %s)", iac.Value().Kind()))
	}

	w := walker{coerce: d.config.CoerceNumericStrings}
	w.compareObjects(cloud.Value(), iac.Value(), pathBuilder{}, d.ignoreRoot)
	return w.changes, nil
}

// pathBuilder renders the dot/bracket notation for nested positions,
// e.g. tags.Environment or rules[2].port.
type pathBuilder struct {
	segments []pathSegment
}

type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

func (p pathBuilder) Key(key string) pathBuilder {
	return pathBuilder{segments: append(append([]pathSegment(nil), p.segments...), pathSegment{key: key})}
}

func (p pathBuilder) Index(i int) pathBuilder {
	return pathBuilder{segments: append(append([]pathSegment(nil), p.segments...), pathSegment{index: i, isIndex: true})}
}

func (p pathBuilder) String() string {
	var b strings.Builder
	for i, seg := range p.segments {
		if seg.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}

type walker struct {
	coerce  bool
	changes []domain.ChangeEntry
}

func (w *walker) record(path pathBuilder, cloud, iac *domain.Value) {
	w.changes = append(w.changes, domain.ChangeEntry{
		KeyName:    path.String(),
		CloudValue: cloud,
		IacValue:   iac,
	})
}

func (w *walker) compare(cloud, iac domain.Value, path pathBuilder) {
	if cloud.Kind() == domain.KindObject && iac.Kind() == domain.KindObject {
		w.compareObjects(cloud, iac, path, nil)
		return
	}
	if cloud.Kind() == domain.KindList && iac.Kind() == domain.KindList {
		w.compareLists(cloud, iac, path)
		return
	}
	if !w.leafEqual(cloud, iac) {
		w.record(path, &cloud, &iac)
	}
}

func (w *walker) compareObjects(cloud, iac domain.Value, path pathBuilder, ignore map[string]struct{}) {
	for _, key := range cloud.Keys() {
		if _, skip := ignore[key]; skip {
			continue
		}
		cloudField, _ := cloud.Field(key)
		iacField, ok := iac.Field(key)
		if !ok {
			w.record(path.Key(key), &cloudField, nil)
			continue
		}
		w.compare(cloudField, iacField, path.Key(key))
	}

	// Keys only declared in IaC, in their own document order.
	for _, key := range iac.Keys() {
		if _, skip := ignore[key]; skip {
			continue
		}
		if _, ok := cloud.Field(key); ok {
			continue
		}
		iacField, _ := iac.Field(key)
		w.record(path.Key(key), nil, &iacField)
	}
}

// compareLists is positional: index i against index i, with every extra
// position on the longer side reported as absent on the shorter one.
func (w *walker) compareLists(cloud, iac domain.Value, path pathBuilder) {
	n := cloud.Len()
	if iac.Len() > n {
		n = iac.Len()
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= iac.Len():
			item := cloud.Index(i)
			w.record(path.Index(i), &item, nil)
		case i >= cloud.Len():
			item := iac.Index(i)
			w.record(path.Index(i), nil, &item)
		default:
			w.compare(cloud.Index(i), iac.Index(i), path.Index(i))
		}
	}
}

func (w *walker) leafEqual(cloud, iac domain.Value) bool {
	if cloud.Equal(iac) {
		return true
	}
	if w.coerce {
		if f1, ok1 := numericValue(cloud); ok1 {
			if f2, ok2 := numericValue(iac); ok2 {
				return f1 == f2
			}
		}
	}
	return false
}

func numericValue(v domain.Value) (float64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		return v.Float()
	case domain.KindString:
		f, err := strconv.ParseFloat(v.StrVal(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
