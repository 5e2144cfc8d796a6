package jsonfile

import (
	"context"
	"fmt"
	"os"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const ProviderTypeJSONFile = "json"

// resourcesKey is the wrapper key of the documented snapshot shape
// {"resources": [...]}. Bare arrays and single objects are also accepted.
const resourcesKey = "resources"

type Config struct {
	FilePath string `mapstructure:"path"`
}

// Provider loads resource records from a JSON snapshot file, preserving
// both the order of resources and the key order inside each record.
type Provider struct {
	config Config
	logger ports.Logger
}

func NewProvider(cfg Config, logger ports.Logger) (*Provider, error) {
	if cfg.FilePath == "" {
		return nil, errors.New(errors.CodeConfigValidation, "snapshot provider requires a file path")
	}
	return &Provider{config: cfg, logger: logger}, nil
}

func (p *Provider) Type() string {
	return ProviderTypeJSONFile
}

func (p *Provider) Load(ctx context.Context) ([]domain.ResourceRecord, error) {
	data, err := os.ReadFile(p.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("failed to read snapshot file %s", p.config.FilePath))
	}

	records, err := ParseSnapshot(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("failed to parse snapshot file %s", p.config.FilePath))
	}

	p.logger.Debugf(ctx, "Loaded %d resource records from %s", len(records), p.config.FilePath)
	return records, nil
}

// ParseSnapshot decodes a snapshot document. Accepted shapes:
// {"resources": [...]}, a bare array, or a single resource object.
func ParseSnapshot(data []byte) ([]domain.ResourceRecord, error) {
	v, err := domain.ParseValue(data)
	if err != nil {
		return nil, err
	}

	switch v.Kind() {
	case domain.KindList:
		return recordsFromList(v), nil
	case domain.KindObject:
		if wrapped, ok := v.Field(resourcesKey); ok && wrapped.Kind() == domain.KindList {
			return recordsFromList(wrapped), nil
		}
		return []domain.ResourceRecord{domain.NewResourceRecord(v)}, nil
	default:
		return nil, errors.New(errors.CodeSnapshotParseError,
			fmt.Sprintf("snapshot must be an object or an array, got %s", v.Kind()))
	}
}

func recordsFromList(list domain.Value) []domain.ResourceRecord {
	records := make([]domain.ResourceRecord, list.Len())
	for i := 0; i < list.Len(); i++ {
		records[i] = domain.NewResourceRecord(list.Index(i))
	}
	return records
}
