package tfjson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	tfjson "github.com/hashicorp/terraform-json"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const ProviderTypeTerraformState = "tfstate"

type Config struct {
	FilePath string `mapstructure:"path"`
}

// Provider flattens a `terraform show -json` state export into resource
// records, so operators can reconcile directly against Terraform state
// without an intermediate snapshot step. Every managed resource in the
// root module and all child modules becomes one record carrying its type,
// name, and attribute payload.
type Provider struct {
	config Config
	logger ports.Logger
}

func NewProvider(cfg Config, logger ports.Logger) (*Provider, error) {
	if cfg.FilePath == "" {
		return nil, errors.New(errors.CodeConfigValidation, "terraform state provider requires a file path")
	}
	return &Provider{config: cfg, logger: logger}, nil
}

func (p *Provider) Type() string {
	return ProviderTypeTerraformState
}

func (p *Provider) Load(ctx context.Context) ([]domain.ResourceRecord, error) {
	data, err := os.ReadFile(p.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("failed to read terraform state file %s", p.config.FilePath))
	}

	var state tfjson.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("failed to parse terraform state file %s", p.config.FilePath))
	}

	var records []domain.ResourceRecord
	if state.Values != nil && state.Values.RootModule != nil {
		records = collectModule(state.Values.RootModule, records)
	}

	p.logger.Debugf(ctx, "Loaded %d managed resources from terraform state %s", len(records), p.config.FilePath)
	return records, nil
}

func collectModule(module *tfjson.StateModule, records []domain.ResourceRecord) []domain.ResourceRecord {
	for _, res := range module.Resources {
		if res == nil || res.Mode != tfjson.ManagedResourceMode {
			continue
		}
		records = append(records, recordFromResource(res))
	}
	for _, child := range module.ChildModules {
		if child != nil {
			records = collectModule(child, records)
		}
	}
	return records
}

// recordFromResource lifts the resource labels to the well-known matching
// keys and flattens the attribute payload at the top level, attributes
// sorted for determinism.
func recordFromResource(res *tfjson.StateResource) domain.ResourceRecord {
	fields := []domain.Field{
		{Key: domain.KeyType, Value: domain.StringVal(res.Type)},
		{Key: domain.KeyName, Value: domain.StringVal(res.Name)},
	}

	attrKeys := make([]string, 0, len(res.AttributeValues))
	for k := range res.AttributeValues {
		if k == domain.KeyType || k == domain.KeyName {
			continue
		}
		attrKeys = append(attrKeys, k)
	}
	sort.Strings(attrKeys)
	for _, k := range attrKeys {
		fields = append(fields, domain.Field{Key: k, Value: domain.FromGo(res.AttributeValues[k])})
	}

	return domain.NewResourceRecord(domain.ObjectVal(fields...))
}
