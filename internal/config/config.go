package config

import (
	"github.com/driftaudit/iac-reconciler/internal/adapters/diff/structural"
	"github.com/driftaudit/iac-reconciler/internal/adapters/matching/tiered"
	"github.com/driftaudit/iac-reconciler/internal/adapters/snapshot/jsonfile"
	"github.com/driftaudit/iac-reconciler/internal/adapters/snapshot/tfjson"
	"github.com/driftaudit/iac-reconciler/internal/log"
	jsonreport "github.com/driftaudit/iac-reconciler/internal/reporting/json"
	textreport "github.com/driftaudit/iac-reconciler/internal/reporting/text"
)

type Config struct {
	Settings  SettingsConfig    `mapstructure:"settings"`
	Snapshots SnapshotsConfig   `mapstructure:"snapshots"`
	Diff      structural.Config `mapstructure:"diff"`
	Storage   StorageConfig     `mapstructure:"storage"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `mapstructure:"log_level"`
	LogFormat    log.Format      `mapstructure:"log_format"`
	Concurrency  int             `mapstructure:"concurrency" validate:"gte=0"`
	MatcherType  string          `mapstructure:"matcher" validate:"omitempty,oneof=tiered"`
	ReporterType string          `mapstructure:"reporter" validate:"omitempty,oneof=text json"`
	Reporter     ReporterConfigs `mapstructure:"reporter_config"`
}

type SnapshotsConfig struct {
	Cloud SourceConfig `mapstructure:"cloud"`
	Iac   SourceConfig `mapstructure:"iac"`
}

// SourceConfig selects one snapshot input: a plain JSON resource snapshot
// or a `terraform show -json` state export.
type SourceConfig struct {
	Format string `mapstructure:"format" validate:"omitempty,oneof=json tfstate"`
	Path   string `mapstructure:"path" validate:"required"`
}

type ReporterConfigs struct {
	Text *textreport.Config `mapstructure:"text,omitempty"`
	JSON *jsonreport.Config `mapstructure:"json,omitempty"`
}

// StorageConfig describes the optional report upload destination. An
// empty bucket disables upload entirely.
type StorageConfig struct {
	Bucket   string `mapstructure:"bucket"`
	Key      string `mapstructure:"key"`
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  10,
			MatcherType:  tiered.MatcherTypeTiered,
			ReporterType: textreport.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &textreport.Config{},
				JSON: &jsonreport.Config{},
			},
		},
		Snapshots: SnapshotsConfig{
			Cloud: SourceConfig{Format: jsonfile.ProviderTypeJSONFile},
			Iac:   SourceConfig{Format: jsonfile.ProviderTypeJSONFile},
		},
		Diff: structural.DefaultConfig(),
	}
}

// SourceFormat normalizes an empty format to the JSON default.
func (s SourceConfig) SourceFormat() string {
	if s.Format == "" {
		return jsonfile.ProviderTypeJSONFile
	}
	return s.Format
}

// known format names, referenced here so config stays the single place
// naming them.
var SnapshotFormats = []string{jsonfile.ProviderTypeJSONFile, tfjson.ProviderTypeTerraformState}
