package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/driftaudit/iac-reconciler/internal/adapters/diff/structural"
	"github.com/driftaudit/iac-reconciler/internal/adapters/matching/tiered"
	"github.com/driftaudit/iac-reconciler/internal/adapters/snapshot/jsonfile"
	"github.com/driftaudit/iac-reconciler/internal/adapters/snapshot/tfjson"
	"github.com/driftaudit/iac-reconciler/internal/adapters/storage/s3store"
	"github.com/driftaudit/iac-reconciler/internal/config"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/core/service"
	"github.com/driftaudit/iac-reconciler/internal/errors"
	"github.com/driftaudit/iac-reconciler/internal/log"
	jsonreport "github.com/driftaudit/iac-reconciler/internal/reporting/json"
	textreport "github.com/driftaudit/iac-reconciler/internal/reporting/text"
)

// BuildApplicationFromViper assembles the full analysis application:
// logger, snapshot providers, matcher, differ, engine, reporters, and the
// optional object store.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (level: %s, format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	if err := validateConfig(ctx, cfg); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}

	cloudProvider, err := newSnapshotProvider(cfg.Snapshots.Cloud, logger.WithFields(map[string]any{"snapshot": "cloud"}))
	if err != nil {
		return nil, err
	}
	iacProvider, err := newSnapshotProvider(cfg.Snapshots.Iac, logger.WithFields(map[string]any{"snapshot": "iac"}))
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Snapshot providers ready (cloud: %s, iac: %s)", cloudProvider.Type(), iacProvider.Type())

	matcher, err := newMatcher(cfg.Settings.MatcherType, logger.WithFields(map[string]any{"component": "matcher"}))
	if err != nil {
		return nil, err
	}
	differ := structural.NewDiffer(cfg.Diff)

	engine, err := service.NewReconciliationEngine(
		matcher, differ,
		logger.WithFields(map[string]any{"component": "engine"}),
		cfg.Settings.Concurrency,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize reconciliation engine")
	}

	reporters, err := buildReporters(cfg, logger)
	if err != nil {
		return nil, err
	}

	var store ports.ObjectStore
	if cfg.Storage.Bucket != "" {
		storeLog := logger.WithFields(map[string]any{"component": "storage"})
		store, err = s3store.NewClient(ctx, s3store.Config{
			Endpoint: cfg.Storage.Endpoint,
			Region:   cfg.Storage.Region,
		}, storeLog)
		if err != nil {
			return nil, err
		}
		storeLog.Infof(ctx, "Object store ready (bucket: %s)", cfg.Storage.Bucket)
	}

	logger.Debugf(ctx, "Application bootstrap complete")
	return &Application{
		Config:        cfg,
		Logger:        logger,
		Engine:        engine,
		CloudProvider: cloudProvider,
		IacProvider:   iacProvider,
		Reporters:     reporters,
		Store:         store,
	}, nil
}

func validateConfig(ctx context.Context, cfg *config.Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		return nil
	}

	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details.WriteString(fmt.Sprintf("\n - Field '%s': failed on '%s' (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	} else {
		details.WriteString(" " + err.Error())
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(),
		"Check your configuration file and flags.")
}

func newMatcher(kind string, logger ports.Logger) (ports.Matcher, error) {
	switch kind {
	case "", tiered.MatcherTypeTiered:
		return tiered.NewMatcher(logger), nil
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported matcher type: %s", kind),
			fmt.Sprintf("Supported: %s", tiered.MatcherTypeTiered))
	}
}

func newSnapshotProvider(src config.SourceConfig, logger ports.Logger) (ports.SnapshotProvider, error) {
	switch src.SourceFormat() {
	case jsonfile.ProviderTypeJSONFile:
		return jsonfile.NewProvider(jsonfile.Config{FilePath: src.Path}, logger)
	case tfjson.ProviderTypeTerraformState:
		return tfjson.NewProvider(tfjson.Config{FilePath: src.Path}, logger)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported snapshot format: %s", src.Format),
			fmt.Sprintf("Supported formats: %s", strings.Join(config.SnapshotFormats, ", ")))
	}
}

// buildReporters selects the stdout reporter and, when an output path is
// configured, a JSON file reporter alongside it.
func buildReporters(cfg *config.Config, logger ports.Logger) ([]ports.Reporter, error) {
	var reporters []ports.Reporter

	jsonCfg := jsonreport.Config{}
	if cfg.Settings.Reporter.JSON != nil {
		jsonCfg = *cfg.Settings.Reporter.JSON
	}

	switch cfg.Settings.ReporterType {
	case "", textreport.ReporterTypeText:
		textCfg := textreport.Config{}
		if cfg.Settings.Reporter.Text != nil {
			textCfg = *cfg.Settings.Reporter.Text
		}
		r, err := textreport.NewReporter(textCfg, logger.WithFields(map[string]any{"component": "reporter", "type": textreport.ReporterTypeText}))
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
		}
		reporters = append(reporters, r)

		if jsonCfg.OutputPath != "" {
			fr, err := jsonreport.NewReporter(jsonCfg, logger.WithFields(map[string]any{"component": "reporter", "type": jsonreport.ReporterTypeJSON}))
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
			}
			reporters = append(reporters, fr)
		}
	case jsonreport.ReporterTypeJSON:
		r, err := jsonreport.NewReporter(jsonCfg, logger.WithFields(map[string]any{"component": "reporter", "type": jsonreport.ReporterTypeJSON}))
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
		}
		reporters = append(reporters, r)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType),
			"Supported: text, json")
	}

	return reporters, nil
}
