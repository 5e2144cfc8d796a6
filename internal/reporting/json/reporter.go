package json

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const ReporterTypeJSON = "json"

type Config struct {
	// OutputPath writes the report to a file instead of stdout.
	OutputPath string `mapstructure:"output_path"`
}

// Reporter serializes the report in the interchange shape: a top-level
// "analysis" array and "summary" object. Record key order is preserved,
// so identical inputs produce byte-identical output.
type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{config: cfg, writer: os.Stdout, logger: logger}, nil
}

func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) *Reporter {
	return &Reporter{config: cfg, writer: w, logger: logger}
}

func (r *Reporter) Report(ctx context.Context, report *domain.AnalysisReport) error {
	data, err := Encode(report)
	if err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return err
	}
	data = append(data, '\n')

	if r.config.OutputPath != "" {
		if err := os.WriteFile(r.config.OutputPath, data, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeReportWriteError, "failed to write report file")
		}
		r.logger.Infof(ctx, "Report written to %s", r.config.OutputPath)
		return nil
	}

	if _, err := r.writer.Write(data); err != nil {
		return errors.Wrap(err, errors.CodeReportWriteError, "failed to write report")
	}
	return nil
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode renders the report as indented JSON. Also used to produce the
// byte blob handed to the object store.
func Encode(report *domain.AnalysisReport) ([]byte, error) {
	compact, err := jsonAPI.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to marshal analysis report")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to indent analysis report")
	}
	return out.Bytes(), nil
}
