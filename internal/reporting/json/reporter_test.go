package json

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any) {}

func (noopLogger) Infof(ctx context.Context, format string, args ...any) {}

func (noopLogger) Warnf(ctx context.Context, format string, args ...any) {}

func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}

func (noopLogger) WithFields(fields map[string]any) ports.Logger { return noopLogger{} }

func sampleReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	cloud, err := domain.ParseValue([]byte(`{"id":"i-1","name":"web","size":5}`))
	require.NoError(t, err)
	iac, err := domain.ParseValue([]byte(`{"id":"i-1","name":"web","size":3}`))
	require.NoError(t, err)

	iacRec := domain.NewResourceRecord(iac)
	cloudVal := domain.IntVal(5)
	iacVal := domain.IntVal(3)

	return &domain.AnalysisReport{
		Analysis: []domain.AnalysisEntry{
			{
				CloudResourceItem: domain.NewResourceRecord(cloud),
				IacResourceItem:   &iacRec,
				State:             domain.StateModified,
				ChangeLog: []domain.ChangeEntry{
					{KeyName: "size", CloudValue: &cloudVal, IacValue: &iacVal},
				},
			},
		},
		Summary:     domain.Summary{Total: 1, Modified: 1},
		Diagnostics: []domain.Diagnostic{{Code: "MALFORMED_RESOURCE", Message: "excluded"}},
	}
}

func TestEncode(t *testing.T) {
	report := sampleReport(t)

	data, err := Encode(report)
	require.NoError(t, err)

	want := `{
  "analysis": [
    {
      "CloudResourceItem": {"id":"i-1","name":"web","size":5},
      "IacResourceItem": {"id":"i-1","name":"web","size":3},
      "State": "Modified",
      "ChangeLog": [
        {"KeyName": "size", "CloudValue": 5, "IacValue": 3}
      ]
    }
  ],
  "summary": {"total": 1, "missing": 0, "modified": 1, "match": 0}
}`
	assert.JSONEq(t, want, string(data))
	assert.NotContains(t, string(data), "Diagnostics")

	// Record key order from the snapshot survives serialization.
	out := string(data)
	assert.Less(t, strings.Index(out, `"id"`), strings.Index(out, `"name"`))
	assert.Less(t, strings.Index(out, `"name"`), strings.Index(out, `"size"`))
}

func TestEncode_Deterministic(t *testing.T) {
	report := sampleReport(t)

	first, err := Encode(report)
	require.NoError(t, err)
	second, err := Encode(report)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReporter_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("writes to the configured writer", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterWithWriter(Config{}, &buf, noopLogger{})

		require.NoError(t, r.Report(ctx, sampleReport(t)))
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
		assert.Contains(t, buf.String(), `"analysis"`)
	})

	t.Run("writes to a file when output path is set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		r := NewReporterWithWriter(Config{OutputPath: path}, nil, noopLogger{})

		require.NoError(t, r.Report(ctx, sampleReport(t)))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"summary"`)
	})
}
