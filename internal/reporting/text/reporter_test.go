package text

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
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

func mustRecord(t *testing.T, doc string) domain.ResourceRecord {
	t.Helper()
	v, err := domain.ParseValue([]byte(doc))
	require.NoError(t, err)
	return domain.NewResourceRecord(v)
}

func ptr(v domain.Value) *domain.Value { return &v }

func TestReporter_Report(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()

	t.Run("summary only", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterWithWriter(Config{NoColor: true}, &buf, noopLogger{})

		report := &domain.AnalysisReport{
			Summary: domain.Summary{Total: 3, Match: 2, Missing: 1},
		}
		require.NoError(t, r.Report(ctx, report))

		out := buf.String()
		assert.Contains(t, out, "ANALYSIS SUMMARY")
		assert.Contains(t, out, "Total Resources:")
		assert.Contains(t, out, "3")
		assert.NotContains(t, out, "DETAILED CHANGES")
		assert.NotContains(t, out, "DIAGNOSTICS")
	})

	t.Run("detailed changes grouped by resource", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterWithWriter(Config{NoColor: true}, &buf, noopLogger{})

		report := &domain.AnalysisReport{
			Analysis: []domain.AnalysisEntry{
				{
					CloudResourceItem: mustRecord(t, `{"id":"i-1","name":"web"}`),
					State:             domain.StateModified,
					ChangeLog: []domain.ChangeEntry{
						{KeyName: "size", CloudValue: ptr(domain.StringVal("m5.large")), IacValue: ptr(domain.StringVal("t2.micro"))},
						{KeyName: "tags.Env", CloudValue: ptr(domain.StringVal("prod")), IacValue: nil},
					},
				},
			},
			Summary: domain.Summary{Total: 1, Modified: 1},
		}
		require.NoError(t, r.Report(ctx, report))

		out := buf.String()
		assert.Contains(t, out, "DETAILED CHANGES")
		assert.Contains(t, out, "Resource: web (i-1)")
		assert.Contains(t, out, `size: "t2.micro" -> "m5.large"`)
		assert.Contains(t, out, `tags.Env: <absent> -> "prod"`)
	})

	t.Run("diagnostics section", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterWithWriter(Config{NoColor: true}, &buf, noopLogger{})

		report := &domain.AnalysisReport{
			Summary:     domain.Summary{},
			Diagnostics: []domain.Diagnostic{{Code: "MALFORMED_RESOURCE", Message: "resource at index 2 ignored"}},
		}
		require.NoError(t, r.Report(ctx, report))

		out := buf.String()
		assert.Contains(t, out, "DIAGNOSTICS")
		assert.Contains(t, out, "[MALFORMED_RESOURCE] resource at index 2 ignored")
	})
}
