package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

// Reporter prints a human-oriented summary plus one line per field-level
// change, for operators reading the run output directly.
type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	return &Reporter{config: cfg, writer: os.Stdout, logger: logger}, nil
}

func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) *Reporter {
	return &Reporter{config: cfg, writer: w, logger: logger}
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, report *domain.AnalysisReport) error {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(r.writer, bold("ANALYSIS SUMMARY"))
	tw := tabwriter.NewWriter(r.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Resources:\t%d\n", report.Summary.Total)
	fmt.Fprintf(tw, "%s\t%d\n", green("Matched:"), report.Summary.Match)
	fmt.Fprintf(tw, "%s\t%d\n", yellow("Modified:"), report.Summary.Modified)
	fmt.Fprintf(tw, "%s\t%d\n", red("Missing:"), report.Summary.Missing)
	if err := tw.Flush(); err != nil {
		return err
	}

	if changes := report.FlattenedChanges(); len(changes) > 0 {
		fmt.Fprintln(r.writer)
		fmt.Fprintln(r.writer, bold("DETAILED CHANGES"))
		lastResource := ""
		for _, rc := range changes {
			header := resourceHeader(rc)
			if header != lastResource {
				fmt.Fprintf(r.writer, "\nResource: %s\n", header)
				lastResource = header
			}
			fmt.Fprintf(r.writer, "  %s: %s -> %s\n",
				rc.Change.KeyName,
				renderValue(rc.Change.IacValue),
				renderValue(rc.Change.CloudValue))
		}
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(r.writer)
		fmt.Fprintln(r.writer, bold("DIAGNOSTICS"))
		for _, d := range report.Diagnostics {
			fmt.Fprintf(r.writer, "  [%s] %s\n", d.Code, d.Message)
		}
	}

	r.logger.Debugf(ctx, "Text report rendered (%d entries)", len(report.Analysis))
	return nil
}

func resourceHeader(rc domain.ResourceChange) string {
	name := rc.ResourceName
	if name == "" {
		name = "unknown"
	}
	id := rc.ResourceID
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

func renderValue(v *domain.Value) string {
	if v == nil {
		return "<absent>"
	}
	return v.String()
}
