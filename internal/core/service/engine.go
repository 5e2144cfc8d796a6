package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const defaultConcurrency = 10

// ReconciliationEngine classifies every cloud resource against the IaC
// pool as Missing, Modified, or Match. Each resource's match-and-diff is
// independent and read-only over the shared pool, so resources are
// processed by a bounded worker pool; results are written into an
// index-stamped slice and the final analysis keeps input order regardless
// of scheduling.
type ReconciliationEngine struct {
	matcher     ports.Matcher
	differ      ports.Differ
	logger      ports.Logger
	concurrency int
}

func NewReconciliationEngine(matcher ports.Matcher, differ ports.Differ, logger ports.Logger, concurrency int) (*ReconciliationEngine, error) {
	if matcher == nil {
		return nil, errors.New(errors.CodeConfigValidation, "matcher cannot be nil")
	}
	if differ == nil {
		return nil, errors.New(errors.CodeConfigValidation, "differ cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &ReconciliationEngine{
		matcher:     matcher,
		differ:      differ,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

func (e *ReconciliationEngine) Analyze(ctx context.Context, cloud, iac []domain.ResourceRecord) (*domain.AnalysisReport, error) {
	e.logger.Infof(ctx, "Starting reconciliation of %d cloud resources against %d IaC resources", len(cloud), len(iac))

	pool, poolDiags := e.filterPool(ctx, iac)

	entries := make([]*domain.AnalysisEntry, len(cloud))
	diags := make([]*domain.Diagnostic, len(cloud))

	g, childCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range cloud {
		idx := i
		rec := cloud[i]
		g.Go(func() error {
			if childCtx.Err() != nil {
				return childCtx.Err()
			}
			entry, err := e.analyzeOne(childCtx, rec, pool)
			if err != nil {
				// Per-resource failures exclude the resource, never the run.
				e.logger.Warnf(childCtx, "Excluding cloud resource %s from analysis: %v", rec.DisplayID(), err)
				diags[idx] = &domain.Diagnostic{
					Code:    errors.GetCode(err).String(),
					Message: fmt.Sprintf("cloud resource %s excluded: %v", rec.DisplayID(), err),
				}
				return nil
			}
			entries[idx] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		Analysis:    make([]domain.AnalysisEntry, 0, len(cloud)),
		Diagnostics: poolDiags,
	}
	for i, entry := range entries {
		if diags[i] != nil {
			report.Diagnostics = append(report.Diagnostics, *diags[i])
			continue
		}
		if entry != nil {
			report.Analysis = append(report.Analysis, *entry)
		}
	}
	report.Summary = summarize(report.Analysis)

	e.logger.Infof(ctx, "Reconciliation complete: total=%d match=%d modified=%d missing=%d",
		report.Summary.Total, report.Summary.Match, report.Summary.Modified, report.Summary.Missing)
	return report, nil
}

func (e *ReconciliationEngine) analyzeOne(ctx context.Context, rec domain.ResourceRecord, pool []domain.ResourceRecord) (*domain.AnalysisEntry, error) {
	if !rec.IsObject() {
		return nil, errors.New(errors.CodeMalformedResource,
			fmt.Sprintf("resource record is not a mapping (got %s)", rec.Value().Kind()))
	}

	match, found := e.matcher.FindMatch(ctx, rec, pool)
	if !found {
		return &domain.AnalysisEntry{
			CloudResourceItem: rec,
			State:             domain.StateMissing,
			ChangeLog:         []domain.ChangeEntry{},
		}, nil
	}

	changes, err := e.differ.ChangeLog(ctx, rec, match)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []domain.ChangeEntry{}
	}

	state := domain.StateMatch
	if len(changes) > 0 {
		state = domain.StateModified
	}

	return &domain.AnalysisEntry{
		CloudResourceItem: rec,
		IacResourceItem:   &match,
		State:             state,
		ChangeLog:         changes,
	}, nil
}

// filterPool drops malformed IaC entries up front; they can never match
// and would otherwise be rechecked per cloud resource.
func (e *ReconciliationEngine) filterPool(ctx context.Context, iac []domain.ResourceRecord) ([]domain.ResourceRecord, []domain.Diagnostic) {
	pool := make([]domain.ResourceRecord, 0, len(iac))
	var diags []domain.Diagnostic
	for i, rec := range iac {
		if !rec.IsObject() {
			e.logger.Warnf(ctx, "Ignoring malformed IaC resource at index %d (got %s)", i, rec.Value().Kind())
			diags = append(diags, domain.Diagnostic{
				Code:    errors.CodeMalformedResource.String(),
				Message: fmt.Sprintf("iac resource at index %d ignored: not a mapping (got %s)", i, rec.Value().Kind()),
			})
			continue
		}
		pool = append(pool, rec)
	}
	return pool, diags
}

// summarize folds per-state counts over the completed analysis.
func summarize(analysis []domain.AnalysisEntry) domain.Summary {
	s := domain.Summary{Total: len(analysis)}
	for _, entry := range analysis {
		switch entry.State {
		case domain.StateMissing:
			s.Missing++
		case domain.StateModified:
			s.Modified++
		case domain.StateMatch:
			s.Match++
		}
	}
	return s
}
