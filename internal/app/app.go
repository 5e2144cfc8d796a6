package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/driftaudit/iac-reconciler/internal/config"
	"github.com/driftaudit/iac-reconciler/internal/core/domain"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	jsonreport "github.com/driftaudit/iac-reconciler/internal/reporting/json"
)

// Application wires the loaded snapshots through the reconciliation
// engine and routes the report to the configured sinks.
type Application struct {
	Config        *config.Config
	Logger        ports.Logger
	Engine        ports.ReconciliationEngine
	CloudProvider ports.SnapshotProvider
	IacProvider   ports.SnapshotProvider
	Reporters     []ports.Reporter
	Store         ports.ObjectStore
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting cloud/IaC reconciliation")

	cloud, err := a.CloudProvider.Load(ctx)
	if err != nil {
		return err
	}
	iac, err := a.IacProvider.Load(ctx)
	if err != nil {
		return err
	}

	report, err := a.Engine.Analyze(ctx, cloud, iac)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Reconciliation failed")
		return err
	}

	for _, reporter := range a.Reporters {
		if err := reporter.Report(ctx, report); err != nil {
			return err
		}
	}

	if a.Store != nil {
		if err := a.uploadReport(ctx, report); err != nil {
			return err
		}
	}

	a.Logger.Infof(ctx, "Reconciliation run finished")
	return nil
}

func (a *Application) uploadReport(ctx context.Context, report *domain.AnalysisReport) error {
	data, err := jsonreport.Encode(report)
	if err != nil {
		return err
	}

	bucket := a.Config.Storage.Bucket
	key := a.Config.Storage.Key
	if key == "" {
		key = defaultObjectKey(a.Config.Snapshots.Cloud.Path)
	}

	if err := a.Store.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	if err := a.Store.Upload(ctx, data, bucket, key); err != nil {
		return err
	}
	a.Logger.Infof(ctx, "Report uploaded to s3://%s/%s", bucket, key)
	return nil
}

// defaultObjectKey derives an object key from the cloud snapshot file
// name when none is configured.
func defaultObjectKey(cloudPath string) string {
	stem := strings.TrimSuffix(filepath.Base(cloudPath), filepath.Ext(cloudPath))
	if stem == "" || stem == "." {
		stem = "report"
	}
	return fmt.Sprintf("iac-analysis-%s.json", stem)
}
