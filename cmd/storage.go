package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftaudit/iac-reconciler/internal/adapters/storage/s3store"
	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	apperrors "github.com/driftaudit/iac-reconciler/internal/errors"
	"github.com/driftaudit/iac-reconciler/internal/log"
)

var (
	storageBucket   string
	storageKey      string
	storageEndpoint string
	storageRegion   string
	downloadOutput  string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download an analysis report from object storage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storageClient(cmd)
		if err != nil {
			return err
		}

		data, err := store.Download(cmd.Context(), storageBucket, storageKey)
		if err != nil {
			return err
		}

		if downloadOutput != "" {
			if err := os.WriteFile(downloadOutput, data, 0o644); err != nil {
				return apperrors.Wrap(err, apperrors.CodeReportWriteError, "failed to write downloaded report")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", downloadOutput)
			return nil
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List buckets available in object storage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storageClient(cmd)
		if err != nil {
			return err
		}

		names, err := store.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No buckets found")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func storageClient(cmd *cobra.Command) (ports.ObjectStore, error) {
	logger, err := log.NewLogger(log.DefaultConfig())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "logger initialization failed")
	}
	return s3store.NewClient(cmd.Context(), s3store.Config{
		Endpoint: storageEndpoint,
		Region:   storageRegion,
	}, logger)
}

func init() {
	downloadCmd.Flags().StringVarP(&storageBucket, "bucket", "b", "", "Bucket name")
	downloadCmd.Flags().StringVarP(&storageKey, "key", "k", "", "Object key")
	downloadCmd.Flags().StringVar(&storageEndpoint, "endpoint", "", "Alternate S3 endpoint (e.g. LocalStack)")
	downloadCmd.Flags().StringVar(&storageRegion, "region", "", "Bucket region")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "File path for the downloaded report")
	downloadCmd.MarkFlagRequired("bucket")
	downloadCmd.MarkFlagRequired("key")

	bucketsCmd.Flags().StringVar(&storageEndpoint, "endpoint", "", "Alternate S3 endpoint (e.g. LocalStack)")
	bucketsCmd.Flags().StringVar(&storageRegion, "region", "", "Bucket region")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(bucketsCmd)
}
