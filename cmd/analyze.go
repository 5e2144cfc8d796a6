package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftaudit/iac-reconciler/internal/app"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a cloud snapshot against an IaC snapshot.",
	Long: `Analyze loads a cloud resource snapshot and an IaC resource snapshot,
matches and diffs them, and reports the classification per resource.
The report can be written to a file and uploaded to an S3-compatible
bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}
		return application.Run(cmd.Context())
	},
}

func init() {
	analyzeCmd.Flags().String("cloud", "", "Path to the cloud resources snapshot")
	analyzeCmd.Flags().String("iac", "", "Path to the IaC resources snapshot")
	analyzeCmd.Flags().String("cloud-format", "", "Cloud snapshot format (json, tfstate)")
	analyzeCmd.Flags().String("iac-format", "", "IaC snapshot format (json, tfstate)")
	analyzeCmd.Flags().StringP("output", "o", "", "File path for the JSON report")
	analyzeCmd.Flags().String("reporter", "", "Stdout reporter type (text, json)")
	analyzeCmd.Flags().String("upload-bucket", "", "Bucket to upload the report to")
	analyzeCmd.Flags().String("object-key", "", "Object key for the uploaded report")
	analyzeCmd.Flags().String("endpoint", "", "Alternate S3 endpoint (e.g. LocalStack)")
	analyzeCmd.Flags().Int("concurrency", 0, "Number of concurrent reconciliation workers")

	viper.BindPFlag("snapshots.cloud.path", analyzeCmd.Flags().Lookup("cloud"))
	viper.BindPFlag("snapshots.iac.path", analyzeCmd.Flags().Lookup("iac"))
	viper.BindPFlag("snapshots.cloud.format", analyzeCmd.Flags().Lookup("cloud-format"))
	viper.BindPFlag("snapshots.iac.format", analyzeCmd.Flags().Lookup("iac-format"))
	viper.BindPFlag("settings.reporter_config.json.output_path", analyzeCmd.Flags().Lookup("output"))
	viper.BindPFlag("settings.reporter", analyzeCmd.Flags().Lookup("reporter"))
	viper.BindPFlag("storage.bucket", analyzeCmd.Flags().Lookup("upload-bucket"))
	viper.BindPFlag("storage.key", analyzeCmd.Flags().Lookup("object-key"))
	viper.BindPFlag("storage.endpoint", analyzeCmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("settings.concurrency", analyzeCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(analyzeCmd)
}
