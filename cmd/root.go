package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/driftaudit/iac-reconciler/internal/errors"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "iac-recon",
	Short: "Reconciles cloud resource snapshots against IaC declarations.",
	Long: `iac-recon compares a snapshot of actual cloud resources against the
resources declared in infrastructure-as-code, classifies each cloud
resource as Match, Modified, or Missing, and produces a field-level
change log of the drift it finds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userMsg, suggestion, known := apperrors.GetUserFacingMessage(err)
		if known {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
			if suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
			}
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .iac-recon.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Override log format (text, json)")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetEnvPrefix("RECON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".iac-recon")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
