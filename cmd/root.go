package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picturedesk/picturedesk/cmd/icons"
	"github.com/picturedesk/picturedesk/cmd/ready"
	"github.com/picturedesk/picturedesk/cmd/run"
	"github.com/picturedesk/picturedesk/cmd/urls"
	"github.com/picturedesk/picturedesk/internal/buildinfo"
	"github.com/picturedesk/picturedesk/internal/conf"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "picturedesk",
		Short:         "picturedesk gallery shell",
		Long:          "Bootstraps the picturedesk gallery UI and mounts it once the host window signals readiness.",
		Version:       buildinfo.Current().String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		run.Command(settings),
		urls.Command(settings),
		icons.Command(settings),
		ready.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(settings)
	}

	return rootCmd
}

// initialize applies flag overrides that need more than a direct field
// assignment and re-validates the merged settings.
func initialize(settings *conf.Settings) error {
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}
	return conf.ValidateSettings(settings)
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.API.BaseURL, "api", settings.API.BaseURL, "Base address of the gallery API")
	rootCmd.PersistentFlags().StringVar(&settings.Main.DataDir, "datadir", settings.Main.DataDir, "Directory for generated files")
	rootCmd.PersistentFlags().StringVar(&settings.Host.Sentinel, "sentinel", settings.Host.Sentinel, "Sentinel file whose creation signals host readiness")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
