package run

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picturedesk/picturedesk/internal/bootstrap"
	"github.com/picturedesk/picturedesk/internal/buildinfo"
	"github.com/picturedesk/picturedesk/internal/conf"
)

// Command creates the run command, which bootstraps the UI and waits for the host.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the UI and mount it when the host is ready",
		Long: "Installs the UI plugins, waits for the host readiness signal " +
			"(sentinel file, SIGUSR1 or the legacy pywebview event) and writes the mounted document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("metrics-textfile") {
				settings.Metrics.Enabled = settings.Metrics.Textfile != ""
			}

			shell, err := bootstrap.Init(settings, bootstrap.Deps{
				Release: buildinfo.Current().Release(),
			})
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			return shell.Run(cmd.Context())
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the run command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.UI.Target, "target", settings.UI.Target, "DOM anchor selector to mount into")
	cmd.Flags().StringVar(&settings.UI.Output, "output", settings.UI.Output, "Path of the mounted document")
	cmd.Flags().StringVar(&settings.Host.ReadyEvent, "event", settings.Host.ReadyEvent, "Readiness event name")
	cmd.Flags().BoolVar(&settings.Host.Signal, "signal", settings.Host.Signal, "Treat SIGUSR1 as host readiness")
	cmd.Flags().BoolVar(&settings.UI.Icons.Enabled, "icons", settings.UI.Icons.Enabled, "Install the icon component")
	cmd.Flags().StringVar(&settings.Metrics.Textfile, "metrics-textfile", settings.Metrics.Textfile, "Write Prometheus metrics to this file on exit")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
