package ready

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/picturedesk/picturedesk/internal/conf"
	"github.com/picturedesk/picturedesk/internal/host"
)

// Command creates the ready command. It creates the sentinel file a running
// shell watches, signalling that the host window is ready.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ready",
		Short: "Signal host readiness to a running shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settings.Host.Sentinel
			if path == "" {
				return fmt.Errorf("no sentinel file configured, set host.sentinel or --sentinel")
			}
			if err := host.Touch(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "readiness signalled via %s\n", path)
			return nil
		},
	}

	return cmd
}
