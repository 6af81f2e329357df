package icons

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picturedesk/picturedesk/internal/conf"
	"github.com/picturedesk/picturedesk/internal/icons"
)

// Command creates the icons command, which lists the icons the icon component
// would register: the default set plus configured packs.
func Command(settings *conf.Settings) *cobra.Command {
	var packs []string

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List the registered icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := icons.NewRegistry()
			if err := r.AddAll(icons.DefaultSet()...); err != nil {
				return err
			}
			if !cmd.Flags().Changed("pack") {
				packs = settings.UI.Icons.Packs
			}
			if _, err := icons.LoadPacks(r, packs...); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range r.Keys() {
				def, _ := r.Lookup(key)
				fmt.Fprintf(tw, "%s\t%s\n", key, def.Codepoint)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&packs, "pack", nil, "Icon pack file to include (repeatable)")

	return cmd
}
