package urls

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picturedesk/picturedesk/internal/apiurl"
	"github.com/picturedesk/picturedesk/internal/conf"
)

// Command creates the urls command, which prints the gallery API endpoints.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		id   int64
		path string
	)

	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Print the gallery API endpoint URLs",
		Long: "Without flags the endpoint templates are printed. With --id or --path the " +
			"endpoints are resolved for that image.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := apiurl.New(settings.API.BaseURL)
			out := cmd.OutOrStdout()

			if !cmd.Flags().Changed("id") && !cmd.Flags().Changed("path") {
				return printTemplates(out, b)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			if cmd.Flags().Changed("id") {
				s := apiurl.ID(id)
				fmt.Fprintf(tw, "%s\t%s\n", apiurl.Thumbnail, b.Thumbnail(s))
				fmt.Fprintf(tw, "%s\t%s\n", apiurl.Image, b.Image(s))
				fmt.Fprintf(tw, "%s\t%s\n", apiurl.ImageDetails, b.ImageDetails(s))
				fmt.Fprintf(tw, "%s\t%s\n", apiurl.ImageFilePath, b.ImageFilePath(s))
			}
			if cmd.Flags().Changed("path") {
				fmt.Fprintf(tw, "%s\t%s\n", apiurl.ImagePath, b.ImagePath(path))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Image identifier")
	cmd.Flags().StringVar(&path, "path", "", "Image file path")

	return cmd
}

func printTemplates(w io.Writer, b *apiurl.Builder) error {
	templates := b.Templates()
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "base\t%s\n", b.Base())
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, templates[name])
	}
	return tw.Flush()
}
