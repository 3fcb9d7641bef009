package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Conceptual-Machines/review-generator/internal/export"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/spf13/cobra"
)

func newExportCommand(app *App) *cobra.Command {
	var indices, output, formatName string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved reviews as CSV or PDF",
		Long:  "Export saved reviews as CSV or a PDF report. --indices selects rows by their position in the history listing (0 is the newest).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			selected, err := export.ParseIndices(indices)
			if err != nil {
				return err
			}
			return app.withService(cmd, func(svc *services.GenerationService) error {
				records, err := export.Select(svc.History(cmd.Context()), selected)
				if err != nil {
					return err
				}

				var w io.Writer = app.Out
				if output != "" {
					if output == "auto" {
						output = export.Filename(app.Now(), format)
					}
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}

				if err := export.Write(w, format, records, app.Now()); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(app.ErrOut, "Exported %d reviews to %s\n", len(records), output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&indices, "indices", "", "comma separated positions to export, e.g. 0,2")
	cmd.Flags().StringVar(&formatName, "format", string(export.FormatCSV), "export format: csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", `file to write; "auto" picks reviews_<timestamp>.<format> (default stdout)`)
	return cmd
}
