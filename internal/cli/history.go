package cli

import (
	"fmt"
	"slices"

	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/spf13/cobra"
)

func newHistoryCommand(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reviews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative")
			}
			return app.withService(cmd, func(svc *services.GenerationService) error {
				records := slices.Clone(svc.History(cmd.Context()))
				slices.Reverse(records)
				if limit > 0 && limit < len(records) {
					records = records[:limit]
				}

				if len(records) == 0 {
					fmt.Fprintln(app.Out, "No reviews saved yet.")
					return nil
				}
				for i, rec := range records {
					fmt.Fprintf(app.Out, "[%d] %s  %s (%s) %d★  %s\n", i, rec.Timestamp, rec.BusinessName, rec.Category, rec.StarRating, rec.Language)
					fmt.Fprintf(app.Out, "    %s\n", rec.Review)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of reviews to show (0 for all)")
	return cmd
}
