package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
	"remindkit/internal/storage"
)

func newExcludeCmd(app *App) *cobra.Command {
	var asDeleted bool

	cmd := &cobra.Command{
		Use:   "exclude <series-id> <original-date>",
		Short: "Remove one occurrence from a recurring series",
		Long: `Exclude one occurrence, identified by its original date. The occurrence
stops appearing in every expansion; any edit it carried becomes inert.
Exclusion wins over modification.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, key := args[0], args[1]
			if _, err := dates.Parse(key); err != nil {
				return fmt.Errorf("invalid original date %q: %w", key, err)
			}

			err := storage.UpdateSeries(cmd.Context(), app.store, id, func(s *remind.Series) error {
				if !s.IsRecurring() {
					return fmt.Errorf("series %s is not recurring", id)
				}
				if asDeleted {
					s.Repeat.MarkDeleted(key)
				} else {
					s.Repeat.Exclude(key)
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "excluded %s occurrence %s\n", id, key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asDeleted, "deleted", false, "record in the deletion table and drop completion state")
	return cmd
}
