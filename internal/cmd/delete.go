package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remindkit/internal/storage"
)

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <series-id>",
		Short: "Delete a whole series",
		Long: `Delete a series and all of its override tables. To remove a single
occurrence of a recurring series, use exclude instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.DeleteSeries(cmd.Context(), app.store, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
