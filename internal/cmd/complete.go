package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
	"remindkit/internal/storage"
)

func newCompleteCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <series-id> [original-date]",
		Short: "Mark a reminder or one occurrence as done",
		Long: `Mark a one-shot reminder done, or one occurrence of a recurring series.

For recurring series the second argument is the occurrence's original date,
the date rule expansion assigned before any edit. Completing one occurrence
never touches the rule or the other occurrences.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			err := storage.UpdateSeries(cmd.Context(), app.store, id, func(s *remind.Series) error {
				if len(args) == 1 {
					if s.IsRecurring() {
						return fmt.Errorf("series %s is recurring, pass the occurrence's original date", id)
					}
					s.Completed = !undo
					return nil
				}

				key := args[1]
				if _, err := dates.Parse(key); err != nil {
					return fmt.Errorf("invalid original date %q: %w", key, err)
				}
				if !s.IsRecurring() {
					return fmt.Errorf("series %s is not recurring", id)
				}
				completedAt := ""
				if !undo {
					completedAt = time.Now().Format(time.RFC3339)
				}
				s.Repeat.SetCompleted(key, !undo, completedAt)
				return nil
			})
			if err != nil {
				return err
			}

			verb := "completed"
			if undo {
				verb = "reopened"
			}
			if len(args) == 2 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s occurrence %s\n", verb, id, args[1])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "clear the completion instead of setting it")
	return cmd
}
