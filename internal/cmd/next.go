package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newNextCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "next <series-id>",
		Short: "Find the next uncompleted future occurrence",
		Long: `Search forward from today for the series' next uncompleted occurrence,
widening the search window until one is found or the attempt limit is hit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSeries(cmd, app, args[0])
			if err != nil {
				return err
			}
			if !s.IsRecurring() {
				return fmt.Errorf("series %s is not recurring", s.ID)
			}

			today := app.cfg.LogicalToday(time.Now())
			raws, err := app.engine.FindFutureUncompleted(s, today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := false
			for _, raw := range raws {
				if raw.Date <= today || s.Repeat.IsCompleted(raw.Key.OriginalKey) {
					continue
				}
				printInstance(out, app.engine.Resolve(s, raw))
				found = true
				if !all {
					break
				}
			}
			if !found {
				fmt.Fprintln(out, "no future uncompleted occurrence found")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print every occurrence the search produced, not just the first")
	return cmd
}
