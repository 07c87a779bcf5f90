package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/engine"
	"remindkit/internal/storage"
)

func newSplitCmd(app *App) *cobra.Command {
	var (
		date      string
		timeOfDay string
		endDate   string
		endTime   string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "split <series-id> <pivot-date>",
		Short: "Split a recurring series at an occurrence",
		Long: `Apply edits from one occurrence onward by splitting the series in two:
the original keeps its history and stops the day before the pivot, a new
series starts at the pivot with fresh override tables.

Splitting at the series' first occurrence edits the series in place instead
of creating a second one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, pivot := args[0], args[1]
			if _, err := dates.Parse(pivot); err != nil {
				return fmt.Errorf("invalid pivot date %q: %w", pivot, err)
			}

			s, err := loadSeries(cmd, app, id)
			if err != nil {
				return err
			}

			res, err := app.engine.Split(s, pivot, engine.SplitEdits{
				Date:    date,
				Time:    timeOfDay,
				EndDate: endDate,
				EndTime: endTime,
				Title:   title,
			})
			if err != nil {
				return err
			}
			if err := storage.ApplySplit(cmd.Context(), app.store, res); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.New == nil {
				fmt.Fprintf(out, "edited %s in place (pivot is the series anchor)\n", res.Original.ID)
				return nil
			}
			fmt.Fprintf(out, "split %s: original ends %s, new series %s starts %s\n",
				res.Original.ID, res.Original.Repeat.EndDate, res.New.ID, res.New.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new start date for the detached series")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "new time of day")
	cmd.Flags().StringVar(&endDate, "end-date", "", "new end date")
	cmd.Flags().StringVar(&endTime, "end-time", "", "new end time")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	return cmd
}
