package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"remindkit/internal/remind"
)

func newListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all series in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.store.Load(cmd.Context())
			if err != nil {
				return err
			}

			series := make([]*remind.Series, 0, len(doc))
			for _, s := range doc {
				series = append(series, s)
			}
			sort.Slice(series, func(i, j int) bool {
				if series[i].Date != series[j].Date {
					return series[i].Date < series[j].Date
				}
				return series[i].ID < series[j].ID
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(series)
			}

			if len(series) == 0 {
				fmt.Fprintln(out, "no reminders")
				return nil
			}
			for _, s := range series {
				repeat := "once"
				if s.IsRecurring() {
					repeat = string(s.Repeat.Type)
				}
				done := " "
				if s.Completed {
					done = "x"
				}
				fmt.Fprintf(out, "[%s] %s  %-10s  %-13s  %s\n", done, s.ID, s.Date, repeat, s.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}
