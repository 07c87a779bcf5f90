package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

func newExpandCmd(app *App) *cobra.Command {
	var (
		from   string
		to     string
		max    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "expand <series-id>",
		Short: "Expand a recurring series into resolved instances",
		Long: `Expand a recurring series within a date window and print the resolved
instances: rule occurrences minus exclusions, plus per-instance edits,
including occurrences edited into the window from outside it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSeries(cmd, app, args[0])
			if err != nil {
				return err
			}

			if from == "" || to == "" {
				now := time.Now()
				defFrom, defTo := dates.MonthWindow(now, 2)
				if from == "" {
					from = defFrom
				}
				if to == "" {
					to = defTo
				}
			}
			if max <= 0 {
				max = app.cfg.MaxInstances
			}

			instances, err := app.engine.ExpandResolved(s, from, to, max)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(instances)
			}
			if len(instances) == 0 {
				fmt.Fprintf(out, "no instances in %s .. %s\n", from, to)
				return nil
			}
			for _, inst := range instances {
				printInstance(out, inst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "window end YYYY-MM-DD (inclusive)")
	cmd.Flags().IntVar(&max, "max", 0, "cap on produced instances (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

func loadSeries(cmd *cobra.Command, app *App, id string) (*remind.Series, error) {
	doc, err := app.store.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	s, ok := doc[id]
	if !ok {
		return nil, fmt.Errorf("series %s not found", id)
	}
	return s, nil
}

func printInstance(out io.Writer, inst remind.Instance) {
	done := " "
	if inst.Completed {
		done = "x"
	}
	when := inst.Date
	if inst.Time != "" {
		when += " " + inst.Time
	}
	tag := ""
	if inst.Kind == remind.KindEdited {
		tag = "  (edited in)"
	}
	fmt.Fprintf(out, "[%s] %-16s  %s  (origin %s)%s\n", done, when, inst.Title, inst.Key.OriginalKey, tag)
}
