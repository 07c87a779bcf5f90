package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		date       string
		timeOfDay  string
		endDate    string
		endTime    string
		note       string
		priority   string
		repeatType string
		interval   int
		repeatEnd  string
		count      int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a reminder",
		Long: `Add a one-shot reminder, or a recurring series when --repeat is given.

Examples:
  remindctl add "水电费" --date 2026-09-05
  remindctl add "站会" --date 2026-09-07 --time 09:30 --repeat weekly
  remindctl add "房租" --date 2026-09-01 --repeat monthly --until 2027-08-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = dates.Format(time.Now())
			}
			if _, err := dates.Parse(date); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			if endDate != "" {
				if _, err := dates.Parse(endDate); err != nil {
					return fmt.Errorf("invalid --end-date: %w", err)
				}
				if dates.Compare(endDate, date) < 0 {
					return fmt.Errorf("--end-date %s precedes --date %s", endDate, date)
				}
			}

			s := &remind.Series{
				ID:        uuid.NewString(),
				Title:     args[0],
				Note:      note,
				Priority:  priority,
				Date:      date,
				Time:      timeOfDay,
				EndDate:   endDate,
				EndTime:   endTime,
				CreatedAt: time.Now().Format(time.RFC3339),
			}

			if repeatType != "" {
				rule, err := buildRepeatRule(repeatType, interval, repeatEnd, count)
				if err != nil {
					return err
				}
				s.Repeat = rule
			}

			ctx := cmd.Context()
			doc, err := app.store.Load(ctx)
			if err != nil {
				return err
			}
			doc[s.ID] = s
			if err := app.store.Save(ctx, doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", s.Title, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of day HH:MM")
	cmd.Flags().StringVar(&endDate, "end-date", "", "inclusive end date for multi-day reminders")
	cmd.Flags().StringVar(&endTime, "end-time", "", "end time HH:MM")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&priority, "priority", "", "priority: high, medium, low")
	cmd.Flags().StringVar(&repeatType, "repeat", "", "repeat type: daily, weekly, monthly, yearly, lunar-monthly, lunar-yearly, ebbinghaus")
	cmd.Flags().IntVar(&interval, "interval", 1, "repeat every N steps")
	cmd.Flags().StringVar(&repeatEnd, "until", "", "last date the series may produce an occurrence")
	cmd.Flags().IntVar(&count, "count", 0, "stop after N occurrences")

	return cmd
}

func buildRepeatRule(repeatType string, interval int, until string, count int) (*remind.RepeatRule, error) {
	t := remind.RepeatType(repeatType)
	switch t {
	case remind.RepeatDaily, remind.RepeatWeekly, remind.RepeatMonthly,
		remind.RepeatYearly, remind.RepeatLunarMonthly, remind.RepeatLunarYearly,
		remind.RepeatCustom, remind.RepeatEbbinghaus:
	default:
		return nil, fmt.Errorf("unknown repeat type %q", repeatType)
	}

	rule := &remind.RepeatRule{Enabled: true, Type: t}
	if interval > 1 {
		rule.Interval = interval
	}
	if until != "" {
		if _, err := dates.Parse(until); err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		rule.EndDate = until
	}
	if count > 0 {
		rule.EndCount = count
	}
	return rule, nil
}
