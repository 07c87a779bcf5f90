package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
	"remindkit/internal/storage"
)

func newEditCmd(app *App) *cobra.Command {
	var (
		date      string
		timeOfDay string
		endDate   string
		endTime   string
		title     string
		note      string
		priority  string
		clear     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <series-id> <original-date>",
		Short: "Edit one occurrence of a recurring series",
		Long: `Override fields of a single occurrence without touching the rule. The
occurrence is always addressed by its original date, even after its display
date has been moved; repeated edits land on the same override entry.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, key := args[0], args[1]
			if _, err := dates.Parse(key); err != nil {
				return fmt.Errorf("invalid original date %q: %w", key, err)
			}
			if date != "" {
				if _, err := dates.Parse(date); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			err := storage.UpdateSeries(cmd.Context(), app.store, id, func(s *remind.Series) error {
				if !s.IsRecurring() {
					return fmt.Errorf("series %s is not recurring", id)
				}
				if clear {
					delete(s.Repeat.InstanceModifications, key)
					return nil
				}

				mod, _ := s.Repeat.Modification(key)
				if date != "" {
					mod.Date = date
				}
				if timeOfDay != "" {
					mod.Time = timeOfDay
				}
				if endDate != "" {
					mod.EndDate = endDate
				}
				if endTime != "" {
					mod.EndTime = endTime
				}
				if title != "" {
					mod.Title = title
				}
				if note != "" {
					mod.Note = note
				}
				if priority != "" {
					mod.Priority = priority
				}
				mod.ModifiedAt = time.Now().Format(time.RFC3339)
				s.Repeat.SetModification(key, mod)
				return nil
			})
			if err != nil {
				return err
			}

			if clear {
				fmt.Fprintf(cmd.OutOrStdout(), "cleared edits on %s occurrence %s\n", id, key)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "edited %s occurrence %s\n", id, key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "move the occurrence to this date")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "override the time of day")
	cmd.Flags().StringVar(&endDate, "end-date", "", "override the end date")
	cmd.Flags().StringVar(&endTime, "end-time", "", "override the end time")
	cmd.Flags().StringVar(&title, "title", "", "override the title")
	cmd.Flags().StringVar(&note, "note", "", "override the note")
	cmd.Flags().StringVar(&priority, "priority", "", "override the priority")
	cmd.Flags().BoolVar(&clear, "clear", false, "drop the override entry entirely")
	return cmd
}
