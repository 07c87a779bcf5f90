package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for remindctl.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:   "remindctl",
		Short: "Manage reminders and recurring series",
		Long: `remindctl manages a reminder document: one-shot reminders and
recurring series with per-instance edits.

Recurring series are expanded on demand; completing, excluding, or editing
one occurrence never rewrites the rule, it lands in per-instance override
tables keyed by the occurrence's original date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "remindkit.yaml", "config file path")
	root.PersistentFlags().StringVar(&app.StorePath, "store", "", "override the configured store path")

	root.AddCommand(newAddCmd(app))
	root.AddCommand(newListCmd(app))
	root.AddCommand(newExpandCmd(app))
	root.AddCommand(newNextCmd(app))
	root.AddCommand(newCompleteCmd(app))
	root.AddCommand(newExcludeCmd(app))
	root.AddCommand(newEditCmd(app))
	root.AddCommand(newSplitCmd(app))
	root.AddCommand(newImportCmd(app))
	root.AddCommand(newDeleteCmd(app))

	return root
}
