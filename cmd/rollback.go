package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/changetracker"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/ui"
)

var rollbackRestore bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback [change-hash]",
	Short: "Revert a recorded change by its hash",
	Long: `Reverts a change recorded by recode, restoring the file to its previous
content. Without a hash the recorded changes are listed. A reverted change
can be re-applied with --restore.

Examples:
  recode rollback                   # list recorded changes
  recode rollback a1b2c3d4          # revert the change with that hash
  recode rollback a1b2c3d4 --restore`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := changetracker.ListChanges()
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			ui.Out().Print(prompts.NoRecordedChanges() + "\n")
			return nil
		}

		if len(args) == 0 {
			return changetracker.PrintRevisionHistory()
		}

		hash := args[0]
		if rollbackRestore {
			if err := changetracker.RestoreChange(hash); err != nil {
				return err
			}
			ui.Out().Print(prompts.RevisionRestored(hash) + "\n")
			return nil
		}

		if err := changetracker.RevertChange(hash); err != nil {
			return err
		}
		ui.Out().Print(prompts.RevisionReverted(hash) + "\n")
		return nil
	},
}

func init() {
	rollbackCmd.Flags().BoolVar(&rollbackRestore, "restore", false, "Re-apply a previously reverted change")
	rootCmd.AddCommand(rollbackCmd)
}
