package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
	"github.com/alantheprice/recode/pkg/refactor"
)

var (
	refactorStart       int
	refactorEnd         int
	refactorKind        string
	refactorInstruction string
	refactorGlobal      string
	refactorDryRun      bool
)

var refactorCmd = &cobra.Command{
	Use:   "refactor [file]",
	Short: "Refactor a specific line range of one file",
	Long: `Rewrites only the selected line range of a file, guided by the refactor
kind and an optional instruction. The surrounding code is left untouched.

Examples:
  recode refactor app.py --start 10 --end 25 --kind performance
  recode refactor app.py --start 40 --instruction "inline this helper"
  recode refactor app.py --start 10 --end 25 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if refactorKind != "" && !isValidKind(refactorKind) {
			return fmt.Errorf("invalid refactor kind %q (valid kinds: %v)", refactorKind, refactor.ValidKinds())
		}

		app, err := newAppContext()
		if err != nil {
			return err
		}

		fields := map[string]interface{}{
			"path":       args[0],
			"start_line": refactorStart,
			"dry_run":    refactorDryRun,
		}
		if refactorEnd > 0 {
			fields["end_line"] = refactorEnd
		}
		if refactorKind != "" {
			fields["kind"] = refactorKind
		}
		if refactorInstruction != "" {
			fields["instruction"] = refactorInstruction
		}
		if refactorGlobal != "" {
			fields["global_instruction"] = refactorGlobal
		}

		spec := agent.NewSpec("refactor_partial", fields)
		request := fmt.Sprintf("refactor lines %d-%d of %s", spec.StartLine(), spec.EndLine(), args[0])
		return app.dispatcher.RunToolFromSpec(spec, request)
	},
}

func isValidKind(kind string) bool {
	for _, k := range refactor.ValidKinds() {
		if string(k) == kind {
			return true
		}
	}
	return false
}

func init() {
	refactorCmd.Flags().IntVar(&refactorStart, "start", 1, "First line of the range (1-based)")
	refactorCmd.Flags().IntVar(&refactorEnd, "end", 0, "Last line of the range, inclusive (defaults to --start)")
	refactorCmd.Flags().StringVar(&refactorKind, "kind", "", "Refactor kind: style, bugfix, performance, readability, cleanup or custom")
	refactorCmd.Flags().StringVar(&refactorInstruction, "instruction", "", "Instruction for this selection")
	refactorCmd.Flags().StringVar(&refactorGlobal, "global-instruction", "", "Instruction applying to the whole request")
	refactorCmd.Flags().BoolVar(&refactorDryRun, "dry-run", false, "Preview the diff without writing the file")
	rootCmd.AddCommand(refactorCmd)
}
