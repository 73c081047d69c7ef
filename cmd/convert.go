package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
	"github.com/alantheprice/recode/pkg/converter"
	"github.com/alantheprice/recode/pkg/filediscovery"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/ui"
)

var (
	convertFrom  string
	convertTo    string
	convertStack string
	convertScope string
)

var convertCmd = &cobra.Command{
	Use:   "convert [path]",
	Short: "Convert a file or project to another language",
	Long: `Converts source code to another language. A single file is replaced in
place (after confirmation); a project is written to a sibling directory
named <project>_converted_to_<language>, one confirmed file at a time.

Examples:
  recode convert app.py --from python --to go
  recode convert ./service --from python --to typescript --stack "Node with express"
  recode convert ./service --from java --to kotlin --scope project`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		if convertFrom == "" {
			root := args[0]
			if info, err := os.Stat(root); err == nil && !info.IsDir() {
				root = filepath.Dir(root)
			}
			if detected := filediscovery.DetectProjectType(root); detected != "unknown" {
				convertFrom = detected
				ui.Out().Printf("No source language given, detected %s from project markers.\n", detected)
			}
		}

		srcName := converter.NormalizeLanguageName(convertFrom)
		tgtName := converter.NormalizeLanguageName(convertTo)
		if srcName != "" && tgtName != "" {
			ui.Out().Print(prompts.ConversionHeader(srcName, tgtName) + "\n")
		}

		spec := agent.NewSpec("convert_language", map[string]interface{}{
			"path":              args[0],
			"src_lang":          convertFrom,
			"tgt_lang":          convertTo,
			"target_stack_desc": convertStack,
			"scope":             convertScope,
		})
		request := fmt.Sprintf("convert %s from %s to %s", args[0], convertFrom, convertTo)
		return app.dispatcher.RunToolFromSpec(spec, request)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "Source language")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target language")
	convertCmd.Flags().StringVar(&convertStack, "stack", "", "Description of the target stack and libraries")
	convertCmd.Flags().StringVar(&convertScope, "scope", "auto", "Conversion scope: auto, file or project")
	rootCmd.AddCommand(convertCmd)
}
