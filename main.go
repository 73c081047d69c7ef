package main

import (
	"os"

	"github.com/alantheprice/recode/cmd"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/ui"
	"github.com/alantheprice/recode/pkg/utils"
)

func main() {
	if err := os.MkdirAll(".recode", 0o755); err != nil {
		ui.Out().Print(prompts.RecodeDirCreationError(err) + "\n")
		os.Exit(1)
	}

	logger := utils.GetLogger(false)
	// Flush buffered log output before exiting.
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.LogError(err)
		ui.Out().Print(prompts.FatalError(err) + "\n")
		os.Exit(1)
	}
}
