package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/changetracker"
)

var rawLog bool

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print recorded changes or the verbose log",
	Long: `Displays every change recorded by recode, newest first, with its status,
description and a truncated diff. Use --raw-log to view the tail of the
verbose internal log file instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rawLog {
			return displayVerboseLog()
		}
		return changetracker.PrintRevisionHistory()
	},
}

func init() {
	logCmd.Flags().BoolVar(&rawLog, "raw-log", false, "Display the raw internal log file (.recode/workspace.log)")
	rootCmd.AddCommand(logCmd)
}

// displayVerboseLog prints the last lines of the verbose workspace log.
func displayVerboseLog() error {
	const logFilePath = ".recode/workspace.log"
	const maxLines = 200

	file, err := os.Open(logFilePath)
	if os.IsNotExist(err) {
		fmt.Printf("Verbose log file not found at %s. No log entries yet.\n", logFilePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open verbose log file %s: %w", logFilePath, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read verbose log file: %w", err)
	}

	if len(lines) == 0 {
		fmt.Println("Verbose log file is empty.")
		return nil
	}

	start := 0
	if len(lines) > maxLines {
		start = len(lines) - maxLines
	}
	fmt.Printf("Displaying last %d lines of %s (total %d lines):\n", len(lines)-start, logFilePath, len(lines))
	for _, line := range lines[start:] {
		fmt.Println(line)
	}
	return nil
}
