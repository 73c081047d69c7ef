package changetracker

import (
	"fmt"
	"strings"

	"github.com/alantheprice/recode/pkg/ui"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ANSI codes used for terminal diff rendering.
const (
	RedColor    = "\x1b[31m"
	GreenColor  = "\x1b[32m"
	YellowColor = "\x1b[33m"
	BoldStyle   = "\x1b[1m"
	ResetColor  = "\x1b[0m"

	numberOfContextLines = 3
)

// GenerateUnifiedDiff renders a plain unified diff between two versions of a
// file with three lines of context. Identical inputs yield an empty string.
func GenerateUnifiedDiff(original, updated, path string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: path,
		ToFile:   path,
		Context:  numberOfContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to generate diff for %s: %w", path, err)
	}
	return text, nil
}

// GetDiff renders a colored terminal diff: a stats header with the filename
// and character counts, then the unified diff with deletions in red and
// insertions in green. Identical inputs yield an empty string.
func GetDiff(filename, originalCode, newCode string) string {
	unified, err := GenerateUnifiedDiff(originalCode, newCode, filename)
	if err != nil || unified == "" {
		return ""
	}

	var result strings.Builder

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(originalCode, newCode, true)
	result.WriteString(getStatsFromDiff(diffs, filename))

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			result.WriteString(RedColor + line + ResetColor + "\n")
		case strings.HasPrefix(line, "+"):
			result.WriteString(GreenColor + line + ResetColor + "\n")
		default:
			result.WriteString(line + "\n")
		}
	}

	return result.String()
}

// PrintDiff writes the colored diff to the UI sink, or a short notice when
// the two versions are identical.
func PrintDiff(filename, originalCode, newCode string) {
	diff := GetDiff(filename, originalCode, newCode)
	if diff == "" {
		ui.Out().Print("No changes detected.\n")
		return
	}
	ui.Out().Print(diff)
}

func getStatsFromDiff(diffs []diffmatchpatch.Diff, filename string) string {
	var result strings.Builder
	additions, deletions := calculateChanges(diffs)
	result.WriteString(fmt.Sprintf("%s%s%s%s ", BoldStyle, YellowColor, filename, ResetColor))
	if additions > 0 {
		result.WriteString(fmt.Sprintf("%s%s+++%d%s ", BoldStyle, GreenColor, additions, ResetColor))
	}
	if deletions > 0 {
		result.WriteString(fmt.Sprintf("%s%s---%d%s", BoldStyle, RedColor, deletions, ResetColor))
	}
	result.WriteString("\n")
	return result.String()
}

// calculateChanges sums inserted and deleted character counts across the diff.
func calculateChanges(diffs []diffmatchpatch.Diff) (additions, deletions int) {
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			additions += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			deletions += len(diff.Text)
		}
	}
	return
}
