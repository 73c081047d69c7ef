package changetracker

import (
	"strings"
	"time"

	"github.com/alantheprice/recode/pkg/ui"
	"github.com/fatih/color"
)

// PrintRevisionHistory lists every recorded change, most recent first, with
// its status, description and a truncated diff.
func PrintRevisionHistory() error {
	changes, err := ListChanges()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		ui.Out().Print("No changes recorded.\n")
		return nil
	}

	for _, change := range changes {
		ui.Out().Print(strings.Repeat("-", 80) + "\n")
		ui.Out().Print(color.YellowString("(%s)", change.Filename))
		ui.Out().Printf(" -- %s%s%s", BoldStyle, change.FileRevisionHash, ResetColor)
		if change.Status == activeStatus {
			ui.Out().Print(color.GreenString(" - %s\n", change.Status))
		} else {
			ui.Out().Printf(" - \033[2m%s\033[0m\n", change.Status)
		}
		ui.Out().Printf("%sTime:%s %s\n\n", BoldStyle, ResetColor, change.Timestamp.Format(time.RFC1123))
		if change.Description != "" {
			ui.Out().Print(wrapAndIndent(change.Description, 72, 4) + "\n\n")
		}

		diff := GetDiff(change.Filename, change.OriginalCode, change.NewCode)
		diffLines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
		if len(diffLines) > 5 {
			for _, line := range diffLines[:5] {
				ui.Out().Print(line + "\n")
			}
			ui.Out().Print("...\n")
		} else {
			for _, line := range diffLines {
				ui.Out().Print(line + "\n")
			}
		}
	}

	return nil
}

// wrapAndIndent wraps text at the given width and indents every line.
func wrapAndIndent(text string, width, indentSpaces int) string {
	indent := strings.Repeat(" ", indentSpaces)
	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0
	result.WriteString(indent)
	for i, word := range words {
		if lineLen+len(word)+1 > width {
			result.WriteString("\n" + indent)
			lineLen = 0
		} else if i != 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += len(word)
	}
	return result.String()
}
