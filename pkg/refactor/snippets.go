package refactor

import (
	"strings"

	"github.com/alantheprice/recode/pkg/filesystem"
)

// StripCodeFences removes a surrounding markdown code fence from model
// output. Anything that is not a multi-line fenced block is returned trimmed
// but otherwise unchanged; the opening fence line is dropped entirely, so a
// language tag goes with it.
func StripCodeFences(text string) string {
	content := strings.TrimSpace(text)
	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 1 {
			return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}
	return content
}

// PostprocessSnippet guards against a model echoing the original snippet
// before the rewritten one. If the original appears inside the response, the
// part after its last occurrence is used when non-empty.
func PostprocessSnippet(original, updated string) string {
	updated = strings.TrimSpace(updated)
	originalStripped := strings.TrimSpace(original)

	if updated == originalStripped {
		return updated
	}

	if originalStripped != "" && strings.Contains(updated, originalStripped) {
		parts := strings.Split(updated, originalStripped)
		candidate := strings.TrimSpace(parts[len(parts)-1])
		if candidate != "" {
			return candidate
		}
	}

	return updated
}

// MergeSnippetBack splices a rewritten snippet over the 1-based inclusive
// line range [startLine, endLine] of the full file.
func MergeSnippetBack(allLines []string, startLine, endLine int, newSnippet string) []string {
	startLine, endLine = clampRange(startLine, endLine, len(allLines))
	newLines := filesystem.SplitLines(newSnippet)

	merged := make([]string, 0, len(allLines)-(endLine-startLine+1)+len(newLines))
	merged = append(merged, allLines[:startLine-1]...)
	merged = append(merged, newLines...)
	merged = append(merged, allLines[endLine:]...)
	return merged
}

// clampRange normalizes a 1-based inclusive range so the slice expressions
// [startLine-1:endLine] and [endLine:] stay in bounds; an out-of-range
// selection degrades to an empty span rather than an error.
func clampRange(startLine, endLine, lineCount int) (int, int) {
	if startLine < 1 {
		startLine = 1
	}
	if startLine > lineCount+1 {
		startLine = lineCount + 1
	}
	if endLine > lineCount {
		endLine = lineCount
	}
	if endLine < startLine-1 {
		endLine = startLine - 1
	}
	return startLine, endLine
}
