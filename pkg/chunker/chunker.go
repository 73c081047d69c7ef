// Package chunker splits large text into model-sized chunks. Character chunks
// overlap so context is not cut mid-thought; line chunks carry the 1-based
// line number they start at so results can be mapped back to the source.
package chunker

import (
	"errors"
	"strings"
)

// LineChunk is a chunk of text together with the 1-based line number of its
// first line in the original text.
type LineChunk struct {
	StartLine int
	Text      string
}

// ChunkByChars splits text into chunks of at most maxChars characters.
// Consecutive chunks share an overlap of up to overlap characters so context
// does not break cleanly at chunk boundaries. Text that already fits is
// returned as a single chunk, including empty text.
func ChunkByChars(text string, maxChars, overlap int) ([]string, error) {
	if maxChars <= 0 {
		return nil, errors.New("max_chars must be > 0")
	}
	if overlap < 0 {
		return nil, errors.New("overlap must be >= 0")
	}
	if overlap >= maxChars {
		return nil, errors.New("overlap must be < max_chars")
	}

	runes := []rune(text)
	length := len(runes)
	if length <= maxChars {
		return []string{text}, nil
	}

	var chunks []string
	start := 0

	for start < length {
		end := start + maxChars
		sliceEnd := end
		if sliceEnd > length {
			sliceEnd = length
		}
		chunks = append(chunks, string(runes[start:sliceEnd]))

		if end >= length {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}

	return chunks, nil
}

// ChunkWithLineInfo splits text like ChunkByChars but works on whole lines and
// records where each chunk starts. Overlap is converted to a line count
// assuming roughly ten characters per line. A single line longer than maxChars
// still becomes its own chunk.
func ChunkWithLineInfo(text string, maxChars, overlap int) []LineChunk {
	lines := splitAfterNewlines(text)

	var currentChunkLines []string
	currentLen := 0
	currentStartLine := 1
	var result []LineChunk

	lineIndex := 0
	totalLines := len(lines)

	for lineIndex < totalLines {
		line := lines[lineIndex]
		lineLen := len([]rune(line))

		if currentLen+lineLen <= maxChars || len(currentChunkLines) == 0 {
			currentChunkLines = append(currentChunkLines, line)
			currentLen += lineLen
			lineIndex++
			continue
		}

		result = append(result, LineChunk{
			StartLine: currentStartLine,
			Text:      strings.Join(currentChunkLines, ""),
		})

		// Step back by the overlap lines so the next chunk repeats the tail
		// of this one.
		overlapLines := overlap / 10
		if overlapLines > len(currentChunkLines) {
			overlapLines = len(currentChunkLines)
		}
		if overlapLines < 0 {
			overlapLines = 0
		}
		if overlapLines > 0 {
			retained := append([]string(nil), currentChunkLines[len(currentChunkLines)-overlapLines:]...)
			retainedLen := 0
			for _, l := range retained {
				retainedLen += len([]rune(l))
			}
			// The retained tail must leave room for the pending line, or the
			// loop would flush the same tail forever.
			if retainedLen+lineLen > maxChars {
				currentChunkLines = nil
				currentLen = 0
				currentStartLine = lineIndex + 1
				continue
			}
			currentChunkLines = retained
			currentLen = retainedLen
			if next := currentStartLine + len(currentChunkLines) - overlapLines; next > 1 {
				currentStartLine = next
			} else {
				currentStartLine = 1
			}
		} else {
			currentChunkLines = nil
			currentLen = 0
			currentStartLine = lineIndex + 1
		}
	}

	if len(currentChunkLines) > 0 {
		result = append(result, LineChunk{
			StartLine: currentStartLine,
			Text:      strings.Join(currentChunkLines, ""),
		})
	}

	return result
}

// splitAfterNewlines splits text into lines that keep their trailing newline.
// The empty tail produced when the text ends in a newline is dropped.
func splitAfterNewlines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
