package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrNotUTF8 marks files whose bytes are not valid UTF-8. Callers walking a
// tree use errors.Is to skip binary files instead of failing.
var ErrNotUTF8 = errors.New("file is not valid UTF-8 text")

// FileExists checks if a file exists at the given path
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// ReadFileSafe reads a file as UTF-8 text. Missing paths and directories
// return a not-found error; binary content returns ErrNotUTF8.
func ReadFileSafe(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read file %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, path)
	}
	return string(data), nil
}

// SplitLines splits content into lines without trailing newlines. A trailing
// newline does not produce an empty final line, and empty content produces no
// lines at all.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines joins lines with newlines and terminates the result with one.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// ReadFileLines reads a file and returns its lines per SplitLines.
func ReadFileLines(path string) ([]string, error) {
	content, err := ReadFileSafe(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(content), nil
}

// WriteFileLines writes lines back to a file with a trailing newline.
func WriteFileLines(path string, lines []string) error {
	return SaveFile(path, JoinLines(lines))
}

// SaveFile writes content to a file, creating parent directories as needed.
// When the target already uses CRLF line endings, the content is normalized
// to match.
func SaveFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}

	normalized := []byte(content)
	if b, err := os.ReadFile(filename); err == nil {
		if bytes.Contains(b, []byte("\r\n")) {
			normalized = bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n"))
		}
	}
	if err := os.WriteFile(filename, normalized, 0644); err != nil {
		return fmt.Errorf("could not write file %s: %w", filename, err)
	}
	return nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
