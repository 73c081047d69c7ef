package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateRequestHash generates a SHA256 hash for a given set of instructions.
func GenerateRequestHash(instructions string) string {
	hash := sha256.Sum256([]byte(instructions))
	return hex.EncodeToString(hash[:])
}

// GenerateFileRevisionHash generates a SHA256 hash for a file based on its name and content.
func GenerateFileRevisionHash(filename, code string) string {
	data := []byte(filename + ":" + code)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetTimestamp returns a formatted timestamp string suitable for filenames.
func GetTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}

// sanitizeTimestamp converts a timestamp string into a filename-safe format.
func sanitizeTimestamp(timestamp string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(timestamp, " ", "_"), ":", "-"), ".", "")
}

// CreateBackup creates a timestamped backup of a file under .recode/backups.
// A missing file is not an error, there is simply nothing to back up.
func CreateBackup(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			GetLogger(true).Log(fmt.Sprintf("File '%s' does not exist, no backup created.", filePath))
			return nil
		}
		return fmt.Errorf("failed to read file '%s' for backup: %w", filePath, err)
	}

	backupDir := ".recode/backups"
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory '%s': %w", backupDir, err)
	}

	baseFilename := filepath.Base(filePath)
	timestamp := sanitizeTimestamp(GetTimestamp())
	backupPath := filepath.Join(backupDir, fmt.Sprintf("%s_%s.bak", baseFilename, timestamp))

	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return fmt.Errorf("failed to save backup file '%s': %w", backupPath, err)
	}

	GetLogger(true).Log(fmt.Sprintf("Created backup of '%s' at '%s'", filePath, backupPath))
	return nil
}

// EstimateTokens provides a rough estimate of the number of tokens in a given text.
// A common heuristic is 4 characters per token for English text.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// CapitalizeWords capitalizes the first letter of each word in a string.
func CapitalizeWords(s string) string {
	// strings.Title is deprecated; use golang.org/x/text/cases instead.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// FormatFileSize converts a file size in bytes to a human-readable string.
func FormatFileSize(size int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case size < KB:
		return fmt.Sprintf("%d B", size)
	case size < MB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	case size < GB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	}
}

// TruncateString truncates a string to a specified maximum length,
// appending "..." if truncation occurs.
func TruncateString(s string, maxLength int) string {
	if maxLength < 0 {
		return ""
	}
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}

// ExtractJSONFromLLMResponse extracts JSON from an LLM response that may contain
// markdown formatting. LLMs frequently wrap JSON output in code blocks even when
// told not to.
func ExtractJSONFromLLMResponse(response string) (string, error) {
	if strings.Contains(response, "```json") {
		parts := strings.Split(response, "```json")
		if len(parts) > 1 {
			jsonPart := parts[1]
			end := strings.Index(jsonPart, "```")
			if end > 0 {
				jsonStr := strings.TrimSpace(jsonPart[:end])
				if jsonStr != "" {
					return jsonStr, nil
				}
			}
		}
	}

	response = strings.TrimSpace(response)

	startBrace := strings.Index(response, "{")
	startBracket := strings.Index(response, "[")

	start := -1
	isArray := false

	if startBrace >= 0 && (startBracket < 0 || startBrace < startBracket) {
		start = startBrace
	} else if startBracket >= 0 {
		start = startBracket
		isArray = true
	}

	if start == -1 {
		return "", fmt.Errorf("no JSON object or array found (no opening brace or bracket)")
	}

	var end int
	if isArray {
		end = strings.LastIndex(response, "]")
	} else {
		end = strings.LastIndex(response, "}")
	}

	if end == -1 || end <= start {
		return "", fmt.Errorf("no matching closing brace/bracket found")
	}

	jsonStr := strings.TrimSpace(response[start : end+1])
	if jsonStr == "" {
		return "", fmt.Errorf("extracted JSON is empty")
	}

	return jsonStr, nil
}
