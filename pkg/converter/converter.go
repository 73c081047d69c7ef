// Package converter translates a snapshot of project files into another
// language with a single JSON-mode model call. The caller gathers the files,
// hands over a ProjectSnapshot, and writes the returned files to disk.
package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/alantheprice/recode/pkg/filesystem"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"
)

// JSONClient is the model surface the converter needs. *llm.Client satisfies it.
type JSONClient interface {
	AskJSON(systemPrompt, userPrompt string) (map[string]interface{}, string, error)
}

// ProjectFile is a single source file included in a conversion request.
type ProjectFile struct {
	Path     string
	Language string
	Content  string
}

// ProjectSnapshot is the project structure sent to the model.
type ProjectSnapshot struct {
	Root    string
	Summary string
	Files   []ProjectFile
}

// ConvertedFile is one translated file returned by the model.
type ConvertedFile struct {
	Path    string
	Content string
}

// ConversionResult holds the translated files plus free-form migration notes.
type ConversionResult struct {
	Files []ConvertedFile
	Notes string
}

var languageByExtension = map[string]string{
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".go":    "go",
	".h":     "c",
	".hpp":   "cpp",
	".java":  "java",
	".js":    "javascript",
	".jsx":   "javascript",
	".kt":    "kotlin",
	".php":   "php",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".sh":    "shell",
	".swift": "swift",
	".ts":    "typescript",
	".tsx":   "typescript",
}

// DetectLanguage guesses a language name from the file extension, returning
// "unknown" for anything unrecognized.
func DetectLanguage(path string) string {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "unknown"
}

// BuildSnapshot reads the given files and assembles a ProjectSnapshot with
// root-relative paths. Non-UTF-8 files are skipped and returned in the second
// value so the caller can report them. Any other read failure aborts.
func BuildSnapshot(root string, files []string, summary string) (ProjectSnapshot, []string, error) {
	snapshot := ProjectSnapshot{Root: root, Summary: summary}
	var skipped []string

	for _, path := range files {
		content, err := filesystem.ReadFileSafe(path)
		if err != nil {
			if errors.Is(err, filesystem.ErrNotUTF8) {
				skipped = append(skipped, path)
				continue
			}
			return ProjectSnapshot{}, nil, err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(path)
		}

		snapshot.Files = append(snapshot.Files, ProjectFile{
			Path:     rel,
			Language: DetectLanguage(path),
			Content:  content,
		})
	}

	return snapshot, skipped, nil
}

// buildFilesBlock serializes the snapshot's files into the text block embedded
// in the user prompt.
func buildFilesBlock(snapshot ProjectSnapshot) string {
	separator := strings.Repeat("-", 40)
	var lines []string

	for _, f := range snapshot.Files {
		lang := f.Language
		if lang == "" {
			lang = "unknown"
		}
		lines = append(lines,
			fmt.Sprintf("FILE: %s", f.Path),
			fmt.Sprintf("LANG: %s", lang),
			"CONTENT:",
			separator,
			f.Content,
			separator,
			"",
		)
	}

	return strings.Join(lines, "\n")
}

// Run sends the snapshot to the model and returns the converted files. The
// response must be a JSON object; entries whose path or content is not a
// string are dropped, and non-string notes are re-marshaled to text.
func Run(client JSONClient, snapshot ProjectSnapshot, srcLang, tgtLang, targetStackDesc string) (ConversionResult, error) {
	summary := snapshot.Summary
	if summary == "" {
		summary = prompts.NoSummaryProvided()
	}

	userPrompt := prompts.ConverterUserPrompt(srcLang, tgtLang, targetStackDesc, summary, buildFilesBlock(snapshot))

	obj, _, err := client.AskJSON(prompts.ConverterSystemPrompt(), userPrompt)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("language conversion failed: %w", err)
	}

	result := ConversionResult{Files: []ConvertedFile{}}

	if filesRaw, ok := obj["files"].([]interface{}); ok {
		for _, entry := range filesRaw {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			path, pathOK := m["path"].(string)
			content, contentOK := m["content"].(string)
			if pathOK && contentOK {
				result.Files = append(result.Files, ConvertedFile{Path: path, Content: content})
			}
		}
	}

	result.Notes = coerceNotes(obj["notes"])
	return result, nil
}

func coerceNotes(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	default:
		if b, err := json.Marshal(n); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", n)
	}
}

// NormalizeLanguageName returns the display form of a language name, so
// "python" and "PYTHON" both render as "Python". Names with internal casing
// like "JavaScript" are kept as given.
func NormalizeLanguageName(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return lang
	}
	if lang == strings.ToLower(lang) || lang == strings.ToUpper(lang) {
		return utils.CapitalizeWords(strings.ToLower(lang))
	}
	return lang
}

// SanitizeLanguage makes a language name safe for use in a directory name.
// Letters, digits, '-' and '_' pass through; everything else becomes '_'.
func SanitizeLanguage(lang string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, lang)
}

// OutputDirFor returns the sibling directory converted project files are
// written to, e.g. /src/app -> /src/app_converted_to_Go.
func OutputDirFor(projectRoot, tgtLang string) string {
	name := fmt.Sprintf("%s_converted_to_%s", filepath.Base(projectRoot), SanitizeLanguage(tgtLang))
	return filepath.Join(filepath.Dir(projectRoot), name)
}
