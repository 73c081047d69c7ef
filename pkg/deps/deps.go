// Package deps analyzes a project's dependency health. It collects a broad
// sample of text files, lets the model decide which of them are dependency
// configs, and can rewrite those configs with the model's suggestions applied.
package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alantheprice/recode/pkg/changetracker"
	"github.com/alantheprice/recode/pkg/filesystem"
	"github.com/alantheprice/recode/pkg/llm"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/ui"
	"github.com/alantheprice/recode/pkg/utils"
)

const (
	// DefaultMaxFiles caps how many files are sent to the model.
	DefaultMaxFiles = 40
	// DefaultMaxBytes skips files larger than this many bytes.
	DefaultMaxBytes = 200_000
)

var collectSkippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// ModelClient is the model surface the analyzer needs. *llm.Client satisfies it.
type ModelClient interface {
	Ask(systemPrompt, userPrompt string) (string, error)
	AskJSON(systemPrompt, userPrompt string) (map[string]interface{}, string, error)
}

// Issue is one dependency problem reported by the model.
type Issue struct {
	Type       string `json:"type"`
	File       string `json:"file"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion"`
}

// Analysis is the result of a dependency analysis run.
type Analysis struct {
	Summary string  `json:"summary"`
	Issues  []Issue `json:"issues"`
	Notes   string  `json:"notes"`
}

// Analyzer runs dependency analysis and config rewrites against one model.
type Analyzer struct {
	client     ModelClient
	logger     *utils.Logger
	maxFiles   int
	maxBytes   int
	revisionID string
}

// NewAnalyzer creates an Analyzer. Non-positive limits fall back to the
// defaults.
func NewAnalyzer(client ModelClient, logger *utils.Logger, maxFiles, maxBytes int) *Analyzer {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Analyzer{client: client, logger: logger, maxFiles: maxFiles, maxBytes: maxBytes}
}

// SetRevisionID enables change recording for applied rewrites. An empty id
// disables it.
func (a *Analyzer) SetRevisionID(id string) { a.revisionID = id }

// CollectTextFiles gathers readable text files under root, keyed by
// root-relative path. Dependency-irrelevant directories, oversized files and
// non-UTF-8 files are skipped; collection stops once maxFiles entries exist.
func CollectTextFiles(root string, maxFiles, maxBytes int) (map[string]string, error) {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	found := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && collectSkippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(found) >= maxFiles {
			return filepath.SkipAll
		}

		info, err := d.Info()
		if err != nil || info.Size() > int64(maxBytes) {
			return nil
		}

		content, err := filesystem.ReadFileSafe(path)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		found[rel] = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// Analyze collects files under root and asks the model for a dependency
// report. Missing files and unparseable responses degrade to a descriptive
// Analysis; only transport failures return an error.
func (a *Analyzer) Analyze(root string) (Analysis, error) {
	files, err := CollectTextFiles(root, a.maxFiles, a.maxBytes)
	if err != nil || len(files) == 0 {
		return Analysis{
			Summary: "No analyzable text files were found in the project.",
			Issues:  []Issue{},
			Notes:   "Check that the root path is correct and the directory is not empty.",
		}, nil
	}

	rels := make([]string, 0, len(files))
	for rel := range files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	var dumpLines []string
	for _, rel := range rels {
		dumpLines = append(dumpLines, fmt.Sprintf("=== %s ===", rel), files[rel], "")
	}
	dump := strings.Join(dumpLines, "\n")
	a.logger.Logf("Dependency dump: %d files, %s, ~%d tokens",
		len(rels), utils.FormatFileSize(int64(len(dump))), utils.EstimateTokens(dump))

	obj, raw, err := a.client.AskJSON(
		prompts.DepsAnalyzerSystemPrompt(),
		prompts.DepsAnalyzerUserPrompt(dump),
	)
	if err != nil {
		if errors.Is(err, llm.ErrNotJSONObject) {
			return Analysis{
				Summary: "The dependency analysis returned an unexpected response format.",
				Issues:  []Issue{},
				Notes:   fmt.Sprintf("raw response: %s", raw),
			}, nil
		}
		return Analysis{}, err
	}

	return parseAnalysis(obj), nil
}

func parseAnalysis(obj map[string]interface{}) Analysis {
	analysis := Analysis{
		Summary: stringField(obj["summary"]),
		Issues:  []Issue{},
		Notes:   stringField(obj["notes"]),
	}

	issuesRaw, _ := obj["issues"].([]interface{})
	for _, entry := range issuesRaw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		analysis.Issues = append(analysis.Issues, Issue{
			Type:       stringField(m["type"]),
			File:       stringField(m["file"]),
			Detail:     stringField(m["detail"]),
			Suggestion: stringField(m["suggestion"]),
		})
	}

	return analysis
}

func stringField(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// ApplyChanges rewrites the config files named in the analysis issues. Each
// file gets a full-content rewrite from the model, a diff preview, and a
// confirm gate before being overwritten.
func (a *Analyzer) ApplyChanges(root string, analysis Analysis, confirm func(prompt string) bool) error {
	if len(analysis.Issues) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var targets []string
	for _, issue := range analysis.Issues {
		if issue.File == "" || seen[issue.File] {
			continue
		}
		seen[issue.File] = true
		targets = append(targets, issue.File)
	}
	sort.Strings(targets)

	if len(targets) == 0 {
		ui.Out().Print("[agent] No config files were named in the suggestions.\n")
		return nil
	}

	for _, relPath := range targets {
		absPath := relPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(root, relPath)
		}

		if !filesystem.FileExists(absPath) {
			ui.Out().Printf("[agent] Skipping (file not found): %s\n", absPath)
			continue
		}

		original, err := filesystem.ReadFileSafe(absPath)
		if err != nil {
			if errors.Is(err, filesystem.ErrNotUTF8) {
				ui.Out().Printf("[agent] Skipping non-text file: %s\n", absPath)
				continue
			}
			return err
		}

		issuesText := formatFileIssues(analysis.Issues, relPath)

		newContent, err := a.client.Ask(
			prompts.DepsRewriteSystemPrompt(),
			prompts.DepsRewriteUserPrompt(relPath, original, issuesText),
		)
		if err != nil {
			return fmt.Errorf("dependency rewrite for %s failed: %w", relPath, err)
		}

		ui.Out().Printf("\n[agent] Proposed changes for %s:\n\n", absPath)
		changetracker.PrintDiff(absPath, original, newContent)

		if !confirm(fmt.Sprintf("Apply these changes to %s?", absPath)) {
			ui.Out().Print("  ✗ Skipped.\n")
			continue
		}

		if err := utils.CreateBackup(absPath); err != nil {
			return err
		}
		if err := filesystem.SaveFile(absPath, newContent); err != nil {
			return err
		}
		if a.revisionID != "" {
			description := fmt.Sprintf("Dependency fixes for %s", relPath)
			if err := changetracker.RecordChange(a.revisionID, relPath, original, newContent, description); err != nil {
				a.logger.Logf("Failed to record change for %s: %v", relPath, err)
			}
		}
		ui.Out().Print("  ✓ Changes applied.\n")
	}

	return nil
}

func formatFileIssues(issues []Issue, relPath string) string {
	var lines []string
	n := 0
	for _, issue := range issues {
		if issue.File != relPath {
			continue
		}
		n++
		lines = append(lines,
			fmt.Sprintf("[%d] type=%s", n, issue.Type),
			fmt.Sprintf("detail: %s", issue.Detail),
			fmt.Sprintf("suggestion: %s", issue.Suggestion),
			"",
		)
	}
	return strings.Join(lines, "\n")
}
