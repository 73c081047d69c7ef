// Package refactor holds the model-backed code transformation engine: whole
// file rewrites (dead code removal, simplification), single-file analysis and
// line-range snippet refactoring.
package refactor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alantheprice/recode/pkg/changetracker"
	"github.com/alantheprice/recode/pkg/chunker"
	"github.com/alantheprice/recode/pkg/filesystem"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"
)

// ModelClient is the slice of the LLM client the engine needs.
type ModelClient interface {
	Ask(systemPrompt, userPrompt string) (string, error)
}

// RefactorKind selects the emphasis of a snippet refactor.
type RefactorKind string

const (
	KindStyle       RefactorKind = "style"
	KindBugfix      RefactorKind = "bugfix"
	KindPerformance RefactorKind = "performance"
	KindReadability RefactorKind = "readability"
	KindCleanup     RefactorKind = "cleanup"
	KindCustom      RefactorKind = "custom"
)

// ValidKinds lists the accepted refactor kinds.
func ValidKinds() []RefactorKind {
	return []RefactorKind{KindStyle, KindBugfix, KindPerformance, KindReadability, KindCleanup, KindCustom}
}

// Selection is a 1-based inclusive line range of a file to refactor.
type Selection struct {
	FilePath        string
	StartLine       int
	EndLine         int
	Kind            RefactorKind
	UserInstruction string
}

// Result reports the outcome of one selection. StartLine and EndLine are the
// effective range after clamping to the file's length.
type Result struct {
	FilePath          string
	StartLine         int
	EndLine           int
	OriginalSnippet   string
	RefactoredSnippet string
	Applied           bool
	Err               string
}

// Engine runs the model-backed code transformations.
type Engine struct {
	client        ModelClient
	logger        *utils.Logger
	analysisLimit int
	revisionID    string
}

// NewEngine builds an engine. analysisLimit caps how many characters of a
// file are sent for analysis; non-positive values fall back to 8000.
func NewEngine(client ModelClient, logger *utils.Logger, analysisLimit int) *Engine {
	if analysisLimit <= 0 {
		analysisLimit = 8000
	}
	return &Engine{client: client, logger: logger, analysisLimit: analysisLimit}
}

// SetRevisionID ties applied snippet changes to a recorded base revision. An
// empty ID disables change recording.
func (e *Engine) SetRevisionID(id string) { e.revisionID = id }

// AnalyzeCode asks the model for a high-level analysis of a single file.
// Only the first analysisLimit characters are sent.
func (e *Engine) AnalyzeCode(path, code string) (string, error) {
	chunks, err := chunker.ChunkByChars(code, e.analysisLimit, 0)
	if err != nil {
		return "", err
	}
	if len(chunks) > 1 {
		e.logger.Logf("Analysis input for %s truncated to the first of %d chunks", path, len(chunks))
	}
	return e.client.Ask(prompts.AnalyzeSystemPrompt(), prompts.AnalyzeUserPrompt(path, chunks[0]))
}

// RemoveDeadCode rewrites a whole file with unused code removed.
func (e *Engine) RemoveDeadCode(path, code string) (string, error) {
	raw, err := e.client.Ask(prompts.DeadCodeSystemPrompt(), prompts.DeadCodeUserPrompt(path, code))
	if err != nil {
		return "", err
	}
	return StripCodeFences(raw), nil
}

// SimplifyCode rewrites a whole file simplified, preserving behavior.
func (e *Engine) SimplifyCode(path, code string) (string, error) {
	raw, err := e.client.Ask(prompts.SimplifySystemPrompt(), prompts.SimplifyUserPrompt(path, code))
	if err != nil {
		return "", err
	}
	return StripCodeFences(raw), nil
}

// PartialRefactor runs the snippet refactor over each selection. With dryRun
// the rewritten snippets are only returned; otherwise each file is rewritten
// in place (with a backup) and the change is recorded.
func (e *Engine) PartialRefactor(repoRoot string, selections []Selection, globalInstruction string, dryRun bool) []Result {
	results := make([]Result, 0, len(selections))

	for _, sel := range selections {
		absPath := sel.FilePath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(repoRoot, absPath)
		}

		if !filesystem.FileExists(absPath) {
			results = append(results, Result{
				FilePath: sel.FilePath,
				Err:      fmt.Sprintf("file not found: %s", absPath),
			})
			continue
		}

		allLines, err := filesystem.ReadFileLines(absPath)
		if err != nil {
			results = append(results, Result{FilePath: sel.FilePath, Err: err.Error()})
			continue
		}

		start, end := clampRange(sel.StartLine, sel.EndLine, len(allLines))
		originalSnippet := strings.Join(allLines[start-1:end], "\n")

		newSnippet, err := e.refactorSnippet(sel, originalSnippet, globalInstruction)
		if err != nil {
			results = append(results, Result{
				FilePath: sel.FilePath,
				Err:      fmt.Sprintf("model error: %v", err),
			})
			continue
		}

		merged := MergeSnippetBack(allLines, start, end, newSnippet)

		if !dryRun {
			if err := e.applyLines(absPath, sel.FilePath, allLines, merged, sel.Kind, start, end); err != nil {
				results = append(results, Result{FilePath: sel.FilePath, Err: err.Error()})
				continue
			}
		}

		results = append(results, Result{
			FilePath:          sel.FilePath,
			StartLine:         start,
			EndLine:           end,
			OriginalSnippet:   originalSnippet,
			RefactoredSnippet: newSnippet,
			Applied:           !dryRun,
		})
	}

	return results
}

func (e *Engine) refactorSnippet(sel Selection, snippet, globalInstruction string) (string, error) {
	kind := sel.Kind
	if kind == "" {
		kind = KindCustom
	}

	location := fmt.Sprintf("File: %s", sel.FilePath)
	raw, err := e.client.Ask(
		prompts.SnippetSystemPrompt(),
		prompts.SnippetUserPrompt(location, string(kind), globalInstruction, sel.UserInstruction, snippet),
	)
	if err != nil {
		return "", err
	}
	return PostprocessSnippet(snippet, StripCodeFences(raw)), nil
}

func (e *Engine) applyLines(absPath, relPath string, original, merged []string, kind RefactorKind, start, end int) error {
	if err := utils.CreateBackup(absPath); err != nil {
		return err
	}
	if err := filesystem.WriteFileLines(absPath, merged); err != nil {
		return err
	}

	if e.revisionID != "" {
		if kind == "" {
			kind = KindCustom
		}
		description := fmt.Sprintf("Partial refactor (%s) of lines %d-%d", kind, start, end)
		if err := changetracker.RecordChange(e.revisionID, relPath, filesystem.JoinLines(original), filesystem.JoinLines(merged), description); err != nil {
			e.logger.Logf("Failed to record change for %s: %v", relPath, err)
		}
	}

	return nil
}
