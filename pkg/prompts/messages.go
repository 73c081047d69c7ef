package prompts

import (
	"fmt"

	"github.com/fatih/color"
)

// --- Config Messages ---

func EnterAgentModel(defaultModel string) string {
	return fmt.Sprintf("Enter your preferred agent/routing model (e.g., %s): ", defaultModel)
}

func EnterEditingModel(defaultModel string) string {
	return fmt.Sprintf("Enter your preferred editing model (e.g., %s): ", defaultModel)
}

func EnterConversionModel(defaultModel string) string {
	return fmt.Sprintf("Enter your preferred conversion model (e.g., %s): ", defaultModel)
}

func TrackChangesPrompt() string {
	return "Record applied changes under .recode for log/rollback? (yes/no, default: yes): "
}

func NoConfigFound() string {
	return "No config found. Creating a new one."
}

func ConfigSaved(path string) string {
	return fmt.Sprintf("Config saved to %s", path)
}

// --- Agent Messages ---

func AgentBanner() string {
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	return boldCyan("recode interactive agent. Type 'exit' or 'quit' to leave.")
}

func AgentPrompt() string {
	return ">> "
}

func AgentExiting() string {
	return "[recode] Exiting."
}

func AgentRouting(request string) string {
	return fmt.Sprintf("Routing request: %s", request)
}

func AgentExplanation(text string) string {
	return fmt.Sprintf("\n[agent] Explanation:\n%s\n", text)
}

func AgentPlan(specJSON string) string {
	return fmt.Sprintf("[agent] Plan: %s", specJSON)
}

func AgentError(err error) string {
	red := color.New(color.FgRed).SprintFunc()
	return fmt.Sprintf("[agent] %s: %v", red("Error"), err)
}

func NoFilesToAnalyze() string {
	return "[agent] No files to analyze."
}

func NoFilesToRefactor() string {
	return "[agent] No files to refactor."
}

// --- Refactor Messages ---

func ProcessingFile(path string) string {
	return fmt.Sprintf("\n[agent] ▶ %s", path)
}

func NoChanges() string {
	return "  - No changes."
}

func ApplyFilePrompt(path string) string {
	return fmt.Sprintf("Apply this change to %s?", path)
}

func ChangesApplied() string {
	green := color.New(color.FgGreen).SprintFunc()
	return green("  ✓ Applied.")
}

func ChangesAborted() string {
	return "  ✗ Aborted."
}

func DryRunNotice() string {
	return "  - Dry run: no files were modified."
}

// --- Conversion Messages ---

func ConversionHeader(srcLang, tgtLang string) string {
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	return boldCyan(fmt.Sprintf("Converting from %s to %s", srcLang, tgtLang))
}

func NewFileHeader(path string) string {
	return fmt.Sprintf("\n[agent] ▶ New file: %s", path)
}

func WriteContentPrompt(path string) string {
	return fmt.Sprintf("Write this content to %s?", path)
}

func FileSaved(path string) string {
	green := color.New(color.FgGreen).SprintFunc()
	return green(fmt.Sprintf("  ✓ Saved %s", path))
}

func FileSkipped(path string) string {
	return fmt.Sprintf("  ✗ Skipped %s", path)
}

func MigrationNotes(notes string) string {
	return fmt.Sprintf("\n--- Migration Notes ---\n%s\n-----------------------\n", notes)
}

func NoSummaryProvided() string {
	return "(no summary provided)"
}

// --- Dependency Analysis Messages ---

func DepsResultHeader() string {
	return "\n[agent] Dependency analysis result:\n"
}

func DepsSummaryLine(summary string) string {
	return fmt.Sprintf("- Summary: %s", summary)
}

func DepsIssueBlock(index int, issueType, file, detail, suggestion string) string {
	yellow := color.New(color.FgYellow).SprintFunc()
	return fmt.Sprintf("\n[%d] type=%s\n    file: %s\n    detail: %s\n    suggestion: %s",
		index, yellow(issueType), file, detail, suggestion)
}

func DepsNotesHeader() string {
	return "\n[notes]"
}

func DepsApplyPrompt() string {
	return "Apply these suggestions to the files?"
}

func DepsApplyState(apply bool) string {
	return fmt.Sprintf("[agent] apply=%v", apply)
}

func DepsComplete() string {
	return "\n[agent] deps_analyze complete."
}

// --- Change Tracking Messages ---

func RevisionReverted(id string) string {
	return fmt.Sprintf("Reverted revision %s.", id)
}

func RevisionRestored(id string) string {
	return fmt.Sprintf("Restored revision %s.", id)
}

func NoRecordedChanges() string {
	return "No recorded changes found."
}

// --- Application Error Messages ---

func FatalError(err error) string {
	boldRed := color.New(color.FgRed, color.Bold).SprintFunc()
	return fmt.Sprintf("%s: %v\n\nCheck .recode/workspace.log for more details.", boldRed("A FATAL ERROR OCCURRED"), err)
}

func RecodeDirCreationError(err error) string {
	return fmt.Sprintf("Could not create .recode directory: %v", err)
}
