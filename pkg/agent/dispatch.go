package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alantheprice/recode/pkg/changetracker"
	"github.com/alantheprice/recode/pkg/config"
	"github.com/alantheprice/recode/pkg/converter"
	"github.com/alantheprice/recode/pkg/deps"
	"github.com/alantheprice/recode/pkg/filediscovery"
	"github.com/alantheprice/recode/pkg/filesystem"
	"github.com/alantheprice/recode/pkg/llm"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/refactor"
	"github.com/alantheprice/recode/pkg/ui"
	"github.com/alantheprice/recode/pkg/utils"
)

// Dispatcher executes routed tool specs: file discovery, model calls, diff
// previews and confirmed writes all happen here.
type Dispatcher struct {
	cfg        *config.Config
	logger     *utils.Logger
	engine     *refactor.Engine
	depsTool   *deps.Analyzer
	convClient converter.JSONClient
	revisionID string
}

// NewDispatcher wires a model client per tool from the config.
func NewDispatcher(cfg *config.Config, logger *utils.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		logger:     logger,
		engine:     refactor.NewEngine(llm.NewClient(cfg, cfg.EditingModel), logger, cfg.MaxAnalysisChars),
		depsTool:   deps.NewAnalyzer(llm.NewClient(cfg, cfg.DepsModel), logger, cfg.DepsMaxFiles, cfg.DepsMaxFileBytes),
		convClient: llm.NewClient(cfg, cfg.ConversionModel),
	}
}

// RunToolFromSpec executes the tool named in the spec. Recoverable problems
// (bad paths, declined confirmations, per-file model failures) are echoed and
// return nil; only unexpected failures surface as errors. The request text is
// kept with the recorded changes so log/rollback can show what prompted them.
func (d *Dispatcher) RunToolFromSpec(spec ToolSpec, request string) error {
	d.beginRevision(spec, request)

	switch spec.Tool() {
	case "analyze":
		return d.runAnalyze(spec)
	case "refactor_dead_code", "refactor_simplify":
		return d.runWholeFile(spec)
	case "refactor_partial":
		return d.runPartial(spec)
	case "convert_language":
		return d.runConvert(spec)
	case "deps_analyze":
		return d.runDeps(spec)
	default:
		return fmt.Errorf("unknown tool %q (valid tools: analyze, refactor_dead_code, refactor_simplify, refactor_partial, convert_language, deps_analyze)", spec.Tool())
	}
}

func (d *Dispatcher) beginRevision(spec ToolSpec, request string) {
	if !d.cfg.TrackChanges {
		return
	}
	instructions := request
	if instructions == "" {
		instructions = spec.Raw()
	}
	requestHash := utils.GenerateRequestHash(instructions)
	revisionID, err := changetracker.RecordBaseRevision(requestHash, instructions, spec.Raw())
	if err != nil {
		d.logger.Logf("Failed to record base revision: %v", err)
		return
	}
	d.revisionID = revisionID
	d.engine.SetRevisionID(revisionID)
	d.depsTool.SetRevisionID(revisionID)
}

func (d *Dispatcher) confirm(prompt string) bool {
	return d.logger.AskForConfirmation(prompt, false, false)
}

func (d *Dispatcher) runAnalyze(spec ToolSpec) error {
	path := spec.Path()
	ui.Out().Printf("[agent] Running analyze: path=%s, summary=%v\n", path, spec.Summary())

	files, err := filediscovery.ListFiles(path)
	if err != nil {
		ui.Out().Print(prompts.AgentError(err) + "\n")
		return nil
	}
	if len(files) == 0 {
		ui.Out().Print(prompts.NoFilesToAnalyze() + "\n")
		return nil
	}
	if len(files) > 1 {
		d.logger.Logf("Analyze found %d files under %s, analyzing only %s", len(files), path, files[0])
	}

	first := files[0]
	code, err := filesystem.ReadFileSafe(first)
	if err != nil {
		return err
	}

	result, err := d.engine.AnalyzeCode(first, code)
	if err != nil {
		return err
	}

	ui.Out().Print("\n[agent] Analysis Result:\n\n")
	ui.Out().Print(result + "\n")
	return nil
}

func (d *Dispatcher) runWholeFile(spec ToolSpec) error {
	path := spec.Path()
	tool := spec.Tool()

	description := "Dead code removal"
	transform := d.engine.RemoveDeadCode
	if tool == "refactor_simplify" {
		description = "Code simplification"
		transform = d.engine.SimplifyCode
	}

	ui.Out().Printf("[agent] Running %s: path=%s\n", tool, path)

	files, err := filediscovery.ListFiles(path)
	if err != nil {
		ui.Out().Print(prompts.AgentError(err) + "\n")
		return nil
	}
	if len(files) == 0 {
		ui.Out().Print(prompts.NoFilesToRefactor() + "\n")
		return nil
	}

	for _, file := range files {
		ui.Out().Print(prompts.ProcessingFile(file) + "\n")

		original, err := filesystem.ReadFileSafe(file)
		if err != nil {
			return err
		}
		newCode, err := transform(file, original)
		if err != nil {
			return err
		}

		diff := changetracker.GetDiff(file, original, newCode)
		if strings.TrimSpace(diff) == "" {
			ui.Out().Print(prompts.NoChanges() + "\n")
			continue
		}

		ui.Out().Print("  - Diff:\n")
		ui.Out().Print(diff)

		if !d.confirm(prompts.ApplyFilePrompt(file)) {
			ui.Out().Print(prompts.ChangesAborted() + "\n")
			continue
		}

		if err := d.applyWrite(file, original, newCode, description); err != nil {
			return err
		}
		ui.Out().Print(prompts.ChangesApplied() + "\n")
	}
	return nil
}

func (d *Dispatcher) applyWrite(path, original, newCode, description string) error {
	if err := utils.CreateBackup(path); err != nil {
		return err
	}
	if err := filesystem.SaveFile(path, newCode); err != nil {
		return err
	}
	if d.revisionID != "" {
		if err := changetracker.RecordChange(d.revisionID, path, original, newCode, description); err != nil {
			d.logger.Logf("Failed to record change for %s: %v", path, err)
		}
	}
	return nil
}

func (d *Dispatcher) runPartial(spec ToolSpec) error {
	startLine := spec.StartLine()
	endLine := spec.EndLine()
	kind := spec.Kind()
	instruction := spec.Instruction()
	globalInstruction := spec.GlobalInstruction()

	filePath, err := filepath.Abs(spec.Path())
	if err != nil {
		return err
	}
	repoRoot, err := os.Getwd()
	if err != nil {
		return err
	}

	if !filesystem.FileExists(filePath) {
		ui.Out().Printf("[agent] File not found: %s\n", filePath)
		return nil
	}

	relPath, err := filepath.Rel(repoRoot, filePath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		relPath = spec.Path()
	}

	ui.Out().Printf("[agent] Running refactor_partial: path=%s\n", filePath)
	ui.Out().Printf("  Line range: %d to %d\n", startLine, endLine)
	ui.Out().Printf("  kind=%s, instruction=%q\n", kind, instruction)

	sel := refactor.Selection{
		FilePath:        relPath,
		StartLine:       startLine,
		EndLine:         endLine,
		Kind:            refactor.RefactorKind(kind),
		UserInstruction: instruction,
	}

	preview := d.engine.PartialRefactor(repoRoot, []refactor.Selection{sel}, globalInstruction, true)
	res := preview[0]
	if res.Err != "" {
		ui.Out().Print(prompts.AgentError(errors.New(res.Err)) + "\n")
		return nil
	}

	ui.Out().Print("  - Partial diff:\n")
	changetracker.PrintDiff(filePath, res.OriginalSnippet, res.RefactoredSnippet)

	if spec.DryRun() {
		ui.Out().Print(prompts.DryRunNotice() + "\n")
		return nil
	}

	if !d.confirm(fmt.Sprintf("Apply this partial change to %s?", filePath)) {
		ui.Out().Print("  ✗ User aborted.\n")
		return nil
	}

	applied := d.engine.PartialRefactor(repoRoot, []refactor.Selection{sel}, globalInstruction, false)
	if applied[0].Err != "" {
		ui.Out().Printf("[agent] Error applying changes: %s\n", applied[0].Err)
		return nil
	}

	ui.Out().Print("  ✓ Partial refactoring applied.\n")
	return nil
}

func (d *Dispatcher) runConvert(spec ToolSpec) error {
	pathStr := spec.Path()
	ui.Out().Printf("[agent] Running convert_language: path=%s\n", pathStr)

	srcLang := spec.SrcLang()
	tgtLang := spec.TgtLang()
	stackDesc := spec.TargetStackDesc()

	if srcLang == "" || tgtLang == "" {
		ui.Out().Print("[agent] Error: 'src_lang' and 'tgt_lang' are required for conversion.\n")
		return nil
	}

	if stackDesc == "" {
		stackDesc = fmt.Sprintf("An idiomatic project in %s using standard libraries.", tgtLang)
		ui.Out().Printf("[agent] No target stack description provided. Using default: '%s'\n", stackDesc)
	}

	rawPath, err := filepath.Abs(pathStr)
	if err != nil {
		return err
	}
	info, statErr := os.Stat(rawPath)
	isFile := statErr == nil && !info.IsDir()

	var projectRoot string
	var sourceFiles []string
	var singleFileMode bool

	switch spec.Scope() {
	case "file":
		if !isFile {
			ui.Out().Printf("[agent] Error: scope='file' but path is not a file: %s\n", rawPath)
			return nil
		}
		projectRoot = filepath.Dir(rawPath)
		sourceFiles = []string{rawPath}
		singleFileMode = true
		ui.Out().Printf("[agent] Scope=file → converting ONLY: %s\n", rawPath)
	case "project":
		projectRoot = rawPath
		if statErr != nil || isFile {
			projectRoot = filepath.Dir(rawPath)
		}
		sourceFiles, err = filediscovery.ListFiles(projectRoot)
		if err != nil {
			ui.Out().Print(prompts.AgentError(err) + "\n")
			return nil
		}
		ui.Out().Printf("[agent] Scope=project → converting under root: %s\n", projectRoot)
	default: // auto
		if isFile {
			projectRoot = filepath.Dir(rawPath)
			sourceFiles = []string{rawPath}
			singleFileMode = true
			ui.Out().Printf("[agent] Scope=auto, path is file → converting ONLY: %s\n", rawPath)
		} else {
			projectRoot = rawPath
			sourceFiles, err = filediscovery.ListFiles(projectRoot)
			if err != nil {
				ui.Out().Print(prompts.AgentError(err) + "\n")
				return nil
			}
			ui.Out().Printf("[agent] Scope=auto, path is dir → converting under root: %s\n", projectRoot)
		}
	}

	if len(sourceFiles) == 0 {
		ui.Out().Print("[agent] No files found in the specified path.\n")
		return nil
	}

	ui.Out().Printf("Found %d files to analyze for conversion.\n", len(sourceFiles))

	summary := fmt.Sprintf("Project to be converted from %s to %s.", srcLang, tgtLang)
	snapshot, skipped, err := converter.BuildSnapshot(projectRoot, sourceFiles, summary)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		ui.Out().Printf("  - Skipping non-UTF8 file: %s\n", path)
	}

	d.logger.LogProcessStep("Starting language conversion with the AI model...")
	result, err := converter.Run(d.convClient, snapshot, srcLang, tgtLang, stackDesc)
	if err != nil {
		return err
	}

	if singleFileMode {
		return d.applySingleFileConversion(projectRoot, snapshot, result, srcLang, tgtLang)
	}
	return d.applyProjectConversion(projectRoot, result, srcLang, tgtLang)
}

// applySingleFileConversion replaces one file in place: the converted content
// keeps the original filename stem and adopts the extension the model chose.
func (d *Dispatcher) applySingleFileConversion(projectRoot string, snapshot converter.ProjectSnapshot, result converter.ConversionResult, srcLang, tgtLang string) error {
	if len(snapshot.Files) == 0 {
		ui.Out().Print("[agent] Error: no source file info recorded.\n")
		return nil
	}
	if len(result.Files) == 0 {
		ui.Out().Print("[agent] Error: model returned no files for single-file conversion.\n")
		return nil
	}

	origRel := snapshot.Files[0].Path
	origAbs := filepath.Join(projectRoot, origRel)
	origCode := snapshot.Files[0].Content

	aiPath := result.Files[0].Path
	if aiPath == "" {
		aiPath = filepath.Base(origRel)
	}

	targetRel := origRel
	if ext := filepath.Ext(aiPath); ext != "" {
		targetRel = strings.TrimSuffix(origRel, filepath.Ext(origRel)) + ext
	}

	targetPath := filepath.Join(projectRoot, targetRel)
	newCode := result.Files[0].Content

	ui.Out().Print("\n[agent] Preview diff (single file):\n")
	changetracker.PrintDiff(targetPath, origCode, newCode)

	if !d.confirm(fmt.Sprintf("Apply this conversion to %s (and replace %s)?", targetPath, origAbs)) {
		ui.Out().Print("  ✗ User aborted.\n")
		return nil
	}

	description := fmt.Sprintf("Converted from %s to %s", srcLang, tgtLang)
	if err := d.applyWrite(targetPath, origCode, newCode, description); err != nil {
		return err
	}
	ui.Out().Printf("  ✓ Wrote converted code to %s\n", targetPath)

	if targetPath != origAbs && filesystem.FileExists(origAbs) {
		if err := utils.CreateBackup(origAbs); err != nil {
			return err
		}
		if err := os.Remove(origAbs); err != nil {
			return err
		}
		ui.Out().Printf("  ✓ Removed old file %s\n", origAbs)
	}

	if result.Notes != "" {
		ui.Out().Print(prompts.MigrationNotes(result.Notes))
	}
	return nil
}

// applyProjectConversion writes the converted files into a fresh sibling
// directory, confirming each file.
func (d *Dispatcher) applyProjectConversion(projectRoot string, result converter.ConversionResult, srcLang, tgtLang string) error {
	ui.Out().Print("\n[agent] Conversion complete. Review the results below.\n")

	if result.Notes != "" {
		ui.Out().Print(prompts.MigrationNotes(result.Notes))
	}

	outputDir := converter.OutputDirFor(projectRoot, tgtLang)
	ui.Out().Printf("Converted files will be written to: %s\n", outputDir)
	if err := filesystem.EnsureDir(outputDir); err != nil {
		return err
	}

	description := fmt.Sprintf("Converted from %s to %s", srcLang, tgtLang)
	for _, file := range result.Files {
		outPath := filepath.Join(outputDir, file.Path)

		ui.Out().Print(prompts.NewFileHeader(outPath) + "\n")
		ui.Out().Print("----- START OF CONTENT -----\n")
		ui.Out().Print(file.Content + "\n")
		ui.Out().Print("----- END OF CONTENT -----\n")

		if !d.confirm(prompts.WriteContentPrompt(outPath)) {
			ui.Out().Print(prompts.FileSkipped(outPath) + "\n")
			continue
		}
		if err := d.applyWrite(outPath, "", file.Content, description); err != nil {
			return err
		}
		ui.Out().Print(prompts.FileSaved(outPath) + "\n")
	}

	ui.Out().Print("\n[agent] All files processed.\n")
	return nil
}

func (d *Dispatcher) runDeps(spec ToolSpec) error {
	pathStr := spec.Path()
	ui.Out().Printf("[agent] deps_analyze: path=%s\n", pathStr)

	root, err := filepath.Abs(pathStr)
	if err != nil {
		return err
	}
	info, statErr := os.Stat(root)
	if statErr != nil {
		ui.Out().Print(prompts.AgentError(fmt.Errorf("path not found: %s", root)) + "\n")
		return nil
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}
	d.logger.Logf("Dependency analysis root %s (project type: %s)", root, filediscovery.DetectProjectType(root))

	analysis, err := d.depsTool.Analyze(root)
	if err != nil {
		return err
	}

	ui.Out().Print(prompts.DepsResultHeader() + "\n")
	ui.Out().Print(prompts.DepsSummaryLine(analysis.Summary) + "\n")

	for i, issue := range analysis.Issues {
		ui.Out().Print(prompts.DepsIssueBlock(i+1, issue.Type, issue.File, issue.Detail, issue.Suggestion) + "\n")
	}

	if analysis.Notes != "" {
		ui.Out().Print(prompts.DepsNotesHeader() + "\n")
		ui.Out().Print(analysis.Notes + "\n")
	}

	apply := false
	if len(analysis.Issues) > 0 {
		ui.Out().Print("\n")
		apply = d.confirm(prompts.DepsApplyPrompt())
	}

	ui.Out().Print(prompts.DepsApplyState(apply) + "\n")

	if apply {
		if err := d.depsTool.ApplyChanges(root, analysis, d.confirm); err != nil {
			return err
		}
	}

	ui.Out().Print(prompts.DepsComplete() + "\n")
	return nil
}
