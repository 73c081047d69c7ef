package prompts

import (
	"fmt"
	"strings"
)

// Message represents a single message in a chat-like conversation with the LLM.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// BuildMessages builds the standard two-message system/user conversation.
func BuildMessages(systemPrompt, userPrompt string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
}

// --- Agent router ---

// AgentSystemPrompt instructs the model to act as a command router: read a
// natural-language request and answer with a JSON tool spec, nothing else.
func AgentSystemPrompt() string {
	return `You are a command router for an AI code CLI tool.

Your job:
- Read the user's natural language request.
- Decide WHICH TOOL to use and WITH WHAT ARGUMENTS.
- Respond ONLY with a JSON object, nothing else.

Available tools:

1) analyze
   - Description: Analyze code or project structure.
   - Params:
       - path (string): file or folder
       - summary (bool, optional, default true)

2) refactor_dead_code
   - Description: Remove dead code (unused imports, vars, etc.) for whole files.
   - Params:
       - path (string): file or folder

3) refactor_simplify
   - Description: Simplify code while keeping behavior, for whole files.
   - Params:
       - path (string): file or folder

4) refactor_partial
   - Description: Refactor ONLY a specific line range inside a single file.
   - Params:
       - path (string): single file path
       - start_line (int): 1-based start line (inclusive)
       - end_line (int): 1-based end line (inclusive)
       - kind (string, optional): one of [style, bugfix, performance, readability, cleanup, custom]
       - instruction (string, optional): extra user note for this selection
       - global_instruction (string, optional): global refactoring guidance

5) convert_language
    - Description: Translate an entire project from a source language to a target language.
    - Params:
        - path (string): The root directory of the project to convert.
        - src_lang (string): The source language (e.g., "python", "javascript").
        - tgt_lang (string): The target language (e.g., "go", "rust").
        - target_stack_desc (string): A detailed description of the target stack, including frameworks, libraries, and architectural patterns.

6) deps_analyze
   - Description: Analyze dependency issues in the project.
   - Params:
       - path (string): folder path

Routing rules:

- If the user asks for "dead code removal" on a file or folder -> use refactor_dead_code.
- If the user wants to "simplify/clean/refactor" a file without specifying lines -> use refactor_simplify.
- If the user explicitly mentions a line range or "partial refactor",
  and provides line numbers (e.g. 10~20), prefer refactor_partial with appropriate start_line/end_line.
- If the user asks to "convert", "translate", or "migrate" a project from one language to another -> use convert_language.
- If the user wants a high-level explanation or analysis of a file or project -> use analyze.
- If the user talks about dependency/version/package problems -> use deps_analyze.

Always reply with JSON like:
{
  "tool": "<tool_name>",
  "path": "<path>",
  ...
}

Do NOT add any explanation outside of the JSON. JSON only.`
}

// AgentUserPrompt wraps the raw user request for the router call.
func AgentUserPrompt(userText string) string {
	return fmt.Sprintf("User request:\n%s\n\nJSON only response:", userText)
}

// --- Analyze ---

func AnalyzeSystemPrompt() string {
	return "You are an expert software architect. Analyze this file."
}

func AnalyzeUserPrompt(path, code string) string {
	return fmt.Sprintf("File path: %s\n\n----- CODE START -----\n%s\n----- CODE END -----\n", path, code)
}

// --- Whole-file refactors ---

func DeadCodeSystemPrompt() string {
	return "You are a careful refactoring assistant focused on removing dead code safely. " +
		"Return only the full, updated code inside markdown code fences."
}

func DeadCodeUserPrompt(path, code string) string {
	return fmt.Sprintf(`Your task is to remove dead code from the following file:
- Unused imports
- Unused variables
- Unused functions/classes (if you are confident they are not used in this file).

Keep the external behavior and public API of this file the same.
Do NOT change business logic. Do NOT introduce new dependencies.

File path: %s

----- CODE START -----
%s
----- CODE END -----

Return ONLY the full updated code for this file.`, path, code)
}

func SimplifySystemPrompt() string {
	return "You are a careful refactoring assistant focused on simplifying code without changing behavior. " +
		"Return only the full, updated code inside markdown code fences."
}

func SimplifyUserPrompt(path, code string) string {
	return fmt.Sprintf(`Your task is to simplify and clean up the following file:
- Improve readability
- Remove obvious duplication
- Use idiomatic patterns (for this language)
- Keep the same behavior and API

Do NOT introduce breaking changes.
Do NOT change external behavior or side effects.

File path: %s

----- CODE START -----
%s
----- CODE END -----

Return ONLY the full updated code for this file.`, path, code)
}

// --- Snippet refactor ---

func SnippetSystemPrompt() string {
	return "You are a senior software engineer specializing in code refactoring.\n" +
		"Your task is to refactor the code snippet provided by the user."
}

// SnippetUserPrompt builds the prompt for refactoring a single selected span of
// code. Empty instructions render as "N/A" so the template shape stays fixed.
func SnippetUserPrompt(location, kind, globalInstruction, userInstruction, snippet string) string {
	if globalInstruction == "" {
		globalInstruction = "N/A"
	}
	if userInstruction == "" {
		userInstruction = "N/A"
	}
	return fmt.Sprintf(`Refactor the following code snippet.

%s
Refactor kind: %s
Global instruction: %s
User note: %s

Requirements:
- Keep the external behavior of this snippet the same unless 'bugfix' explicitly applies.
- Improve style/readability/cleanliness according to the refactor kind.
- Do NOT add unrelated new functions or classes.
- Return ONLY the rewritten code snippet.
- Do NOT include explanations, comments about the change, or markdown fences.

Original snippet:
----- SNIPPET START -----
%s
----- SNIPPET END -----

Now return ONLY the refactored snippet:`, location, kind, globalInstruction, userInstruction, snippet)
}

// --- Language conversion ---

func ConverterSystemPrompt() string {
	return `You are a senior software engineer and an expert in codebase migration.

CRITICAL BEHAVIOR RULES (DO NOT VIOLATE):
1. You ONLY convert the files listed in the project files block.
2. You MUST NOT create any new files that are not present in the project files block.
   - No scaffolding
   - No project templates
   - No extra README/main/entry files
3. You MUST NOT redesign or restructure the project layout.
   - No new folders
   - No changing entrypoints
   - No splitting a single file into multiple files
4. For each input file, you output exactly one translated file.
   - Use the same relative path whenever possible.
   - If the extension must change (e.g., .py -> .ts), change only the extension.
5. You must treat the target language name literally as given (e.g. "TypeScript").
   - Do NOT shorten or invent language names.

Your job:
- Translate each listed file from the source language to the target language.
- Keep the behavior equivalent and preserve public APIs.
- Use idiomatic patterns of the target language/stack INSIDE each file only.
- Do NOT introduce new architectural layers or abstractions.
- For single-file conversion, the output file MUST have the same filename (stem) as the original,
  and ONLY the extension must change to the appropriate one for the target language.

Output format (JSON only):
{
  "files": [
    { "path": "<same relative path or only extension changed>", "content": "<full translated file content>" }
  ],
  "notes": "Important migration notes."
}

Additional rules:
- Always include full file content; never output patches or diffs.
- If any file is skipped, explain the reason in notes.
- Never wrap the JSON output in backticks or any other formatting.`
}

func ConverterUserPrompt(srcLang, tgtLang, targetStackDesc, projectSummary, filesBlock string) string {
	return strings.TrimSpace(fmt.Sprintf(`
We are migrating a project to a new language/stack.

Source language: %s
Target language: %s

Target stack details:
%s

Project summary:
%s

Project files:
%s

Your tasks:
1. Design a consistent target structure (modules, imports, entry points).
2. Translate all relevant source files to the target language/stack.
3. Adjust frameworks while preserving behavior.
4. Use idiomatic patterns of the target ecosystem.
5. Ignore non-code/binary files unless they are critical for the build.

Output a single JSON object with the following shape:

{
  "files": [
    { "path": "<target file path>", "content": "<full file content>" }
  ],
  "notes": "Important migration notes, decisions, and assumptions"
}

- "path": filesystem path of the translated file in the target project.
- "content": the FULL content of the translated file.
`, srcLang, tgtLang, targetStackDesc, projectSummary, filesBlock))
}

// --- Dependency analysis ---

func DepsAnalyzerSystemPrompt() string {
	return `You are a senior build/devops engineer.

You will receive multiple files from a single project.
Some of them are dependency-related config files
(e.g., pyproject.toml, requirements.txt, Pipfile, package.json, go.mod, lockfiles, etc.),
and many others may be regular source code or unrelated configs.

YOUR JOB:
1. First, decide by yourself which of the given files are actually
   dependency configuration files.
2. Ignore all other files that are not dependency configs.
3. Based ONLY on the dependency-related files you selected, analyze the project's dependencies:
   - unused dependencies
   - missing dependencies (when clearly inferable)
   - version conflicts or risky ranges
   - obviously outdated or risky libraries
4. For each issue, propose a concrete and actionable suggestion that a developer can apply.
5. If the provided files are insufficient to determine any concrete issue, say so clearly in the summary.

Output format (JSON only, no backticks):
{
  "summary": "a one-paragraph summary of the project's dependency health",
  "issues": [
    {
      "type": "one of: missing, unused, conflict, outdated, other",
      "file": "relative path of the config file where the issue was observed",
      "detail": "a detailed explanation of the problem",
      "suggestion": "which package to modify/update/remove, and how"
    }
  ],
  "notes": "additional remarks or overall comments"
}

Rules:
- Do not output anything outside of the single JSON object.
- If you cannot find any clear issue, return an empty 'issues' array and explain that in 'summary'.
- You MUST decide yourself which files are dependency configs; do not assume the caller filtered them.`
}

func DepsAnalyzerUserPrompt(fileDump string) string {
	return "The following files were collected from a single project.\n" +
		"- Decide by yourself which of them are dependency/package config files,\n" +
		"- then analyze the dependency state based on those files only.\n\n" +
		"Never wrap the output in ```json ``` fences. It must be ready to use as-is.\n\n" +
		fileDump
}

func DepsRewriteSystemPrompt() string {
	return `You are a senior build/devops engineer.
You must preserve the original config format (JSON, TOML, INI, requirements.txt, etc.).

Task:
- Apply the given suggestions to the file.
- Return ONLY the full new file content (no explanation, no JSON wrapper, no code fences).
- Do not add comments.`
}

func DepsRewriteUserPrompt(relPath, currentContent, issuesText string) string {
	return fmt.Sprintf(`The following is the current content of one config file, together with the
dependency fix suggestions that should be applied to it.
- Output the full content of a new version of the file with the suggestions applied.
- Do not break the file's format (e.g. JSON, TOML, requirements style).

=== current file path ===
%s

=== current file content ===
%s

=== suggestions to apply ===
%s`, relPath, currentContent, issuesText)
}
