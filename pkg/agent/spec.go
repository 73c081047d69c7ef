package agent

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// ToolSpec is the routing decision for one request. It keeps the model's raw
// JSON and reads fields through tolerant accessors, since models sometimes
// send numbers as strings, line numbers as floats, and so on.
type ToolSpec struct {
	raw []byte
}

// SpecFromObject wraps an already-parsed JSON object.
func SpecFromObject(obj map[string]interface{}) (ToolSpec, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return ToolSpec{}, err
	}
	return ToolSpec{raw: raw}, nil
}

// NewSpec builds a spec from explicit fields, the way the direct CLI commands
// do. Nil fields produce a spec with only the tool name.
func NewSpec(tool string, fields map[string]interface{}) ToolSpec {
	obj := map[string]interface{}{"tool": tool}
	for k, v := range fields {
		obj[k] = v
	}
	raw, _ := json.Marshal(obj)
	return ToolSpec{raw: raw}
}

// Raw returns the spec as compact JSON.
func (s ToolSpec) Raw() string {
	return string(s.raw)
}

func (s ToolSpec) field(name string) gjson.Result {
	return gjson.GetBytes(s.raw, name)
}

func (s ToolSpec) stringOr(name, fallback string) string {
	r := s.field(name)
	if !r.Exists() || r.String() == "" {
		return fallback
	}
	return r.String()
}

// Tool returns the routed tool name.
func (s ToolSpec) Tool() string { return s.field("tool").String() }

// Path returns the target path, defaulting to the current directory.
func (s ToolSpec) Path() string { return s.stringOr("path", ".") }

// Summary reports whether the analyze tool should summarize (default true).
func (s ToolSpec) Summary() bool {
	r := s.field("summary")
	if !r.Exists() {
		return true
	}
	return r.Bool()
}

// StartLine returns the 1-based start line (default 1).
func (s ToolSpec) StartLine() int {
	r := s.field("start_line")
	if !r.Exists() {
		return 1
	}
	return int(r.Int())
}

// EndLine returns the 1-based inclusive end line, defaulting to StartLine.
func (s ToolSpec) EndLine() int {
	r := s.field("end_line")
	if !r.Exists() {
		return s.StartLine()
	}
	return int(r.Int())
}

// Kind returns the partial-refactor kind (default "custom").
func (s ToolSpec) Kind() string { return s.stringOr("kind", "custom") }

// Instruction returns the per-selection user note.
func (s ToolSpec) Instruction() string { return s.field("instruction").String() }

// GlobalInstruction returns the request-wide refactoring guidance.
func (s ToolSpec) GlobalInstruction() string { return s.field("global_instruction").String() }

// SrcLang returns the conversion source language.
func (s ToolSpec) SrcLang() string { return s.field("src_lang").String() }

// TgtLang returns the conversion target language.
func (s ToolSpec) TgtLang() string { return s.field("tgt_lang").String() }

// TargetStackDesc returns the target stack description.
func (s ToolSpec) TargetStackDesc() string { return s.field("target_stack_desc").String() }

// Scope returns the conversion scope: "file", "project" or "auto" (default).
func (s ToolSpec) Scope() string { return s.stringOr("scope", "auto") }

// Explanation returns the router's optional natural-language explanation.
func (s ToolSpec) Explanation() string { return s.field("explanation").String() }

// DryRun reports whether a refactor should only preview its changes.
func (s ToolSpec) DryRun() bool { return s.field("dry_run").Bool() }
