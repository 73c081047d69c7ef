package prompts

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageStruct(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		content  string
		expected Message
	}{
		{
			name:     "user message",
			role:     "user",
			content:  "Hello, world!",
			expected: Message{Role: "user", Content: "Hello, world!"},
		},
		{
			name:     "system message",
			role:     "system",
			content:  "You are a helpful assistant.",
			expected: Message{Role: "system", Content: "You are a helpful assistant."},
		},
		{
			name:     "empty content",
			role:     "user",
			content:  "",
			expected: Message{Role: "user", Content: ""},
		},
		{
			name:     "multiline content",
			role:     "assistant",
			content:  "Line 1\nLine 2\nLine 3",
			expected: Message{Role: "assistant", Content: "Line 1\nLine 2\nLine 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message{
				Role:    tt.role,
				Content: tt.content,
			}
			if msg.Role != tt.expected.Role {
				t.Errorf("Message.Role = %q, want %q", msg.Role, tt.expected.Role)
			}
			if msg.Content != tt.expected.Content {
				t.Errorf("Message.Content = %q, want %q", msg.Content, tt.expected.Content)
			}
		})
	}
}

func TestMessageJSONMarshaling(t *testing.T) {
	tests := []struct {
		name    string
		message Message
	}{
		{
			name:    "standard message",
			message: Message{Role: "user", Content: "Hello"},
		},
		{
			name:    "message with special characters",
			message: Message{Role: "assistant", Content: "Quote: \"Hello\""},
		},
		{
			name:    "empty content",
			message: Message{Role: "system", Content: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.message)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}

			var unmarshaled Message
			if err := json.Unmarshal(data, &unmarshaled); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if unmarshaled.Role != tt.message.Role {
				t.Errorf("Unmarshal Role = %q, want %q", unmarshaled.Role, tt.message.Role)
			}
			if unmarshaled.Content != tt.message.Content {
				t.Errorf("Unmarshal Content = %q, want %q", unmarshaled.Content, tt.message.Content)
			}
		})
	}
}

func TestMessageJSONFieldTags(t *testing.T) {
	msg := Message{Role: "user", Content: "test"}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	jsonStr := string(data)
	if !strings.Contains(jsonStr, `"role"`) {
		t.Error("JSON should use 'role' field name")
	}
	if !strings.Contains(jsonStr, `"content"`) {
		t.Error("JSON should use 'content' field name")
	}
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("system text", "user text")
	if len(msgs) != 2 {
		t.Fatalf("BuildMessages() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "system text" {
		t.Errorf("first message = %+v, want system/system text", msgs[0])
	}
	if msgs[1].Role != "user" || msgs[1].Content != "user text" {
		t.Errorf("second message = %+v, want user/user text", msgs[1])
	}
}

func TestAgentSystemPromptListsAllTools(t *testing.T) {
	result := AgentSystemPrompt()

	tools := []string{
		"analyze",
		"refactor_dead_code",
		"refactor_simplify",
		"refactor_partial",
		"convert_language",
		"deps_analyze",
	}
	for _, tool := range tools {
		if !strings.Contains(result, tool) {
			t.Errorf("AgentSystemPrompt() missing tool name %q", tool)
		}
	}

	if !strings.Contains(result, "JSON only") {
		t.Error("AgentSystemPrompt() should demand a JSON-only response")
	}
	if !strings.Contains(result, "Routing rules:") {
		t.Error("AgentSystemPrompt() should include routing rules")
	}
}

func TestAgentUserPrompt(t *testing.T) {
	result := AgentUserPrompt("remove dead code from app.py")

	if !strings.HasPrefix(result, "User request:\n") {
		t.Error("AgentUserPrompt() should start with the request header")
	}
	if !strings.Contains(result, "remove dead code from app.py") {
		t.Error("AgentUserPrompt() should embed the raw request")
	}
	if !strings.HasSuffix(result, "JSON only response:") {
		t.Error("AgentUserPrompt() should end with the JSON-only marker")
	}
}

func TestAnalyzeUserPromptMarkers(t *testing.T) {
	result := AnalyzeUserPrompt("src/app.py", "print('hi')")

	for _, marker := range []string{"File path: src/app.py", "----- CODE START -----", "print('hi')", "----- CODE END -----"} {
		if !strings.Contains(result, marker) {
			t.Errorf("AnalyzeUserPrompt() missing %q", marker)
		}
	}
}

func TestWholeFilePromptsDemandFullCode(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{"dead code", DeadCodeUserPrompt("a.py", "x = 1")},
		{"simplify", SimplifyUserPrompt("a.py", "x = 1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.result, "Return ONLY the full updated code for this file.") {
				t.Error("whole-file prompt should demand the full updated code")
			}
			if !strings.Contains(tt.result, "----- CODE START -----") {
				t.Error("whole-file prompt should delimit the code block")
			}
			if !strings.Contains(tt.result, "File path: a.py") {
				t.Error("whole-file prompt should name the file")
			}
		})
	}
}

func TestSnippetUserPrompt(t *testing.T) {
	tests := []struct {
		name     string
		global   string
		note     string
		contains []string
	}{
		{
			name:     "both instructions given",
			global:   "prefer guard clauses",
			note:     "keep naming",
			contains: []string{"Global instruction: prefer guard clauses", "User note: keep naming"},
		},
		{
			name:     "empty instructions default to N/A",
			global:   "",
			note:     "",
			contains: []string{"Global instruction: N/A", "User note: N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SnippetUserPrompt("File: a.py, lines 3-7", "cleanup", tt.global, tt.note, "x = 1")

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("SnippetUserPrompt() missing %q in:\n%s", expected, result)
				}
			}
			if !strings.Contains(result, "----- SNIPPET START -----") || !strings.Contains(result, "----- SNIPPET END -----") {
				t.Error("SnippetUserPrompt() should delimit the snippet")
			}
			if !strings.Contains(result, "Refactor kind: cleanup") {
				t.Error("SnippetUserPrompt() should state the refactor kind")
			}
		})
	}
}

func TestConverterPrompts(t *testing.T) {
	system := ConverterSystemPrompt()
	if !strings.Contains(system, "CRITICAL BEHAVIOR RULES") {
		t.Error("ConverterSystemPrompt() missing behavior rules header")
	}
	if !strings.Contains(system, `"files"`) || !strings.Contains(system, `"notes"`) {
		t.Error("ConverterSystemPrompt() should describe the JSON output shape")
	}

	user := ConverterUserPrompt("python", "go", "cobra CLI", "a small CLI", "FILE: a.py\n...")
	for _, expected := range []string{"Source language: python", "Target language: go", "cobra CLI", "a small CLI", "FILE: a.py"} {
		if !strings.Contains(user, expected) {
			t.Errorf("ConverterUserPrompt() missing %q", expected)
		}
	}
}

func TestDepsPrompts(t *testing.T) {
	system := DepsAnalyzerSystemPrompt()
	for _, expected := range []string{"missing", "unused", "conflict", "outdated", "other", `"summary"`, `"issues"`, `"notes"`} {
		if !strings.Contains(system, expected) {
			t.Errorf("DepsAnalyzerSystemPrompt() missing %q", expected)
		}
	}

	user := DepsAnalyzerUserPrompt("=== requirements.txt ===\nflask==1.0")
	if !strings.Contains(user, "=== requirements.txt ===") {
		t.Error("DepsAnalyzerUserPrompt() should embed the file dump")
	}

	rewrite := DepsRewriteUserPrompt("requirements.txt", "flask==1.0", "- update flask")
	for _, expected := range []string{"=== current file path ===", "requirements.txt", "=== current file content ===", "flask==1.0", "=== suggestions to apply ===", "- update flask"} {
		if !strings.Contains(rewrite, expected) {
			t.Errorf("DepsRewriteUserPrompt() missing %q", expected)
		}
	}
}

func TestPromptConsistency(t *testing.T) {
	// Static prompts must be identical across calls.
	if AgentSystemPrompt() != AgentSystemPrompt() {
		t.Error("AgentSystemPrompt() should return consistent results across calls")
	}
	if ConverterSystemPrompt() != ConverterSystemPrompt() {
		t.Error("ConverterSystemPrompt() should return consistent results across calls")
	}
	if DepsAnalyzerSystemPrompt() == "" || SnippetSystemPrompt() == "" {
		t.Error("system prompts should not be empty")
	}
}
