package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/recode/pkg/llm"
)

type fakeJSONClient struct {
	obj        map[string]interface{}
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeJSONClient) AskJSON(systemPrompt, userPrompt string) (map[string]interface{}, string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return nil, "", f.err
	}
	return f.obj, "", nil
}

func singleFileSnapshot() ProjectSnapshot {
	return ProjectSnapshot{
		Root: ".",
		Files: []ProjectFile{
			{Path: "app.py", Language: "python", Content: "pass"},
		},
	}
}

func TestBuildFilesBlockEmpty(t *testing.T) {
	assert.Equal(t, "", buildFilesBlock(ProjectSnapshot{Root: "src"}))
}

func TestBuildFilesBlockSingleFile(t *testing.T) {
	snapshot := ProjectSnapshot{
		Root: "src",
		Files: []ProjectFile{
			{Path: "main.py", Language: "python", Content: "print('hello')"},
		},
	}

	block := buildFilesBlock(snapshot)
	assert.Contains(t, block, "FILE: main.py")
	assert.Contains(t, block, "LANG: python")
	assert.Contains(t, block, "print('hello')")
}

func TestBuildFilesBlockMultipleFiles(t *testing.T) {
	snapshot := ProjectSnapshot{
		Root: ".",
		Files: []ProjectFile{
			{Path: "a.py", Language: "python", Content: "# a"},
			{Path: "b.py", Language: "python", Content: "# b"},
		},
	}

	block := buildFilesBlock(snapshot)
	assert.Equal(t, 2, strings.Count(block, "FILE:"))
	assert.Contains(t, block, "FILE: a.py")
	assert.Contains(t, block, "FILE: b.py")
}

func TestBuildFilesBlockUnknownLanguageFallback(t *testing.T) {
	snapshot := ProjectSnapshot{
		Root: ".",
		Files: []ProjectFile{
			{Path: "x.weird", Content: "fn main() {}"},
		},
	}

	assert.Contains(t, buildFilesBlock(snapshot), "LANG: unknown")
}

func TestRunPromptContainsRequestDetails(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{"files": []interface{}{}, "notes": ""}}

	snapshot := singleFileSnapshot()
	snapshot.Summary = "A web server"
	_, err := Run(client, snapshot, "Python", "TypeScript", "Node.js")
	require.NoError(t, err)

	assert.Contains(t, client.lastUser, "Python")
	assert.Contains(t, client.lastUser, "TypeScript")
	assert.Contains(t, client.lastUser, "Node.js")
	assert.Contains(t, client.lastUser, "A web server")
	assert.Contains(t, client.lastUser, "FILE: app.py")
}

func TestRunNoSummaryFallback(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{"files": []interface{}{}, "notes": ""}}

	_, err := Run(client, singleFileSnapshot(), "Python", "Java", "Spring Boot")
	require.NoError(t, err)
	assert.Contains(t, client.lastUser, "(no summary provided)")
}

func TestRunSuccessfulConversion(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{
		"files": []interface{}{
			map[string]interface{}{"path": "main.ts", "content": "console.log(1)"},
		},
		"notes": "conversion complete",
	}}

	result, err := Run(client, singleFileSnapshot(), "Python", "TypeScript", "Node.js")
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "main.ts", result.Files[0].Path)
	assert.Equal(t, "console.log(1)", result.Files[0].Content)
	assert.Equal(t, "conversion complete", result.Notes)
}

func TestRunNonObjectResponse(t *testing.T) {
	client := &fakeJSONClient{err: llm.ErrNotJSONObject}

	_, err := Run(client, singleFileSnapshot(), "Python", "Go", "stdlib")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNotJSONObject)
	assert.Contains(t, err.Error(), "language conversion failed")
}

func TestRunFiltersInvalidFiles(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{
		"files": []interface{}{
			map[string]interface{}{"path": "good.ts", "content": "ok"},
			map[string]interface{}{"path": float64(123), "content": "bad path"},
			map[string]interface{}{"path": "no_content.ts"},
			"not an object",
		},
		"notes": "",
	}}

	result, err := Run(client, singleFileSnapshot(), "Python", "TypeScript", "Node.js")
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "good.ts", result.Files[0].Path)
}

func TestRunNotesCoercedToString(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{
		"files": []interface{}{},
		"notes": float64(42),
	}}

	result, err := Run(client, singleFileSnapshot(), "Python", "Rust", "tokio")
	require.NoError(t, err)
	assert.Equal(t, "42", result.Notes)
}

func TestRunEmptyFilesInResponse(t *testing.T) {
	client := &fakeJSONClient{obj: map[string]interface{}{
		"files": []interface{}{},
		"notes": "nothing to convert",
	}}

	result, err := Run(client, singleFileSnapshot(), "Python", "C", "GCC")
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, "nothing to convert", result.Notes)
}

func TestBuildSnapshot(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.py")
	util := filepath.Join(dir, "sub", "util.rs")
	require.NoError(t, os.WriteFile(main, []byte("print(1)"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Dir(util), 0755))
	require.NoError(t, os.WriteFile(util, []byte("fn main() {}"), 0644))

	snapshot, skipped, err := BuildSnapshot(dir, []string{main, util}, "demo project")
	require.NoError(t, err)
	assert.Empty(t, skipped)

	assert.Equal(t, dir, snapshot.Root)
	assert.Equal(t, "demo project", snapshot.Summary)
	require.Len(t, snapshot.Files, 2)
	assert.Equal(t, "main.py", snapshot.Files[0].Path)
	assert.Equal(t, "python", snapshot.Files[0].Language)
	assert.Equal(t, "print(1)", snapshot.Files[0].Content)
	assert.Equal(t, filepath.Join("sub", "util.rs"), snapshot.Files[1].Path)
	assert.Equal(t, "rust", snapshot.Files[1].Language)
}

func TestBuildSnapshotSkipsNonUTF8(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	bad := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(good, []byte("ok"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, 0x00, 0x01}, 0644))

	snapshot, skipped, err := BuildSnapshot(dir, []string{good, bad}, "")
	require.NoError(t, err)

	require.Len(t, snapshot.Files, 1)
	assert.Equal(t, "good.py", snapshot.Files[0].Path)
	assert.Equal(t, []string{bad}, skipped)
}

func TestBuildSnapshotMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, _, err := BuildSnapshot(dir, []string{filepath.Join(dir, "nope.py")}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.py", "python"},
		{"src/app.GO", "go"},
		{"index.tsx", "typescript"},
		{"lib.rs", "rust"},
		{"notes.txt", "unknown"},
		{"Makefile", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), tt.path)
	}
}

func TestSanitizeLanguage(t *testing.T) {
	assert.Equal(t, "Go", SanitizeLanguage("Go"))
	assert.Equal(t, "C__", SanitizeLanguage("C++"))
	assert.Equal(t, "Objective-C", SanitizeLanguage("Objective-C"))
	assert.Equal(t, "F_", SanitizeLanguage("F#"))
	assert.Equal(t, "Visual_Basic", SanitizeLanguage("Visual Basic"))
}

func TestOutputDirFor(t *testing.T) {
	root := filepath.Join("work", "myapp")
	assert.Equal(t, filepath.Join("work", "myapp_converted_to_TypeScript"), OutputDirFor(root, "TypeScript"))
	assert.Equal(t, filepath.Join("work", "myapp_converted_to_C__"), OutputDirFor(root, "C++"))
}

func TestNormalizeLanguageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python", "Python"},
		{"PYTHON", "Python"},
		{"go", "Go"},
		{"JavaScript", "JavaScript"},
		{"c++", "C++"},
		{"  rust  ", "Rust"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLanguageName(tt.in), tt.in)
	}
}
