package refactor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/recode/pkg/changetracker"
	"github.com/alantheprice/recode/pkg/utils"
)

type fakeModelClient struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeModelClient) Ask(systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func writeLines(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestAnalyzeCodeSendsCodeToModel(t *testing.T) {
	chdirTemp(t)
	client := &fakeModelClient{response: "looks fine overall"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	result, err := engine.AnalyzeCode("app.py", "def foo(): pass")
	require.NoError(t, err)

	assert.Equal(t, "looks fine overall", result)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, client.lastUser, "app.py")
	assert.Contains(t, client.lastUser, "def foo(): pass")
}

func TestAnalyzeCodeTruncatesLongInput(t *testing.T) {
	chdirTemp(t)
	client := &fakeModelClient{response: "analysis"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	_, err := engine.AnalyzeCode("big.py", strings.Repeat("@", 9000))
	require.NoError(t, err)

	assert.Contains(t, client.lastUser, strings.Repeat("@", 8000))
	assert.NotContains(t, client.lastUser, strings.Repeat("@", 8001))
}

func TestRemoveDeadCodeStripsFences(t *testing.T) {
	chdirTemp(t)
	client := &fakeModelClient{response: "```python\nprint('kept')\n```"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	result, err := engine.RemoveDeadCode("app.py", "print('kept')\nunused = 1")
	require.NoError(t, err)
	assert.Equal(t, "print('kept')", result)
}

func TestSimplifyCodeStripsFences(t *testing.T) {
	chdirTemp(t)
	client := &fakeModelClient{response: "```\nreturn a + b\n```"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	result, err := engine.SimplifyCode("app.py", "tmp = a + b\nreturn tmp")
	require.NoError(t, err)
	assert.Equal(t, "return a + b", result)
}

func TestPartialRefactorDryRun(t *testing.T) {
	dir := chdirTemp(t)
	writeLines(t, filepath.Join(dir, "app.py"), "a\nb\nc\nd\ne\n")

	client := &fakeModelClient{response: "B\nC"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "app.py", StartLine: 2, EndLine: 3, UserInstruction: "tighten"},
	}, "", true)

	require.Len(t, results, 1)
	res := results[0]
	assert.Empty(t, res.Err)
	assert.False(t, res.Applied)
	assert.Equal(t, "app.py", res.FilePath)
	assert.Equal(t, 2, res.StartLine)
	assert.Equal(t, 3, res.EndLine)
	assert.Equal(t, "b\nc", res.OriginalSnippet)
	assert.Equal(t, "B\nC", res.RefactoredSnippet)

	// An unset kind is sent to the model as a custom refactor.
	assert.Contains(t, client.lastUser, "custom")

	content, err := os.ReadFile(filepath.Join(dir, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nd\ne\n", string(content))
}

func TestPartialRefactorAppliesChanges(t *testing.T) {
	dir := chdirTemp(t)
	writeLines(t, filepath.Join(dir, "app.py"), "a\nb\nc\nd\ne\n")

	client := &fakeModelClient{response: "B\nC"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "app.py", StartLine: 2, EndLine: 3, Kind: KindCleanup},
	}, "", false)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Err)
	assert.True(t, results[0].Applied)

	content, err := os.ReadFile(filepath.Join(dir, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nC\nd\ne\n", string(content))

	backups, err := os.ReadDir(filepath.Join(dir, ".recode", "backups"))
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestPartialRefactorRecordsChange(t *testing.T) {
	dir := chdirTemp(t)
	writeLines(t, filepath.Join(dir, "app.py"), "a\nb\nc\n")

	client := &fakeModelClient{response: "B"}
	engine := NewEngine(client, utils.GetLogger(true), 0)
	engine.SetRevisionID("req-123")

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "app.py", StartLine: 2, EndLine: 2, Kind: KindCleanup},
	}, "", false)

	require.Len(t, results, 1)
	require.Empty(t, results[0].Err)

	changes, err := changetracker.ListChanges()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "app.py", changes[0].Filename)
	assert.Equal(t, "req-123", changes[0].RequestHash)
	assert.Equal(t, "Partial refactor (cleanup) of lines 2-2", changes[0].Description)
	assert.Equal(t, "a\nb\nc\n", changes[0].OriginalCode)
	assert.Equal(t, "a\nB\nc\n", changes[0].NewCode)
}

func TestPartialRefactorMissingFile(t *testing.T) {
	dir := chdirTemp(t)

	client := &fakeModelClient{response: "unused"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "missing.py", StartLine: 1, EndLine: 1},
	}, "", true)

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Err, "file not found: ")
	assert.False(t, results[0].Applied)
	assert.Equal(t, 0, client.calls)
}

func TestPartialRefactorModelError(t *testing.T) {
	dir := chdirTemp(t)
	writeLines(t, filepath.Join(dir, "app.py"), "a\nb\n")

	client := &fakeModelClient{err: errors.New("boom")}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "app.py", StartLine: 1, EndLine: 2},
	}, "", true)

	require.Len(t, results, 1)
	assert.Equal(t, "model error: boom", results[0].Err)
	assert.False(t, results[0].Applied)
}

func TestPartialRefactorClampsRange(t *testing.T) {
	dir := chdirTemp(t)
	writeLines(t, filepath.Join(dir, "app.py"), "a\nb\nc\n")

	client := &fakeModelClient{response: "X"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor(dir, []Selection{
		{FilePath: "app.py", StartLine: 2, EndLine: 99},
	}, "", true)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Err)
	assert.Equal(t, 2, results[0].StartLine)
	assert.Equal(t, 3, results[0].EndLine)
	assert.Equal(t, "b\nc", results[0].OriginalSnippet)
}

func TestPartialRefactorAbsolutePath(t *testing.T) {
	dir := chdirTemp(t)
	abs := filepath.Join(dir, "app.py")
	writeLines(t, abs, "a\nb\n")

	client := &fakeModelClient{response: "A"}
	engine := NewEngine(client, utils.GetLogger(true), 0)

	results := engine.PartialRefactor("/nonexistent/root", []Selection{
		{FilePath: abs, StartLine: 1, EndLine: 1},
	}, "", true)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Err)
	assert.Equal(t, "a", results[0].OriginalSnippet)
}

func TestValidKindsIncludesCustom(t *testing.T) {
	kinds := ValidKinds()
	assert.Contains(t, kinds, KindCustom)
	assert.Contains(t, kinds, KindStyle)
	assert.Len(t, kinds, 6)
}
