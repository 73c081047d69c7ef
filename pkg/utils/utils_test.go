package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestHash(t *testing.T) {
	h := GenerateRequestHash("remove dead code from app.py")
	assert.Len(t, h, 64)
	assert.Equal(t, h, GenerateRequestHash("remove dead code from app.py"))
	assert.NotEqual(t, h, GenerateRequestHash("simplify app.py"))
}

func TestGenerateFileRevisionHash(t *testing.T) {
	h := GenerateFileRevisionHash("app.py", "a = 1")
	assert.Len(t, h, 64)
	assert.NotEqual(t, h, GenerateFileRevisionHash("app.py", "a = 2"))
	assert.NotEqual(t, h, GenerateFileRevisionHash("other.py", "a = 1"))
}

func TestCreateBackup(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	require.NoError(t, os.WriteFile("app.py", []byte("print('hi')\n"), 0o644))
	require.NoError(t, CreateBackup("app.py"))

	entries, err := os.ReadDir(filepath.Join(".recode", "backups"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "app.py_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".bak"))

	content, err := os.ReadFile(filepath.Join(".recode", "backups", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(content))
}

func TestCreateBackupMissingFile(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	require.NoError(t, CreateBackup("ghost.py"))
	_, err = os.Stat(filepath.Join(".recode", "backups"))
	assert.True(t, os.IsNotExist(err))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Hello World", CapitalizeWords("hello world"))
	assert.Equal(t, "Go", CapitalizeWords("go"))
	// Existing capitals are preserved.
	assert.Equal(t, "PYTHON", CapitalizeWords("PYTHON"))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size))
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exact", TruncateString("exact", 5))
	assert.Equal(t, "a ve...", TruncateString("a very long string", 7))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "", TruncateString("anything", -1))
}

func TestExtractJSONFromLLMResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "fenced json block",
			response: "Here you go:\n```json\n{\"tool\": \"analyze\"}\n```\nDone.",
			want:     `{"tool": "analyze"}`,
		},
		{
			name:     "object with surrounding prose",
			response: `Sure! {"a": 1} hope that helps`,
			want:     `{"a": 1}`,
		},
		{
			name:     "array",
			response: `[1, 2, 3]`,
			want:     `[1, 2, 3]`,
		},
		{
			name:     "no json at all",
			response: "I cannot answer that.",
			wantErr:  true,
		},
		{
			name:     "unclosed object",
			response: `{"a": 1`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONFromLLMResponse(tt.response)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
