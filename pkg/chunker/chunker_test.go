package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkByChars(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		overlap  int
		want     []string
	}{
		{
			name:     "short text returns single chunk",
			text:     "hello world",
			maxChars: 100,
			overlap:  0,
			want:     []string{"hello world"},
		},
		{
			name:     "empty string returns single empty chunk",
			text:     "",
			maxChars: 8000,
			overlap:  200,
			want:     []string{""},
		},
		{
			name:     "exact max chars returns single chunk",
			text:     strings.Repeat("a", 100),
			maxChars: 100,
			overlap:  0,
			want:     []string{strings.Repeat("a", 100)},
		},
		{
			name:     "long text produces multiple chunks",
			text:     strings.Repeat("a", 250),
			maxChars: 100,
			overlap:  0,
			want: []string{
				strings.Repeat("a", 100),
				strings.Repeat("a", 100),
				strings.Repeat("a", 50),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChunkByChars(tt.text, tt.maxChars, tt.overlap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunkByCharsOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 3) // 30 chars
	chunks, err := ChunkByChars(text, 15, 5)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	// The last 5 chars of a chunk must reappear at the start of the next one.
	first := chunks[0]
	second := chunks[1]
	assert.Equal(t, first[len(first)-5:], second[:5])
}

func TestChunkByCharsCoversAllText(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks, err := ChunkByChars(text, 120, 20)
	require.NoError(t, err)

	reconstructed := chunks[0]
	for _, chunk := range chunks[1:] {
		reconstructed += chunk[20:]
	}
	assert.Len(t, reconstructed, len(text))
}

func TestChunkByCharsErrors(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
		wantErr  string
	}{
		{name: "zero max chars", maxChars: 0, overlap: 0, wantErr: "max_chars must be > 0"},
		{name: "negative max chars", maxChars: -10, overlap: 0, wantErr: "max_chars must be > 0"},
		{name: "negative overlap", maxChars: 100, overlap: -1, wantErr: "overlap must be >= 0"},
		{name: "overlap not below max chars", maxChars: 100, overlap: 100, wantErr: "overlap must be < max_chars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkByChars("abc", tt.maxChars, tt.overlap)
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestChunkWithLineInfoShortText(t *testing.T) {
	text := "line1\nline2\nline3\n"
	result := ChunkWithLineInfo(text, 1000, 200)

	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].StartLine)
	assert.Equal(t, text, result[0].Text)
}

func TestChunkWithLineInfoEmptyText(t *testing.T) {
	result := ChunkWithLineInfo("", 8000, 200)
	assert.Empty(t, result)
}

func TestChunkWithLineInfoStartLines(t *testing.T) {
	// 10 lines of 10 characters each.
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "line%05d\n", i)
	}
	text := sb.String()

	result := ChunkWithLineInfo(text, 50, 0)
	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0].StartLine)
	assert.Equal(t, 6, result[1].StartLine)
}

func TestChunkWithLineInfoCoversAllContent(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "row-%d\n", i)
	}
	text := sb.String()

	result := ChunkWithLineInfo(text, 40, 0)
	var combined strings.Builder
	for _, chunk := range result {
		combined.WriteString(chunk.Text)
	}
	assert.Equal(t, text, combined.String())
}

func TestChunkWithLineInfoOverlapRepeatsTail(t *testing.T) {
	// 6 lines of 10 characters; maxChars fits 3 lines; overlap retains 1 line.
	lines := make([]string, 6)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%04d\n", i+1)
	}
	text := strings.Join(lines, "")

	result := ChunkWithLineInfo(text, 30, 10)
	require.Len(t, result, 3)

	assert.Equal(t, lines[0]+lines[1]+lines[2], result[0].Text)
	assert.Equal(t, lines[2]+lines[3]+lines[4], result[1].Text)
	assert.Equal(t, lines[4]+lines[5], result[2].Text)

	// When overlap lines are retained, the reported start line carries over
	// from the previous chunk.
	assert.Equal(t, 1, result[0].StartLine)
	assert.Equal(t, 1, result[1].StartLine)
	assert.Equal(t, 1, result[2].StartLine)
}

func TestChunkWithLineInfoOversizedLinesAlwaysAdvance(t *testing.T) {
	// Each line alone nearly fills a chunk, so the retained overlap tail can
	// never make room for the next line. The chunker must drop the tail and
	// keep moving instead of flushing the same tail forever.
	lines := []string{
		strings.Repeat("a", 49) + "\n",
		strings.Repeat("b", 49) + "\n",
		strings.Repeat("c", 49) + "\n",
	}
	text := strings.Join(lines, "")

	result := ChunkWithLineInfo(text, 60, 100)
	require.Len(t, result, 3)
	for i, chunk := range result {
		assert.Equal(t, i+1, chunk.StartLine)
		assert.Equal(t, lines[i], chunk.Text)
	}
}

func TestChunkWithLineInfoLastLineWithoutNewline(t *testing.T) {
	text := "first\nsecond"
	result := ChunkWithLineInfo(text, 1000, 0)

	require.Len(t, result, 1)
	assert.Equal(t, "first\nsecond", result[0].Text)
}

func BenchmarkChunkByChars(b *testing.B) {
	text := strings.Repeat("some source code line\n", 5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ChunkByChars(text, 8000, 200)
	}
}

func BenchmarkChunkWithLineInfo(b *testing.B) {
	text := strings.Repeat("some source code line\n", 5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ChunkWithLineInfo(text, 8000, 200)
	}
}
