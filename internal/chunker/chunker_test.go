package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.chunkSize, tt.overlap)
			require.Error(t, err)
			assert.True(t, domain.IsConfigError(err))
		})
	}
}

func TestSplit_EmptyContent(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)

	chunks, err := c.Split("doc-1", "")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Split("doc-1", "   \n\t ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortContentSingleChunk(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)

	chunks, err := c.Split("doc-1", "hello world")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 11, chunks[0].End)
}

func TestSplit_ChunksNeverExceedMaxSize(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	content := strings.Repeat("abcdefghij", 30)
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 50)
	}
}

func TestSplit_OverlapAppearsAtBoundaries(t *testing.T) {
	c, err := New(40, 10)
	require.NoError(t, err)

	content := strings.Repeat("0123456789", 20)
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		tail := prev[len(prev)-10:]
		assert.True(t, strings.HasPrefix(chunks[i].Content, tail),
			"chunk %d should start with the trailing overlap of chunk %d", i, i-1)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	c, err := New(60, 10)
	require.NoError(t, err)

	para1 := strings.Repeat("a", 40)
	para2 := strings.Repeat("b", 40)
	content := para1 + "\n\n" + para2

	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// First cut should land just past the paragraph break, not at the
	// hard limit of 60.
	assert.Equal(t, para1+"\n\n", chunks[0].Content)
}

func TestSplit_PrefersSentenceBoundaries(t *testing.T) {
	c, err := New(40, 5)
	require.NoError(t, err)

	content := "The sky is blue. The ocean is deep blue too."
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "The sky is blue. ", chunks[0].Content)
	assert.Contains(t, chunks[1].Content, "The ocean is deep blue too.")
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(80, 20)
	require.NoError(t, err)

	content := "First sentence here. Second sentence follows. Third one too.\n\nA new paragraph with more text in it. And a closing line."

	first, err := c.Split("doc-1", content)
	require.NoError(t, err)
	second, err := c.Split("doc-1", content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplit_CoversWholeDocument(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	content := strings.Repeat("lorem ipsum dolor sit amet. ", 20)
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(content), chunks[len(chunks)-1].End)
	for i := 1; i < len(chunks); i++ {
		// No gaps: each chunk starts inside the previous one.
		assert.LessOrEqual(t, chunks[i].Start, chunks[i-1].End)
	}
}

func TestSplit_HardCutNeverSplitsRunes(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	// Three-byte runes with no sentence or paragraph boundaries force
	// hard cuts at offsets that are not multiples of the rune size.
	content := strings.Repeat("你好世界", 30)
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content), "chunk %d contains invalid UTF-8", i)
	}
	assert.Equal(t, len(content), chunks[len(chunks)-1].End)
}

func TestSplit_MixedWidthRunesStayValid(t *testing.T) {
	c, err := New(40, 10)
	require.NoError(t, err)

	content := strings.Repeat("héllo wörld naïve café ", 15)
	chunks, err := c.Split("doc-1", content)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content), "chunk %d contains invalid UTF-8", i)
		assert.Equal(t, content[chunk.Start:chunk.End], chunk.Content)
	}
}

func TestChunkID_DeterministicAndDistinct(t *testing.T) {
	assert.Equal(t, ChunkID("doc-1", 0), ChunkID("doc-1", 0))
	assert.NotEqual(t, ChunkID("doc-1", 0), ChunkID("doc-1", 1))
	assert.NotEqual(t, ChunkID("doc-1", 0), ChunkID("doc-2", 0))
}
