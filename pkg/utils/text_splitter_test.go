package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 100, 10)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := "abcdefghij" // 10 runes
	chunks := SplitText(text, 4, 2)

	assert.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
}

func TestSplitTextBadOverlapFallsBack(t *testing.T) {
	text := strings.Repeat("a", 10)
	chunks := SplitText(text, 4, 4)

	// overlap >= chunkSize degrades to non-overlapping chunks.
	assert.Equal(t, []string{"aaaa", "aaaa", "aa"}, chunks)
}

func TestSplitTextRuneSafe(t *testing.T) {
	text := strings.Repeat("é", 10)
	chunks := SplitText(text, 4, 0)

	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c, "é"))
	}
}
