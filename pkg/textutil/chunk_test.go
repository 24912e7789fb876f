package textutil_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/textutil"
)

func TestChunkEmpty(t *testing.T) {
	t.Parallel()

	if got := textutil.Chunk("", 100); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
}

func TestChunkShortInputIsSingleChunk(t *testing.T) {
	t.Parallel()

	text := "A short paragraph."
	chunks := textutil.Chunk(text, 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1: %v", len(chunks), chunks)
	}
	if chunks[0] != text {
		t.Errorf("chunks[0] = %q, want %q", chunks[0], text)
	}
}

func TestChunkConcatenationReproducesInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"One two three four five six seven eight nine ten.",
		"First paragraph.\n\nSecond paragraph with more words in it.\n\nThird.",
		"Sentence one. Sentence two! Sentence three? Sentence four.",
		"   leading and trailing whitespace preserved   ",
		"unicode: äöü ß 日本語のテキスト and back to ascii words here",
	}

	for _, text := range inputs {
		for _, max := range []int{5, 12, 25, 1000} {
			chunks := textutil.Chunk(text, max)
			if got := strings.Join(chunks, ""); got != text {
				t.Errorf("Chunk(%q, %d): concatenation mismatch\ngot:  %q\nwant: %q", text, max, got, text)
			}
		}
	}
}

func TestChunkRespectsBound(t *testing.T) {
	t.Parallel()

	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!"

	const max = 30
	for i, c := range textutil.Chunk(text, max) {
		if utf8.RuneCountInString(c) > max {
			t.Errorf("chunk %d exceeds bound: %d runes: %q", i, utf8.RuneCountInString(c), c)
		}
	}
}

func TestChunkPrefersSentenceBoundaries(t *testing.T) {
	t.Parallel()

	text := "First sentence here. Second sentence follows after it."
	chunks := textutil.Chunk(text, 25)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ". ") {
		t.Errorf("chunks[0] = %q, want a sentence-end cut", chunks[0])
	}
}

func TestChunkPrefersLineBreaks(t *testing.T) {
	t.Parallel()

	text := "Para one line.\n\nPara two is a bit longer than the first one."
	chunks := textutil.Chunk(text, 30)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("chunks[0] = %q, want a line-break cut", chunks[0])
	}
	if got := strings.Join(chunks, ""); got != text {
		t.Errorf("concatenation mismatch: %q", got)
	}
}

func TestChunkOversizedWordStaysWhole(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 50)
	text := long + " tail"
	chunks := textutil.Chunk(text, 10)

	if got := strings.Join(chunks, ""); got != text {
		t.Fatalf("concatenation mismatch: %q", got)
	}
	if !strings.Contains(chunks[0], long) {
		t.Errorf("oversized word was split: chunks[0] = %q", chunks[0])
	}
}

func TestChunkNonPositiveMaxUsesDefault(t *testing.T) {
	t.Parallel()

	text := "hello world"
	chunks := textutil.Chunk(text, 0)
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("Chunk with max=0 = %v, want single chunk %q", chunks, text)
	}
}
