// Package textutil provides text chunking and output-file naming helpers
// shared by the enrichment and synthesis layers.
//
// The chunker splits long documents into bounded-length pieces for per-chunk
// LLM calls. It guarantees that concatenating the returned chunks (with no
// separator) reproduces the input byte-for-byte: it only picks cut points,
// it never trims or rewrites content.
package textutil

// DefaultMaxChunkChars is the chunk bound used when callers pass a
// non-positive maximum.
const DefaultMaxChunkChars = 4000

// Chunk splits text into an ordered sequence of pieces, each at most maxChars
// runes long. Cut points prefer, in order: line breaks, sentence ends
// (". ", "! ", "? "), then any whitespace. Whitespace at a cut point stays
// attached to the preceding chunk, so every chunk after the first starts at a
// word boundary.
//
// A single run of non-whitespace longer than maxChars cannot be cut and is
// returned as one oversized chunk rather than split mid-word.
//
// The empty string yields nil.
func Chunk(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	runes := []rune(text)
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= maxChars {
			chunks = append(chunks, string(runes))
			break
		}

		cut := cutPoint(runes, maxChars)
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}

	return chunks
}

// cutPoint returns the index to cut at, in (0, len(runes)]. It scans the
// window runes[:max] backwards for the best boundary; when the window holds
// no whitespace at all it extends forward past the indivisible run instead.
func cutPoint(runes []rune, max int) int {
	window := runes[:max]

	lineBreak := -1
	sentenceEnd := -1
	whitespace := -1

	for i := len(window); i > 0; i-- {
		r := window[i-1]
		if r == '\n' && lineBreak < 0 {
			lineBreak = i
		}
		if isSpace(r) {
			if whitespace < 0 {
				whitespace = i
			}
			if sentenceEnd < 0 && i >= 2 && isSentenceEnd(window[i-2]) {
				sentenceEnd = i
			}
		}
		if lineBreak > 0 {
			break
		}
	}

	switch {
	case lineBreak > 0:
		return lineBreak
	case sentenceEnd > 0:
		return sentenceEnd
	case whitespace > 0:
		return whitespace
	}

	// No whitespace inside the window: take the whole indivisible run,
	// including the whitespace rune that ends it.
	for i := max; i < len(runes); i++ {
		if isSpace(runes[i]) {
			return i + 1
		}
	}
	return len(runes)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
