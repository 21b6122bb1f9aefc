package utils

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Paragraph, line, word, then character boundaries.
var separators = []string{"\n\n", "\n", " ", ""}

// SplitText splits text into chunks of at most chunkSize characters, preferring
// paragraph and line boundaries, with overlap characters shared between
// neighbouring chunks. Blank input yields no chunks.
func SplitText(text string, chunkSize int, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if chunkSize <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(separators),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil || len(chunks) == 0 {
		return splitRunes(text, chunkSize, overlap)
	}
	return chunks
}

// splitRunes is a plain sliding window over runes.
func splitRunes(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
