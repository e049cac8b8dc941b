package pipeline

import (
	"fmt"
	"strings"

	"github.com/siherrmann/trailrag/model"
)

// SentenceChunker creates a chunker that groups up to maxSentencesPerChunk
// sentences into one passage. Passage ids are derived from the document id
// and chunk index, stable across runs.
func SentenceChunker(maxSentencesPerChunk int) ChunkFunc {
	return func(text string, docID string) ([]*model.Passage, error) {
		if maxSentencesPerChunk <= 0 {
			return nil, fmt.Errorf("max sentences per chunk must be positive")
		}

		// Handle empty or whitespace-only text
		if strings.TrimSpace(text) == "" {
			return []*model.Passage{}, nil
		}

		text = strings.ReplaceAll(text, "\n", " ")
		text = strings.ReplaceAll(text, "! ", "!|")
		text = strings.ReplaceAll(text, "? ", "?|")
		text = strings.ReplaceAll(text, ". ", ".|")

		var sentences []string
		for _, s := range strings.Split(text, "|") {
			s = strings.TrimSpace(s)
			if s != "" {
				sentences = append(sentences, s)
			}
		}

		var passages []*model.Passage
		var current []string
		chunkIdx := 0
		pos := 0

		flush := func() {
			content := strings.Join(current, " ")
			passages = append(passages, &model.Passage{
				ID:         fmt.Sprintf("%s::p%d", docID, chunkIdx),
				DocumentID: docID,
				Text:       content,
				StartPos:   pos,
				EndPos:     pos + len(content),
			})
			pos += len(content) + 1
			current = nil
			chunkIdx++
		}

		for _, sentence := range sentences {
			current = append(current, sentence)
			if len(current) >= maxSentencesPerChunk {
				flush()
			}
		}
		if len(current) > 0 {
			flush()
		}

		return passages, nil
	}
}

// WordWindowChunker creates a chunker that splits text into overlapping
// word windows of maxWords words, sliding by maxWords-overlap. Overlapping
// spans become independent passages.
func WordWindowChunker(maxWords, overlap int) ChunkFunc {
	return func(text string, docID string) ([]*model.Passage, error) {
		if maxWords <= 0 {
			return nil, fmt.Errorf("max words per chunk must be positive")
		}
		if overlap < 0 || overlap >= maxWords {
			return nil, fmt.Errorf("overlap must be in [0, max words), got %d", overlap)
		}

		words := strings.Fields(text)
		if len(words) == 0 {
			return []*model.Passage{}, nil
		}

		// Character offsets of the normalized (single-space joined) text
		starts := make([]int, len(words))
		pos := 0
		for i, word := range words {
			starts[i] = pos
			pos += len(word) + 1
		}

		var passages []*model.Passage
		start := 0
		chunkIdx := 0

		for start < len(words) {
			end := min(len(words), start+maxWords)
			content := strings.Join(words[start:end], " ")

			passages = append(passages, &model.Passage{
				ID:         fmt.Sprintf("%s::p%d", docID, chunkIdx),
				DocumentID: docID,
				Text:       content,
				StartPos:   starts[start],
				EndPos:     starts[start] + len(content),
			})

			if end == len(words) {
				break
			}
			start = end - overlap
			chunkIdx++
		}

		return passages, nil
	}
}
