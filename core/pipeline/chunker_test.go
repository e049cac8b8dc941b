package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceChunker(t *testing.T) {
	t.Run("Valid chunking with multiple sentences", func(t *testing.T) {
		chunker := SentenceChunker(2)
		text := "This is sentence one. This is sentence two. This is sentence three."

		passages, err := chunker(text, "doc")

		require.NoError(t, err)
		require.Len(t, passages, 2)
		assert.Equal(t, "doc::p0", passages[0].ID)
		assert.Equal(t, "doc::p1", passages[1].ID)
		assert.Contains(t, passages[0].Text, "sentence one")
		assert.Contains(t, passages[0].Text, "sentence two")
		assert.Contains(t, passages[1].Text, "sentence three")

		for _, passage := range passages {
			assert.Equal(t, "doc", passage.DocumentID)
			assert.Equal(t, len(passage.Text), passage.EndPos-passage.StartPos)
		}
	})

	t.Run("Single sentence", func(t *testing.T) {
		chunker := SentenceChunker(3)

		passages, err := chunker("This is a single sentence.", "doc")

		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Contains(t, passages[0].Text, "single sentence")
	})

	t.Run("Different punctuation marks", func(t *testing.T) {
		chunker := SentenceChunker(1)

		passages, err := chunker("Question one? Statement two. Exclamation three!", "doc")

		require.NoError(t, err)
		assert.Len(t, passages, 3)
	})

	t.Run("Empty text yields no passages", func(t *testing.T) {
		chunker := SentenceChunker(2)

		passages, err := chunker("   ", "doc")

		require.NoError(t, err)
		assert.Empty(t, passages)
	})

	t.Run("Error with zero max sentences", func(t *testing.T) {
		chunker := SentenceChunker(0)

		_, err := chunker("Some text.", "doc")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Stable ids across repeated runs", func(t *testing.T) {
		chunker := SentenceChunker(2)
		text := "One. Two. Three. Four. Five."

		first, err := chunker(text, "doc")
		require.NoError(t, err)
		second, err := chunker(text, "doc")
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
			assert.Equal(t, first[i].Text, second[i].Text)
		}
	})
}

func TestWordWindowChunker(t *testing.T) {
	t.Run("Windows slide by max words minus overlap", func(t *testing.T) {
		chunker := WordWindowChunker(4, 2)
		text := "one two three four five six seven eight"

		passages, err := chunker(text, "doc")

		require.NoError(t, err)
		require.Len(t, passages, 3)
		assert.Equal(t, "one two three four", passages[0].Text)
		assert.Equal(t, "three four five six", passages[1].Text)
		assert.Equal(t, "five six seven eight", passages[2].Text)
	})

	t.Run("Overlapping spans are independent passages", func(t *testing.T) {
		chunker := WordWindowChunker(4, 2)
		text := "one two three four five six"

		passages, err := chunker(text, "doc")

		require.NoError(t, err)
		require.Len(t, passages, 2)
		assert.Less(t, passages[1].StartPos, passages[0].EndPos, "Windows should overlap")
		assert.NotEqual(t, passages[0].ID, passages[1].ID)
	})

	t.Run("Text shorter than one window", func(t *testing.T) {
		chunker := WordWindowChunker(10, 3)

		passages, err := chunker("just a few words", "doc")

		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "just a few words", passages[0].Text)
	})

	t.Run("Empty text yields no passages", func(t *testing.T) {
		chunker := WordWindowChunker(4, 1)

		passages, err := chunker("", "doc")

		require.NoError(t, err)
		assert.Empty(t, passages)
	})

	t.Run("Error with non-positive max words", func(t *testing.T) {
		chunker := WordWindowChunker(0, 0)

		_, err := chunker("some words", "doc")

		assert.Error(t, err)
	})

	t.Run("Error with overlap not below max words", func(t *testing.T) {
		chunker := WordWindowChunker(3, 3)

		_, err := chunker("some words here", "doc")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "overlap")
	})
}
