package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Reads content and derives title from filename", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "curie.txt")
		require.NoError(t, os.WriteFile(path, []byte("Marie Curie researched radioactivity."), 0o600))

		doc, err := NewDocumentFromFile(path, Metadata{"topic": "science"})

		require.NoError(t, err)
		assert.Equal(t, "curie", doc.Title)
		assert.Equal(t, path, doc.Source)
		assert.Equal(t, "Marie Curie researched radioactivity.", doc.Content)
		assert.Equal(t, "science", doc.Metadata["topic"])
		assert.NotEqual(t, uuid.Nil, doc.RID)
	})

	t.Run("Missing file fails", func(t *testing.T) {
		_, err := NewDocumentFromFile(filepath.Join(t.TempDir(), "missing.txt"), nil)

		assert.Error(t, err)
	})

	t.Run("Nil metadata is allowed", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "plain.md")
		require.NoError(t, os.WriteFile(path, []byte("# Heading"), 0o600))

		doc, err := NewDocumentFromFile(path, nil)

		require.NoError(t, err)
		assert.Nil(t, doc.Metadata)
	})
}
