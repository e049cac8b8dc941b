package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/trailrag/model"
)

var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// LoadDocuments reads all .txt and .md files under root in fsys and returns
// them as documents. WalkDir visits files in lexical order, so repeated runs
// on the same input produce the same document order.
func LoadDocuments(fsys fs.FS, root string) ([]*model.Document, error) {
	var docs []*model.Document

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		filename := filepath.Base(path)
		title := strings.TrimSuffix(filename, filepath.Ext(filename))

		docs = append(docs, &model.Document{
			RID:     uuid.New(),
			Title:   title,
			Source:  path,
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// LoadDocumentsFromDir reads all supported files under a directory on disk
func LoadDocumentsFromDir(dir string) ([]*model.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		doc, err := model.NewDocumentFromFile(dir, nil)
		if err != nil {
			return nil, err
		}
		return []*model.Document{doc}, nil
	}
	return LoadDocuments(os.DirFS(dir), ".")
}
