package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// NewFileStore returns a file-backed store in a per-test temp directory.
func NewFileStore(t *testing.T) *docstore.FileStore {
	t.Helper()
	return docstore.NewFileStore(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
}

// Seed applies fn to the store's document and saves it.
func Seed(t *testing.T, store docstore.Store, fn func(doc *models.Document)) {
	t.Helper()
	err := store.Update(context.Background(), func(doc *models.Document) error {
		fn(doc)
		return nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

// Snapshot loads the current document.
func Snapshot(t *testing.T, store docstore.Store) *models.Document {
	t.Helper()
	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return doc
}
