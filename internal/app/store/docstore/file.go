package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// FileStore keeps the document as one JSON file.
//
// Saves write a temp file in the same directory and rename it over the
// target, so readers never observe a half-written file. A file that fails to
// parse is moved aside to <path>.corrupt-<unix> and replaced by an empty
// document on the next save.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path. The file and its
// directory are created on first save.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the document from disk.
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	return s.load(ctx)
}

// Save writes doc to disk.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// Update runs fn under the writer lock.
func (s *FileStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return runUpdate(ctx, s, fn)
}

// Ping checks that the data directory exists or can be created.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}

func (s *FileStore) load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		s.quarantine(err)
		return models.NewDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

func (s *FileStore) save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc.Normalize()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// quarantine moves an unparsable file aside so the next save does not
// destroy the only copy.
func (s *FileStore) quarantine(parseErr error) {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		s.log.Warn("document unparsable; starting from empty document",
			zap.String("path", s.path),
			zap.NamedError("parse_error", parseErr),
			zap.NamedError("rename_error", err))
		return
	}
	s.log.Warn("document unparsable; moved aside and starting from empty document",
		zap.String("path", s.path),
		zap.String("moved_to", aside),
		zap.Error(parseErr))
}
