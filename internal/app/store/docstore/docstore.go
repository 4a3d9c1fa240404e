// Package docstore persists the single care document. Every operation reads
// or writes the whole document; there is no query interface.
//
// Mutations go through Update, which runs load → mutate → save while holding
// a single-writer lock, so two concurrent handlers can no longer overwrite
// each other's changes. Load does not take the lock and always sees the last
// completed save.
package docstore

import (
	"context"
	"errors"

	"github.com/dalemusser/carehub/internal/domain/models"
)

// ErrNoChange may be returned by an Update callback to skip the save step.
// Update then returns nil.
var ErrNoChange = errors.New("docstore: no change")

// Store is the repository for the care document.
type Store interface {
	// Load returns the full document. Missing or unparsable storage yields
	// an empty document rather than an error.
	Load(ctx context.Context) (*models.Document, error)
	// Save overwrites storage with doc.
	Save(ctx context.Context, doc *models.Document) error
	// Update applies fn to a freshly loaded document and saves the result.
	// Updates are serialized. If fn returns an error nothing is saved.
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// readWriter is the unlocked load/save pair each backend provides.
type readWriter interface {
	load(ctx context.Context) (*models.Document, error)
	save(ctx context.Context, doc *models.Document) error
}

// runUpdate performs one load-mutate-save cycle. Callers hold the writer lock.
func runUpdate(ctx context.Context, rw readWriter, fn func(doc *models.Document) error) error {
	doc, err := rw.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return rw.save(ctx, doc)
}
