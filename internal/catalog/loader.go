package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Source fetches the raw catalog bytes for a city. Implemented by
// FileSource (static JSON resources) and store.CatalogSource (SQLite).
type Source interface {
	Fetch(ctx context.Context, city string) (io.ReadCloser, error)
}

// FileSource loads catalogs from <Dir>/<city>.json.
type FileSource struct {
	Dir string
}

// Fetch opens the catalog file for a city.
func (s FileSource) Fetch(ctx context.Context, city string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, city+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog for %q: %w", city, err)
	}
	return f, nil
}

// Loader owns the current catalog index and serializes city switches.
//
// Loads race when the user switches cities faster than fetches
// complete. The rule is latest request wins: each Load call bumps a
// generation counter before fetching, and a completed fetch installs
// its index only if no newer Load has started since. A stale fetch
// completing late is discarded, never overwriting fresher state.
//
// A failed fetch is logged and leaves the catalog absent; downstream
// consumers tolerate a nil index by degrading to literal-token
// matching.
type Loader struct {
	source Source

	mu         sync.Mutex
	generation uint64
	city       string
	index      *Index
}

// NewLoader creates a loader backed by the given source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches and indexes the catalog for a city.
//
// Returns the built index, or nil with an error when the fetch or
// decode failed. The returned index may not be the installed one if a
// newer Load superseded this call mid-fetch.
func (l *Loader) Load(ctx context.Context, city string) (*Index, error) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	rc, err := l.source.Fetch(ctx, city)
	if err != nil {
		slog.Error("catalog fetch failed", "city", city, "error", err)
		return nil, err
	}
	defer rc.Close()

	c, err := Decode(rc)
	if err != nil {
		slog.Error("catalog decode failed", "city", city, "error", err)
		return nil, err
	}

	idx := BuildIndex(c)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// Superseded by a newer Load; discard.
		slog.Debug("discarding stale catalog load", "city", city)
		return idx, nil
	}
	l.city = city
	l.index = idx
	return idx, nil
}

// Index returns the currently installed index, or nil when no catalog
// has loaded yet (or the last load failed).
func (l *Loader) Index() *Index {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// City returns the city of the currently installed index.
func (l *Loader) City() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.city
}
