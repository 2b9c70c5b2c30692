package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// CatalogSource adapts a Store to the catalog.Source interface, so
// the loader can fetch built catalogs from SQLite exactly as it
// fetches them from JSON files.
type CatalogSource struct {
	Store *Store
}

// Fetch loads a city's catalog and serves it as catalog JSON.
func (s CatalogSource) Fetch(ctx context.Context, city string) (io.ReadCloser, error) {
	cat, err := s.Store.LoadCatalog(ctx, city)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("encode catalog for %q: %w", city, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
