package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/roadquiz/internal/catalog"
)

// SaveCatalog stores a built catalog for a city, replacing any
// previous build. The replacement is a single transaction.
func (s *Store) SaveCatalog(ctx context.Context, city string, cat *catalog.Catalog) error {
	if city == "" {
		return fmt.Errorf("save catalog: empty city")
	}
	if cat == nil {
		return fmt.Errorf("save catalog: nil catalog")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save catalog: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Cascades into roads and aliases.
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalogs WHERE city = ?`, city); err != nil {
		return fmt.Errorf("save catalog: clear previous build: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalogs (city, built_at, name_count, ref_count)
		VALUES (?, ?, ?, ?)
	`, city, time.Now().UTC().Format(time.RFC3339), len(cat.Names), len(cat.Refs))
	if err != nil {
		return fmt.Errorf("save catalog: insert catalog row: %w", err)
	}

	if err := insertRoads(ctx, tx, city, "name", cat.Names); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if err := insertRoads(ctx, tx, city, "ref", cat.Refs); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	for pos, group := range cat.Aliases {
		names, err := json.Marshal(sliceOrEmpty(group.Names))
		if err != nil {
			return fmt.Errorf("save catalog: marshal alias names: %w", err)
		}
		refs, err := json.Marshal(sliceOrEmpty(group.Refs))
		if err != nil {
			return fmt.Errorf("save catalog: marshal alias refs: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO aliases (city, pos, token, label, names, refs)
			VALUES (?, ?, ?, ?, ?, ?)
		`, city, pos, group.Token, group.Label, string(names), string(refs))
		if err != nil {
			return fmt.Errorf("save catalog: insert alias: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save catalog: commit: %w", err)
	}
	return nil
}

func insertRoads(ctx context.Context, tx *sql.Tx, city, kind string, values []string) error {
	for pos, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO roads (city, kind, pos, value)
			VALUES (?, ?, ?, ?)
		`, city, kind, pos, value)
		if err != nil {
			return fmt.Errorf("insert %s %q: %w", kind, value, err)
		}
	}
	return nil
}

func sliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
