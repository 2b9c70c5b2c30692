package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/roadquiz/internal/catalog"
)

// ErrNotFound is returned when no catalog has been built for a city.
var ErrNotFound = errors.New("catalog not found")

// CatalogInfo summarizes one stored build.
type CatalogInfo struct {
	City    string `json:"city"`
	BuiltAt string `json:"built_at"`
	Names   int    `json:"names"`
	Refs    int    `json:"refs"`
}

// LoadCatalog reads a city's catalog back in build order.
func (s *Store) LoadCatalog(ctx context.Context, city string) (*catalog.Catalog, error) {
	var builtAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT built_at FROM catalogs WHERE city = ?`, city,
	).Scan(&builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load catalog for %q: %w", city, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog for %q: %w", city, err)
	}

	cat := &catalog.Catalog{}
	if cat.Names, err = s.readRoads(ctx, city, "name"); err != nil {
		return nil, fmt.Errorf("load catalog for %q: %w", city, err)
	}
	if cat.Refs, err = s.readRoads(ctx, city, "ref"); err != nil {
		return nil, fmt.Errorf("load catalog for %q: %w", city, err)
	}
	if cat.Aliases, err = s.readAliases(ctx, city); err != nil {
		return nil, fmt.Errorf("load catalog for %q: %w", city, err)
	}
	return cat, nil
}

// Catalogs lists stored builds in city order.
func (s *Store) Catalogs(ctx context.Context) ([]CatalogInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT city, built_at, name_count, ref_count
		FROM catalogs ORDER BY city ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var out []CatalogInfo
	for rows.Next() {
		var info CatalogInfo
		if err := rows.Scan(&info.City, &info.BuiltAt, &info.Names, &info.Refs); err != nil {
			return nil, fmt.Errorf("list catalogs: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	return out, nil
}

func (s *Store) readRoads(ctx context.Context, city, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM roads
		WHERE city = ? AND kind = ?
		ORDER BY pos ASC
	`, city, kind)
	if err != nil {
		return nil, fmt.Errorf("read %s values: %w", kind, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("read %s values: %w", kind, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s values: %w", kind, err)
	}
	return values, nil
}

func (s *Store) readAliases(ctx context.Context, city string) ([]catalog.AliasGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, label, names, refs FROM aliases
		WHERE city = ?
		ORDER BY pos ASC
	`, city)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	defer rows.Close()

	var groups []catalog.AliasGroup
	for rows.Next() {
		var group catalog.AliasGroup
		var names, refs string
		if err := rows.Scan(&group.Token, &group.Label, &names, &refs); err != nil {
			return nil, fmt.Errorf("read aliases: %w", err)
		}
		if err := json.Unmarshal([]byte(names), &group.Names); err != nil {
			return nil, fmt.Errorf("read aliases: decode names: %w", err)
		}
		if err := json.Unmarshal([]byte(refs), &group.Refs); err != nil {
			return nil, fmt.Errorf("read aliases: decode refs: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	return groups, nil
}
