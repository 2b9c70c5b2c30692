package catalog

import (
	"encoding/json"
	"fmt"
	"io"
)

// Catalog is the raw per-city road catalog as loaded from JSON.
//
// Missing arrays decode as nil and are treated as empty - a catalog
// with no refs is valid.
type Catalog struct {
	Names   []string     `json:"names"`
	Refs    []string     `json:"refs"`
	Aliases []AliasGroup `json:"aliases,omitempty"`
}

// AliasGroup maps one token to extra catalog values it should also
// match, with an optional display label override. Groups sharing a
// token are merged during index construction; a group with neither
// names nor refs is discarded.
type AliasGroup struct {
	Token string   `json:"token"`
	Label string   `json:"label,omitempty"`
	Names []string `json:"names,omitempty"`
	Refs  []string `json:"refs,omitempty"`
}

// Decode reads a Catalog from JSON.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}
