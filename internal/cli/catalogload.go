package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/cityconf"
	"github.com/roach88/roadquiz/internal/match"
	"github.com/roach88/roadquiz/internal/paint"
	"github.com/roach88/roadquiz/internal/store"
)

// CatalogOptions are the flags shared by every command that resolves
// tokens against a catalog.
type CatalogOptions struct {
	Catalog  string // catalog JSON file
	Database string // SQLite catalog database
	City     string // city identifier within the database
	Config   string // city config directory (CUE)
	Registry string // YAML city registry
}

func addCatalogFlags(cmd *cobra.Command, opts *CatalogOptions) {
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a catalog JSON file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to a SQLite catalog database")
	cmd.Flags().StringVar(&opts.City, "city", "", "city identifier (required with --db)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "city config directory (CUE)")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "YAML city registry (resolves --city to catalog and config paths)")
}

// applyRegistry resolves --city through the registry, filling in the
// catalog and config paths it names. Paths in the registry file are
// relative to the file itself; explicit --catalog/--config flags win.
func (opts *CatalogOptions) applyRegistry() error {
	if opts.Registry == "" {
		return nil
	}
	if opts.City == "" {
		return fmt.Errorf("--registry requires --city")
	}

	reg, err := cityconf.LoadRegistry(opts.Registry)
	if err != nil {
		return err
	}
	city, ok := reg.Find(opts.City)
	if !ok {
		return fmt.Errorf("city %q not in registry %s", opts.City, opts.Registry)
	}

	base := filepath.Dir(opts.Registry)
	if opts.Catalog == "" && city.Catalog != "" {
		opts.Catalog = resolvePath(base, city.Catalog)
	}
	if opts.Config == "" && city.Config != "" {
		opts.Config = resolvePath(base, city.Config)
	}
	return nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// loadIndex builds a road index from whichever source the flags name.
func loadIndex(ctx context.Context, opts *CatalogOptions) (*catalog.Index, error) {
	if err := opts.applyRegistry(); err != nil {
		return nil, err
	}

	switch {
	case opts.Catalog != "":
		f, err := os.Open(opts.Catalog)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		cat, err := catalog.Decode(f)
		if err != nil {
			return nil, err
		}
		return catalog.BuildIndex(cat), nil

	case opts.Database != "":
		if opts.City == "" {
			return nil, fmt.Errorf("--db requires --city")
		}
		s, err := store.Open(opts.Database)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		loader := catalog.NewLoader(store.CatalogSource{Store: s})
		return loader.Load(ctx, opts.City)

	default:
		return nil, fmt.Errorf("no catalog source: pass --catalog or --db with --city")
	}
}

// tuning holds the per-city knobs derived from the config directory.
// The zero value is valid: no popular names, default paint options.
type tuning struct {
	popularity match.Popularity
	labels     map[string]string
	paintOpts  paint.Options
}

func loadTuning(dir string) (tuning, error) {
	if dir == "" {
		return tuning{}, nil
	}
	cfg, err := cityconf.Load(dir)
	if err != nil {
		return tuning{}, err
	}
	return tuning{
		popularity: cfg.Popularity(),
		labels:     cfg.LabelOverrides(),
		paintOpts:  cfg.PaintOptions(),
	}, nil
}

// resolveTokens runs the full match pipeline for a token list.
func resolveTokens(idx *catalog.Index, tun tuning, tokens []string) *match.MatchIndex {
	matcher := match.NewMatcher(idx, tun.popularity)
	return match.Aggregate(matcher, tokens, tun.labels)
}
