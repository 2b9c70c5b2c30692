package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/roadquiz/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	City     string
	Database string
	Out      string
	Anchors  string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <extract.geojson[.gz|.zst]>",
		Short: "Build a city's road catalog from a GeoJSON extract",
		Long: `Build a road catalog from a GeoJSON highway extract.

Streams the feature collection, keeps LineString features with a
highway tag, and harvests their name, name:en, name_en and ref
properties into a sorted, de-duplicated catalog. The catalog is
written to a JSON file, a SQLite catalog database, or both. With
--anchors, the label anchor of each road (the midpoint of its first
feature) is written as a JSON map alongside.

Example:
  roadquiz build --city ottawa --out ottawa.json extract.geojson.gz
  roadquiz build --city ottawa --db catalogs.db extract.geojson`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.City, "city", "", "city identifier (required)")
	_ = cmd.MarkFlagRequired("city")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog database")
	cmd.Flags().StringVar(&opts.Out, "out", "", "path for the catalog JSON file")
	cmd.Flags().StringVar(&opts.Anchors, "anchors", "", "path for the label anchors JSON file")

	return cmd
}

func runBuild(opts *BuildOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Database == "" && opts.Out == "" {
		formatter.Error(ErrCodeBadInput, "nothing to write: pass --db and/or --out", nil)
		return NewExitError(ExitCommandError, "no output requested")
	}

	rc, err := OpenInput(input)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open input", err)
	}
	defer rc.Close()

	slog.Info("building catalog", "city", opts.City, "input", input)
	res, err := Harvest(rc)
	if err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "harvest extract", err)
	}
	cat, stats := res.Catalog, res.Stats
	slog.Info("catalog built",
		"city", opts.City,
		"features", stats.Features,
		"kept", stats.Kept,
		"names", stats.Names,
		"refs", stats.Refs,
	)

	if opts.Out != "" {
		data, err := json.MarshalIndent(cat, "", "  ")
		if err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "encode catalog", err)
		}
		if err := os.WriteFile(opts.Out, append(data, '\n'), 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "write catalog file", err)
		}
		formatter.VerboseLog("wrote %s", opts.Out)
	}

	if opts.Anchors != "" {
		data, err := json.MarshalIndent(res.Anchors, "", "  ")
		if err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "encode anchors", err)
		}
		if err := os.WriteFile(opts.Anchors, append(data, '\n'), 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "write anchors file", err)
		}
		formatter.VerboseLog("wrote %s", opts.Anchors)
	}

	if opts.Database != "" {
		s, err := store.Open(opts.Database)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open catalog database", err)
		}
		defer s.Close()
		if err := s.SaveCatalog(cmd.Context(), opts.City, cat); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "save catalog", err)
		}
		formatter.VerboseLog("stored catalog for %s in %s", opts.City, opts.Database)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"city":  opts.City,
			"stats": stats,
		})
	}
	return formatter.Success(fmt.Sprintf(
		"built catalog for %s: %d names, %d refs (from %d of %d features)",
		opts.City, stats.Names, stats.Refs, stats.Kept, stats.Features,
	))
}
