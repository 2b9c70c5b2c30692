package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/geo"
)

// HarvestStats summarizes one catalog build.
type HarvestStats struct {
	Features int `json:"features"` // features seen in the collection
	Kept     int `json:"kept"`     // road features harvested
	Names    int `json:"names"`
	Refs     int `json:"refs"`
}

// HarvestResult is the output of one catalog build: the catalog, a
// label anchor per road (the arc-length midpoint of the first feature
// seen for it), and counters for reporting.
type HarvestResult struct {
	Catalog *catalog.Catalog
	Anchors map[string]geo.Point
	Stats   HarvestStats
}

// geoFeature is the subset of a GeoJSON feature the harvester needs.
type geoFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Harvest streams a GeoJSON FeatureCollection and collects the road
// catalog: unique names (from name, name:en and name_en) and refs of
// LineString features carrying a highway property, plus a label
// anchor for each road.
//
// Extracts run to hundreds of megabytes, so features are decoded one
// at a time off a json.Decoder rather than materializing the
// collection.
func Harvest(r io.Reader) (*HarvestResult, error) {
	dec := json.NewDecoder(r)
	stats := HarvestStats{}

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("input is not a GeoJSON object")
	}

	names := map[string]bool{}
	refs := map[string]bool{}
	anchors := map[string]geo.Point{}
	sawFeatures := false

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read collection key: %w", err)
		}
		key, _ := keyTok.(string)

		if key != "features" {
			// Skip type, bbox, crs and any foreign members.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("skip %q: %w", key, err)
			}
			continue
		}

		sawFeatures = true
		if tok, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read features: %w", err)
		} else if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fmt.Errorf("features is not an array")
		}

		for dec.More() {
			var f geoFeature
			if err := dec.Decode(&f); err != nil {
				return nil, fmt.Errorf("decode feature %d: %w", stats.Features, err)
			}
			stats.Features++
			if !keepFeature(&f) {
				continue
			}
			stats.Kept++
			anchorKey := ""
			for _, field := range []string{"name", "name:en", "name_en"} {
				if v := propString(f.Properties, field); v != "" {
					names[v] = true
					if anchorKey == "" {
						anchorKey = v
					}
				}
			}
			if v := propString(f.Properties, "ref"); v != "" {
				refs[v] = true
				if anchorKey == "" {
					anchorKey = v
				}
			}
			if _, placed := anchors[anchorKey]; anchorKey != "" && !placed {
				if line := featureLine(&f); len(line) > 0 {
					anchors[anchorKey] = geo.PathMidpoint(line)
				}
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("close features: %w", err)
		}
	}

	if !sawFeatures {
		return nil, fmt.Errorf("input has no features array")
	}

	cat := &catalog.Catalog{
		Names: sortedKeys(names),
		Refs:  sortedKeys(refs),
	}
	stats.Names = len(cat.Names)
	stats.Refs = len(cat.Refs)
	return &HarvestResult{Catalog: cat, Anchors: anchors, Stats: stats}, nil
}

// featureLine extracts a feature's polyline for label anchoring. A
// MultiLineString contributes its longest segment. Malformed
// coordinates yield no line rather than an error: the feature still
// counts toward the catalog.
func featureLine(f *geoFeature) []geo.Point {
	switch f.Geometry.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return nil
		}
		return toPoints(coords)

	case "MultiLineString":
		var segments [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &segments); err != nil {
			return nil
		}
		var best []geo.Point
		bestLen := -1.0
		for _, seg := range segments {
			pts := toPoints(seg)
			if l := geo.PathLength(pts); l > bestLen {
				best, bestLen = pts, l
			}
		}
		return best
	}
	return nil
}

func toPoints(coords [][]float64) []geo.Point {
	pts := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, geo.Point{X: c[0], Y: c[1]})
	}
	return pts
}

// keepFeature reports whether a feature contributes to the catalog:
// a linear geometry with a highway tag.
func keepFeature(f *geoFeature) bool {
	switch f.Geometry.Type {
	case "LineString", "MultiLineString":
	default:
		return false
	}
	return propString(f.Properties, "highway") != ""
}

func propString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// OpenInput opens a GeoJSON extract, transparently decompressing
// .gz and .zst files.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip input: %w", err)
		}
		return &chainCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd input: %w", err)
		}
		return &chainCloser{Reader: zr.IOReadCloser(), closers: []io.Closer{zr.IOReadCloser(), f}}, nil
	default:
		return f, nil
	}
}

// chainCloser closes the decompressor before the underlying file.
type chainCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainCloser) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
