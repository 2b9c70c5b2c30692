package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/geo"
	"github.com/roach88/roadquiz/internal/store"
)

func writeExtract(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0o644))
	return path
}

func TestBuildCommand_WritesJSONCatalog(t *testing.T) {
	extract := writeExtract(t)
	out := filepath.Join(t.TempDir(), "ottawa.json")

	stdout, err := executeCommand(t, "",
		"build", "--city", "ottawa", "--out", out, extract)
	require.NoError(t, err)
	assert.Contains(t, stdout, "built catalog for ottawa")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cat, err := catalog.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank Street", "King Edward Avenue", "Queensway"}, cat.Names)
	assert.Equal(t, []string{"417"}, cat.Refs)
}

func TestBuildCommand_WritesAnchors(t *testing.T) {
	extract := writeExtract(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "ottawa.json")
	anchors := filepath.Join(dir, "anchors.json")

	_, err := executeCommand(t, "",
		"build", "--city", "ottawa", "--out", out, "--anchors", anchors, extract)
	require.NoError(t, err)

	data, err := os.ReadFile(anchors)
	require.NoError(t, err)
	var got map[string]geo.Point
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, geo.Point{X: 0.5, Y: 0.5}, got["Bank Street"])
	assert.Contains(t, got, "Queensway")
}

func TestBuildCommand_WritesStore(t *testing.T) {
	extract := writeExtract(t)
	db := filepath.Join(t.TempDir(), "catalogs.db")

	_, err := executeCommand(t, "",
		"build", "--city", "ottawa", "--db", db, extract)
	require.NoError(t, err)

	s, err := store.Open(db)
	require.NoError(t, err)
	defer s.Close()
	cat, err := s.LoadCatalog(context.Background(), "ottawa")
	require.NoError(t, err)
	assert.Equal(t, []string{"417"}, cat.Refs)
}

func TestBuildCommand_RequiresAnOutput(t *testing.T) {
	_, err := executeCommand(t, "",
		"build", "--city", "ottawa", writeExtract(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBuildCommand_MissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ottawa.json")
	_, err := executeCommand(t, "",
		"build", "--city", "ottawa", "--out", out, "absent.geojson")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBuildCommand_JSONFormat(t *testing.T) {
	extract := writeExtract(t)
	out := filepath.Join(t.TempDir(), "ottawa.json")

	stdout, err := executeCommand(t, "",
		"--format", "json", "build", "--city", "ottawa", "--out", out, extract)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			City  string       `json:"city"`
			Stats HarvestStats `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ottawa", resp.Data.City)
	assert.Equal(t, 3, resp.Data.Stats.Names)
}

func TestCitiesCommand(t *testing.T) {
	extract := writeExtract(t)
	db := filepath.Join(t.TempDir(), "catalogs.db")
	_, err := executeCommand(t, "",
		"build", "--city", "ottawa", "--db", db, extract)
	require.NoError(t, err)

	stdout, err := executeCommand(t, "", "cities", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ottawa")
	assert.Contains(t, stdout, "3 names")
}
