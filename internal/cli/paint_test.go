package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaintCommand(t *testing.T) {
	out, err := executeCommand(t, "",
		"paint", "--catalog", writeCatalogFile(t), "bank", "417")
	require.NoError(t, err)

	var exprs map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &exprs))
	for _, key := range []string{"filter", "color", "opacity", "label"} {
		assert.Contains(t, exprs, key)
	}
	assert.Equal(t, float64(1), exprs["opacity"], "opacity is the constant 1 outside quiz mode")

	filter, ok := exprs["filter"].([]any)
	require.True(t, ok)
	assert.Equal(t, "any", filter[0])
}

func TestPaintCommand_FoundSwapsOpacity(t *testing.T) {
	out, err := executeCommand(t, "",
		"paint", "--catalog", writeCatalogFile(t), "--found", "bank", "bank", "417")
	require.NoError(t, err)

	var exprs map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &exprs))
	opacity, ok := exprs["opacity"].([]any)
	require.True(t, ok, "quiz opacity is a match expression")
	assert.Equal(t, "match", opacity[0])
}

func TestPaintCommand_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.json")
	out, err := executeCommand(t, "",
		"paint", "--catalog", writeCatalogFile(t), "--out", path, "bank")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var exprs map[string]any
	assert.NoError(t, json.Unmarshal(data, &exprs))
}
