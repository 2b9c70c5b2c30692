package cityconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadquiz/internal/match"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "city.cue"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

const ottawaConfig = `package city

city: "ottawa"
popular: {
	major: ["King", "bank"]
	residential: ["main"]
}
defaultColor: "#80808c"
labels: {"417": "Highway 417"}
colors: {"King": "#ff0000"}
exemptions: [{ref: "A-5", unless: ["a5"]}]
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, ottawaConfig))
	require.NoError(t, err)

	assert.Equal(t, "ottawa", cfg.City)
	assert.Equal(t, "#80808c", cfg.DefaultColor)

	pop := cfg.Popularity()
	assert.Equal(t, match.ClassMajor, pop.Classify("king"), "popular entries are normalized")
	assert.Equal(t, match.ClassResidential, pop.Classify("main"))
	assert.Equal(t, match.ClassOther, pop.Classify("elgin"))

	assert.Equal(t, map[string]string{"417": "Highway 417"}, cfg.LabelOverrides())

	opts := cfg.PaintOptions()
	assert.Equal(t, "#ff0000", opts.Colors["king"], "color override keys are normalized")
	require.Len(t, opts.Exemptions, 1)
	assert.Equal(t, "A-5", opts.Exemptions[0].Ref)
	assert.Equal(t, []string{"a5"}, opts.Exemptions[0].Unless)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "not found")
}

func TestLoad_NoCUEFiles(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "no CUE files")
}

func TestLoad_MissingCity(t *testing.T) {
	_, err := Load(writeConfig(t, `package city

popular: major: ["king"]
`))
	assert.ErrorContains(t, err, "missing city")
}

func TestLoad_RejectsPackagelessFiles(t *testing.T) {
	// A config file without a package clause is excluded by the CUE
	// loader, so the directory load must fail rather than silently
	// producing an empty config.
	_, err := Load(writeConfig(t, `city: "ottawa"`))
	assert.Error(t, err)
}

func TestLoad_RejectsNonHexColor(t *testing.T) {
	_, err := Load(writeConfig(t, `package city

city: "ottawa"
colors: {"king": "red"}
`))
	assert.ErrorContains(t, err, "not a hex color")
}

func TestLoad_RejectsEmptyExemptionRef(t *testing.T) {
	_, err := Load(writeConfig(t, `package city

city: "ottawa"
exemptions: [{ref: " "}]
`))
	assert.ErrorContains(t, err, "empty ref")
}
