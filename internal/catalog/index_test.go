package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex_DeduplicatesByNormalizedValue(t *testing.T) {
	idx := BuildIndex(&Catalog{
		Names: []string{"Bank Street", "  bank street ", "BANK STREET"},
	})

	require.Len(t, idx.NameEntries, 1)
	assert.Equal(t, "Bank Street", idx.NameEntries[0].Label, "first occurrence supplies the label")
	assert.Equal(t, "bank street", idx.NameEntries[0].Value)
	assert.Equal(t, []string{"bank", "street"}, idx.NameEntries[0].Parts)
}

func TestBuildIndex_DropsEmptyValues(t *testing.T) {
	idx := BuildIndex(&Catalog{
		Names: []string{"", "   ", "Main Street"},
		Refs:  []string{"\t", "417"},
	})

	require.Len(t, idx.NameEntries, 1)
	require.Len(t, idx.RefEntries, 1)
	assert.Equal(t, "417", idx.RefEntries[0].Value)
}

func TestBuildIndex_Idempotent(t *testing.T) {
	c := &Catalog{
		Names: []string{"Boulevard Alexandre-Taché", "Main Street North"},
		Refs:  []string{"A-5", "148"},
		Aliases: []AliasGroup{
			{Token: "the queensway", Names: []string{"Highway 417"}, Refs: []string{"417"}},
		},
	}

	a := BuildIndex(c)
	b := BuildIndex(c)

	assert.Equal(t, a.NameEntries, b.NameEntries)
	assert.Equal(t, a.RefEntries, b.RefEntries)
	assert.Equal(t, a.nameLabels, b.nameLabels)
	assert.Equal(t, a.refLabels, b.refLabels)
}

func TestBuildIndex_FoldsEntryParts(t *testing.T) {
	idx := BuildIndex(&Catalog{Names: []string{"Boulevard Alexandre-Taché"}})

	require.Len(t, idx.NameEntries, 1)
	assert.Equal(t, []string{"boulevard", "alexandre", "tache"}, idx.NameEntries[0].Parts)
	// The label keeps its diacritics.
	assert.Equal(t, "Boulevard Alexandre-Taché", idx.NameEntries[0].Label)
}

func TestBuildIndex_MergesAliasGroupsByToken(t *testing.T) {
	idx := BuildIndex(&Catalog{
		Aliases: []AliasGroup{
			{Token: "Queensway", Label: "The Queensway", Names: []string{"Highway 417"}},
			{Token: "queensway", Refs: []string{"417"}},
			{Token: "queensway", Names: []string{"Highway 417"}}, // duplicate value
		},
	})

	alias, ok := idx.Alias("queensway")
	require.True(t, ok)
	assert.Equal(t, "The Queensway", alias.Label)
	assert.Equal(t, []string{"highway 417"}, alias.Names)
	assert.Equal(t, []string{"417"}, alias.Refs)
}

func TestBuildIndex_DiscardsEmptyAliasGroup(t *testing.T) {
	idx := BuildIndex(&Catalog{
		Aliases: []AliasGroup{{Token: "ghost", Label: "Ghost Road"}},
	})

	_, ok := idx.Alias("ghost")
	assert.False(t, ok)
}

func TestIndex_TokenForAliasValue(t *testing.T) {
	idx := BuildIndex(&Catalog{
		Aliases: []AliasGroup{
			{Token: "queensway", Names: []string{"Highway 417"}, Refs: []string{"417"}},
		},
	})

	token, ok := idx.TokenForAliasValue("Highway 417")
	require.True(t, ok)
	assert.Equal(t, "queensway", token)

	token, ok = idx.TokenForAliasValue("417")
	require.True(t, ok)
	assert.Equal(t, "queensway", token)

	_, ok = idx.TokenForAliasValue("unknown road")
	assert.False(t, ok)
}

func TestBuildIndex_NilCatalog(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Empty(t, idx.NameEntries)
	assert.Empty(t, idx.RefEntries)
	_, ok := idx.NameLabel("anything")
	assert.False(t, ok)
}

func TestDecode_MissingFieldsAreEmpty(t *testing.T) {
	c, err := Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, c.Names)
	assert.Empty(t, c.Refs)
	assert.Empty(t, c.Aliases)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"names": [`))
	assert.Error(t, err)
}
