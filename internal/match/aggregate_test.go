package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadquiz/internal/catalog"
)

func TestAggregate_UnionsAcrossTokens(t *testing.T) {
	m := newTestMatcher(&catalog.Catalog{
		Names: []string{"Bank Street", "Main Street North"},
		Refs:  []string{"417"},
	}, Popularity{})

	agg := Aggregate(m, []string{"bank", "main street", "417"}, nil)

	assert.True(t, agg.Names.Has("bank street"))
	assert.True(t, agg.Names.Has("main street north"))
	assert.True(t, agg.Refs.Has("417"))
	assert.Equal(t, []string{"bank", "main street", "417"}, agg.Tokens)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	c := &catalog.Catalog{
		Names: []string{"Bank Street", "Main Street"},
		Refs:  []string{"417", "148"},
	}
	tokens := []string{"bank", "main street", "417"}
	reversed := []string{"417", "main street", "bank"}

	a := Aggregate(newTestMatcher(c, Popularity{}), tokens, nil)
	b := Aggregate(newTestMatcher(c, Popularity{}), reversed, nil)

	assert.Equal(t, a.Names.Values(), b.Names.Values())
	assert.Equal(t, a.Refs.Values(), b.Refs.Values())
	assert.Equal(t, a.Labels, b.Labels)
}

func TestAggregate_DeduplicatesTokens(t *testing.T) {
	m := newTestMatcher(&catalog.Catalog{Names: []string{"Bank Street"}}, Popularity{})

	agg := Aggregate(m, []string{"bank", " Bank ", "BANK"}, nil)
	assert.Equal(t, []string{"bank"}, agg.Tokens)
}

func TestAggregate_SkipsEmptyTokens(t *testing.T) {
	m := newTestMatcher(&catalog.Catalog{}, Popularity{})

	agg := Aggregate(m, []string{"", "  ", "bank"}, nil)
	assert.Equal(t, []string{"bank"}, agg.Tokens)
}

func TestAggregate_LabelFallbackChain(t *testing.T) {
	m := newTestMatcher(&catalog.Catalog{Names: []string{"Bank Street"}}, Popularity{})

	agg := Aggregate(m, []string{"bank", "ghost road"}, map[string]string{
		"bank": "Bank St (override)",
	})

	assert.Equal(t, "Bank St (override)", agg.Labels["bank"], "explicit override wins")
	assert.Equal(t, "ghost road", agg.Labels["ghost road"], "raw token is the last resort")

	agg = Aggregate(m, []string{"bank"}, nil)
	assert.Equal(t, "Bank Street", agg.Labels["bank"], "matcher label when no override")
}

func TestAggregate_PopularStrictSetSuppressesOvermatch(t *testing.T) {
	pop := NewPopularity([]string{"king"}, nil)
	m := newTestMatcher(&catalog.Catalog{
		Names: []string{"King Street", "King Edward Avenue"},
	}, pop)

	agg := Aggregate(m, []string{"king"}, nil)
	assert.True(t, agg.Names.Has("king street"))
	assert.False(t, agg.Names.Has("king edward avenue"))
}

func TestMatchIndex_LabelForUnknownToken(t *testing.T) {
	m := newTestMatcher(&catalog.Catalog{}, Popularity{})
	agg := Aggregate(m, []string{"bank"}, nil)

	assert.Equal(t, "somewhere", agg.Label("somewhere"))
}

func TestPopularity_Classify(t *testing.T) {
	pop := NewPopularity([]string{"King Street"}, []string{"maple"})

	require.True(t, pop.Contains("king street"))
	assert.Equal(t, ClassMajor, pop.Classify("king street"))
	assert.Equal(t, ClassResidential, pop.Classify("maple"))
	assert.Equal(t, ClassOther, pop.Classify("bank"))
}
