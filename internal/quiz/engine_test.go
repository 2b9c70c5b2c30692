package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/match"
)

// stubQuerier serves canned features: visible is the viewport, under
// is whatever sits beneath the next click.
type stubQuerier struct {
	visible []Feature
	under   []Feature
}

func (s *stubQuerier) VisibleFeatures() []Feature        { return s.visible }
func (s *stubQuerier) FeaturesAt(x, y float64) []Feature { return s.under }

func testIndex(t *testing.T, tokens ...string) *match.MatchIndex {
	t.Helper()
	idx := catalog.BuildIndex(&catalog.Catalog{
		Names: []string{"Bank Street", "Main Street North", "King Street"},
		Refs:  []string{"417"},
	})
	return match.Aggregate(match.NewMatcher(idx, match.Popularity{}), tokens, nil)
}

func allFeatures() []Feature {
	return []Feature{
		{Name: "Bank Street", Highway: "residential"},
		{Name: "Main Street North", Highway: "secondary"},
		{Name: "King Street", Highway: "primary"},
		{Ref: "417", Highway: "motorway"},
	}
}

// featureFor maps a pool token to a feature belonging to that road.
func featureFor(token string) Feature {
	switch token {
	case "bank":
		return Feature{Name: "Bank Street"}
	case "main street":
		return Feature{Name: "Main Street North"}
	case "king":
		return Feature{Name: "King Street"}
	case "417":
		return Feature{Ref: "417"}
	default:
		return Feature{Name: "Nowhere"}
	}
}

func seededEngine(q FeatureQuerier, seed int64) *Engine {
	return New(q, WithRand(rand.New(rand.NewSource(seed))))
}

func TestEngine_StartWithoutIndexReportsLoading(t *testing.T) {
	e := seededEngine(&stubQuerier{}, 1)

	err := e.Start(nil)
	assert.ErrorIs(t, err, ErrStillLoading)
	assert.Equal(t, StateIdle, e.State())
}

func TestEngine_StartWithNothingVisible(t *testing.T) {
	e := seededEngine(&stubQuerier{visible: nil}, 1)

	err := e.Start(testIndex(t, "bank"))
	assert.ErrorIs(t, err, ErrNothingVisible)
	assert.Equal(t, StateIdle, e.State())
}

func TestEngine_StartDrawsVisibleTarget(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 1)

	require.NoError(t, e.Start(testIndex(t, "bank", "main street", "king")))
	assert.Equal(t, StateActive, e.State())
	assert.NotEmpty(t, e.Target())
	assert.NotEmpty(t, e.Session())
	assert.Contains(t, []string{"bank", "main street", "king"}, e.Target())
}

func TestEngine_SeededShuffleIsReproducible(t *testing.T) {
	draw := func() []string {
		q := &stubQuerier{visible: allFeatures()}
		e := seededEngine(q, 42)
		require.NoError(t, e.Start(testIndex(t, "bank", "main street", "king", "417")))

		var order []string
		for e.State() == StateActive {
			token := e.Target()
			order = append(order, token)
			q.under = []Feature{featureFor(token)}
			res := e.ResolveClick(0, 0)
			require.True(t, res.Graded)
			e.Advance()
		}
		return order
	}

	assert.Equal(t, draw(), draw())
}

func TestEngine_ResolvingWholePoolExhausts(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 7)
	require.NoError(t, e.Start(testIndex(t, "bank", "main street", "king")))

	seen := map[string]bool{}
	for e.State() == StateActive {
		token := e.Target()
		require.False(t, seen[token], "each pool token prompted exactly once")
		seen[token] = true

		q.under = []Feature{featureFor(token)}
		res := e.ResolveClick(0, 0)
		require.True(t, res.Graded)
		assert.True(t, res.Correct)
		e.Advance()
	}

	assert.Equal(t, StateExhausted, e.State())
	correct, guesses := e.Score()
	assert.Equal(t, 3, correct)
	assert.Equal(t, 3, guesses)
	assert.Equal(t, "Quiz complete: 3 of 3 correct", e.FinalMessage())
}

func TestEngine_ClickIsIdempotentPerTarget(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 3)
	require.NoError(t, e.Start(testIndex(t, "bank")))

	q.under = []Feature{featureFor("bank")}
	first := e.ResolveClick(0, 0)
	require.True(t, first.Graded)

	second := e.ResolveClick(0, 0)
	assert.False(t, second.Graded, "re-click on a resolved target is ignored")

	_, guesses := e.Score()
	assert.Equal(t, 1, guesses)
}

func TestEngine_IncorrectClick(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 3)
	require.NoError(t, e.Start(testIndex(t, "bank")))

	q.under = []Feature{{Name: "King Street"}}
	res := e.ResolveClick(0, 0)
	require.True(t, res.Graded)
	assert.False(t, res.Correct)
	assert.Equal(t, "bank", res.Target)

	correct, guesses := e.Score()
	assert.Equal(t, 0, correct)
	assert.Equal(t, 1, guesses)
}

func TestEngine_ClickWithNoFeaturesIsIgnored(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 3)
	require.NoError(t, e.Start(testIndex(t, "bank")))

	q.under = nil
	res := e.ResolveClick(0, 0)
	assert.False(t, res.Graded)
	assert.Equal(t, "bank", e.Target(), "target unchanged")

	_, guesses := e.Score()
	assert.Zero(t, guesses)
}

func TestEngine_GradingUsesStructuralRules(t *testing.T) {
	q := &stubQuerier{visible: []Feature{{Name: "Main Street North"}}}
	e := seededEngine(q, 3)
	require.NoError(t, e.Start(testIndex(t, "main street")))
	require.Equal(t, "main street", e.Target())

	// A click on the directional variant of the target counts.
	q.under = []Feature{{Name: "Main Street North"}}
	res := e.ResolveClick(0, 0)
	require.True(t, res.Graded)
	assert.True(t, res.Correct)
}

func TestEngine_SkipReenqueuesAtTail(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 11)
	require.NoError(t, e.Start(testIndex(t, "bank", "king")))

	first := e.Target()
	require.NoError(t, e.Skip())
	second := e.Target()
	assert.NotEqual(t, first, second, "skip moves to the other pool token")

	// Resolve the second, then the skipped token comes back.
	q.under = []Feature{featureFor(second)}
	require.True(t, e.ResolveClick(0, 0).Graded)
	e.Advance()
	assert.Equal(t, first, e.Target())
}

func TestEngine_ViewportChangeRevivesExhaustedQuiz(t *testing.T) {
	q := &stubQuerier{visible: []Feature{featureFor("bank")}}
	e := seededEngine(q, 5)
	require.NoError(t, e.Start(testIndex(t, "bank", "king")))
	require.Equal(t, "bank", e.Target(), "only bank is visible")

	q.under = []Feature{featureFor("bank")}
	require.True(t, e.ResolveClick(0, 0).Graded)
	e.Advance()
	assert.Equal(t, StateExhausted, e.State())

	// Panning reveals King Street; the next viewport event picks it up.
	q.visible = allFeatures()
	e.ViewportChanged()
	assert.Equal(t, StateActive, e.State())
	assert.Equal(t, "king", e.Target())
}

func TestEngine_ViewportChangeIsNoopWithPendingTarget(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 5)
	require.NoError(t, e.Start(testIndex(t, "bank", "king")))

	before := e.Target()
	e.ViewportChanged()
	assert.Equal(t, before, e.Target())
}

func TestEngine_EndResetsToIdle(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 5)
	require.NoError(t, e.Start(testIndex(t, "bank")))

	q.under = []Feature{featureFor("bank")}
	e.ResolveClick(0, 0)
	e.End()

	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Target())
	assert.Empty(t, e.Session())
	correct, guesses := e.Score()
	assert.Zero(t, correct)
	assert.Zero(t, guesses)
}

func TestEngine_PromptUsesDisplayLabel(t *testing.T) {
	q := &stubQuerier{visible: allFeatures()}
	e := seededEngine(q, 5)
	require.NoError(t, e.Start(testIndex(t, "bank")))

	assert.Equal(t, "Bank Street", e.Prompt())
}
