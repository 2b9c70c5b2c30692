package quiz

import (
	"github.com/roach88/roadquiz/internal/match"
	"github.com/roach88/roadquiz/internal/textnorm"
)

// Feature is one rendered road feature as exposed by the map
// rendering engine's query interface.
type Feature struct {
	Name    string
	AltName string
	Ref     string
	Highway string
}

// FeatureQuerier is the engine's read boundary to the rendering
// engine: what is currently drawn, and what sits under a click.
type FeatureQuerier interface {
	// VisibleFeatures returns the road features rendered in the
	// current viewport.
	VisibleFeatures() []Feature

	// FeaturesAt returns the road features near a click point.
	FeaturesAt(x, y float64) []Feature
}

// target carries a quiz target token with its precomputed folded
// parts, so grading does not re-fold on every click.
type target struct {
	token  string
	folded string
	parts  []string
}

func newTarget(token string) target {
	return target{
		token:  token,
		folded: textnorm.Fold(token),
		parts:  textnorm.FoldedParts(token),
	}
}

// matches reports whether a rendered feature belongs to the target
// road, using the structural name and ref rules.
func (t target) matches(f Feature) bool {
	if f.Name != "" && match.MatchesName(t.parts, textnorm.FoldedParts(f.Name)) {
		return true
	}
	if f.AltName != "" && match.MatchesName(t.parts, textnorm.FoldedParts(f.AltName)) {
		return true
	}
	if f.Ref != "" && match.MatchesRef(t.folded, t.parts, textnorm.FoldedParts(f.Ref)) {
		return true
	}
	return false
}
