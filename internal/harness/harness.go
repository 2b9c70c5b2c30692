// Package harness runs scripted quiz scenarios end to end: it builds
// a road index from the scenario's inline catalog, resolves the token
// list, drives the quiz engine through the scripted player actions,
// and evaluates assertions on the outcome. Scenario traces are stable
// for a fixed seed, so they can be compared against golden files.
package harness

import (
	"fmt"
	"math/rand"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/match"
	"github.com/roach88/roadquiz/internal/quiz"
)

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool

	// Failures lists every expectation or assertion that failed.
	Failures []string

	// Trace records the run step by step, one line per event.
	Trace []string
}

func (r *Result) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

func (r *Result) tracef(format string, args ...any) {
	r.Trace = append(r.Trace, fmt.Sprintf(format, args...))
}

// scriptQuerier serves the scenario catalog as the visible map and
// the scripted answer as the clicked feature.
type scriptQuerier struct {
	visible []quiz.Feature
	answer  []quiz.Feature
}

func (q *scriptQuerier) VisibleFeatures() []quiz.Feature        { return q.visible }
func (q *scriptQuerier) FeaturesAt(x, y float64) []quiz.Feature { return q.answer }

// Run executes a scenario. The returned error covers scenario setup
// problems; grading and assertion mismatches land in Result.Failures.
func Run(scenario *Scenario) (*Result, error) {
	idx := catalog.BuildIndex(&scenario.Catalog)
	popularity := match.NewPopularity(scenario.Popular.Major, scenario.Popular.Residential)
	matcher := match.NewMatcher(idx, popularity)
	mi := match.Aggregate(matcher, scenario.Tokens, nil)

	querier := &scriptQuerier{}
	for _, entry := range idx.NameEntries {
		querier.visible = append(querier.visible, quiz.Feature{Name: entry.Label})
	}
	for _, entry := range idx.RefEntries {
		querier.visible = append(querier.visible, quiz.Feature{Ref: entry.Label})
	}

	engine := quiz.New(querier, quiz.WithRand(rand.New(rand.NewSource(scenario.Seed))))

	result := &Result{}
	if err := engine.Start(mi); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	result.tracef("start pool=%d", len(mi.Tokens))

	for i, step := range scenario.Script {
		switch {
		case step.End:
			result.tracef("end")
			engine.End()

		case step.Skip:
			result.tracef("skip target=%s", engine.Target())
			if err := engine.Skip(); err != nil {
				result.failf("script[%d]: skip: %v", i, err)
			}

		default:
			answer := step.Answer
			if step.AnswerTarget {
				answer = engine.Prompt()
			}
			querier.answer = []quiz.Feature{{Name: answer}, {Ref: answer}}
			res := engine.ResolveClick(0, 0)
			if !res.Graded {
				result.tracef("answer %q ignored", answer)
				result.failf("script[%d]: answer %q was not graded (state %s)", i, answer, engine.State())
				continue
			}
			result.tracef("answer %q target=%s correct=%v", answer, res.Target, res.Correct)
			if step.Expect == ExpectCorrect && !res.Correct {
				result.failf("script[%d]: expected correct, graded incorrect (target %s)", i, res.Target)
			}
			if step.Expect == ExpectIncorrect && res.Correct {
				result.failf("script[%d]: expected incorrect, graded correct (target %s)", i, res.Target)
			}
			engine.Advance()
		}
	}

	checkAssertions(engine, &scenario.Assertions, result)
	result.Pass = len(result.Failures) == 0
	return result, nil
}

func checkAssertions(engine *quiz.Engine, a *Assertions, result *Result) {
	if a.State != "" && engine.State().String() != a.State {
		result.failf("state: want %s, got %s", a.State, engine.State())
	}

	correct, guesses := engine.Score()
	if a.Correct != nil && correct != *a.Correct {
		result.failf("correct: want %d, got %d", *a.Correct, correct)
	}
	if a.Guesses != nil && guesses != *a.Guesses {
		result.failf("guesses: want %d, got %d", *a.Guesses, guesses)
	}

	found := map[string]bool{}
	for _, token := range engine.Found() {
		found[token] = true
	}
	for _, want := range a.Found {
		if !found[want] {
			result.failf("found: missing %s", want)
		}
	}
	result.tracef("final state=%s correct=%d guesses=%d", engine.State(), correct, guesses)
}
