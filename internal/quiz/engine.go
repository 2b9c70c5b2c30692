package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/roadquiz/internal/match"
)

// State is the quiz lifecycle state.
type State int

const (
	// StateIdle means no quiz is running.
	StateIdle State = iota
	// StateActive means the quiz has a current target or is between
	// targets waiting for the viewport to offer one.
	StateActive
	// StateExhausted means every visible pool token has been found;
	// the final tally is displayed but the quiz has not been ended.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transient start failures, rendered by the UI as messages rather
// than errors.
var (
	// ErrStillLoading means the catalog or map has not finished
	// loading; starting again later should succeed.
	ErrStillLoading = errors.New("road data is still loading")

	// ErrNothingVisible means the pool has no token matched among
	// currently rendered features. Distinct from mid-quiz exhaustion.
	ErrNothingVisible = errors.New("none of the selected roads are visible on the map")

	// ErrNotRunning is returned by transitions that require an
	// active quiz.
	ErrNotRunning = errors.New("no quiz in progress")
)

// ClickResult reports how a click was graded.
type ClickResult struct {
	Graded  bool   // false when the click was ignored
	Correct bool   // valid only when Graded
	Target  string // the token that was being asked for
}

// Engine is the quiz state machine. Not safe for concurrent use; all
// transitions run on the UI event thread, matching the event-driven
// single-threaded model of the rest of the engine.
type Engine struct {
	querier FeatureQuerier
	rng     *rand.Rand

	state   State
	session string
	index   *match.MatchIndex

	pool      []string
	queue     []string
	current   target
	hasTarget bool
	resolved  bool

	found     []string
	correct   []string
	incorrect []string

	correctCount int
	guessCount   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source used to shuffle target queues.
// Tests pass a seeded source for reproducible draw order.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// New creates an idle quiz engine over a feature querier.
func New(querier FeatureQuerier, opts ...Option) *Engine {
	e := &Engine{
		querier: querier,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Session returns the identifier of the running quiz, or "" when
// idle.
func (e *Engine) Session() string { return e.session }

// Target returns the token currently being asked for, or "" between
// targets.
func (e *Engine) Target() string {
	if !e.hasTarget {
		return ""
	}
	return e.current.token
}

// Prompt returns the display label for the current target.
func (e *Engine) Prompt() string {
	if !e.hasTarget || e.index == nil {
		return ""
	}
	return e.index.Label(e.current.token)
}

// Score returns correct and total guess counts.
func (e *Engine) Score() (correct, guesses int) {
	return e.correctCount, e.guessCount
}

// Found returns the tokens resolved so far, in resolution order.
func (e *Engine) Found() []string { return e.found }

// FinalMessage is the tally shown in the exhausted state.
func (e *Engine) FinalMessage() string {
	return fmt.Sprintf("Quiz complete: %d of %d correct", e.correctCount, e.guessCount)
}

// Start snapshots the active token list as the quiz pool and draws
// the first target from the tokens visible on the map.
//
// Returns ErrStillLoading when the catalog has not loaded yet, and
// ErrNothingVisible when no pool token is matched among rendered
// features; both leave the engine idle.
func (e *Engine) Start(index *match.MatchIndex) error {
	if index == nil || e.querier == nil {
		return ErrStillLoading
	}
	if len(index.Tokens) == 0 {
		return ErrNothingVisible
	}

	e.reset()
	e.index = index
	e.pool = append([]string(nil), index.Tokens...)

	candidates := e.visibleUnfound()
	if len(candidates) == 0 {
		e.reset()
		return ErrNothingVisible
	}

	e.session = uuid.NewString()
	e.state = StateActive
	e.queue = e.shuffled(candidates)
	e.advance()
	slog.Debug("quiz started", "session", e.session, "pool", len(e.pool), "visible", len(candidates))
	return nil
}

// ResolveClick grades a map click against the current target.
//
// Only the first grading attempt per target counts: once a target is
// resolved, further clicks are ignored until the engine advances. A
// click with no road features under it is ignored entirely.
func (e *Engine) ResolveClick(x, y float64) ClickResult {
	if e.state != StateActive || !e.hasTarget || e.resolved {
		return ClickResult{}
	}
	features := e.querier.FeaturesAt(x, y)
	if len(features) == 0 {
		return ClickResult{}
	}

	correct := false
	for _, f := range features {
		if e.current.matches(f) {
			correct = true
			break
		}
	}

	e.resolved = true
	e.guessCount++
	token := e.current.token
	e.found = append(e.found, token)
	if correct {
		e.correctCount++
		e.correct = append(e.correct, token)
	} else {
		e.incorrect = append(e.incorrect, token)
	}
	slog.Debug("quiz click graded", "session", e.session, "target", token, "correct", correct)

	return ClickResult{Graded: true, Correct: correct, Target: token}
}

// Advance moves past a resolved target to the next prompt. The UI
// calls this after displaying the transient correct/incorrect flag.
// A no-op while an unresolved target is pending, so stray calls
// cannot abandon a live prompt.
func (e *Engine) Advance() {
	if e.state == StateIdle {
		return
	}
	if e.hasTarget && !e.resolved {
		return
	}
	e.advance()
}

// Skip re-enqueues the current target at the tail and moves on.
func (e *Engine) Skip() error {
	if e.state != StateActive {
		return ErrNotRunning
	}
	if e.hasTarget && !e.resolved {
		// Unresolved targets go back to the tail of the queue.
		e.queue = append(e.queue, e.current.token)
		e.clearTarget()
	}
	e.advance()
	return nil
}

// ViewportChanged gives the engine a chance to pick up newly visible
// candidates. It only acts when the quiz is running without a target
// (including the exhausted state, which a pan can revive).
func (e *Engine) ViewportChanged() {
	if e.state == StateIdle || e.hasTarget {
		return
	}
	e.advance()
}

// End clears all quiz-local state and returns to idle.
func (e *Engine) End() {
	slog.Debug("quiz ended", "session", e.session, "correct", e.correctCount, "guesses", e.guessCount)
	e.reset()
}

// advance pops the next queue entry as the target. An empty queue is
// re-derived from the visible un-found pool; if that is empty too the
// quiz is exhausted.
func (e *Engine) advance() {
	e.clearTarget()

	if len(e.queue) == 0 {
		candidates := e.visibleUnfound()
		if len(candidates) == 0 {
			e.state = StateExhausted
			return
		}
		e.queue = e.shuffled(candidates)
	}

	next := e.queue[0]
	e.queue = e.queue[1:]
	e.current = newTarget(next)
	e.hasTarget = true
	e.resolved = false
	e.state = StateActive
}

// visibleUnfound returns pool tokens not yet found that match at
// least one currently rendered feature.
func (e *Engine) visibleUnfound() []string {
	features := e.querier.VisibleFeatures()
	if len(features) == 0 {
		return nil
	}

	foundSet := make(map[string]bool, len(e.found))
	for _, token := range e.found {
		foundSet[token] = true
	}

	var out []string
	for _, token := range e.pool {
		if foundSet[token] {
			continue
		}
		t := newTarget(token)
		for _, f := range features {
			if t.matches(f) {
				out = append(out, token)
				break
			}
		}
	}
	return out
}

func (e *Engine) shuffled(tokens []string) []string {
	out := append([]string(nil), tokens...)
	e.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (e *Engine) clearTarget() {
	e.current = target{}
	e.hasTarget = false
	e.resolved = false
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.session = ""
	e.index = nil
	e.pool = nil
	e.queue = nil
	e.clearTarget()
	e.found = nil
	e.correct = nil
	e.incorrect = nil
	e.correctCount = 0
	e.guessCount = 0
}
