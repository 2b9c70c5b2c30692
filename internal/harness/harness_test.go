package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadquiz/internal/catalog"
)

func intPtr(v int) *int { return &v }

func bankScenario() *Scenario {
	return &Scenario{
		Name:        "bank-answer-target",
		Description: "answering with the target label is graded correct",
		Catalog: catalog.Catalog{
			Names: []string{"Bank Street", "Bank Street South"},
		},
		Tokens: []string{"bank"},
		Seed:   1,
		Script: []Step{
			{AnswerTarget: true, Expect: ExpectCorrect},
		},
		Assertions: Assertions{
			State:   "exhausted",
			Correct: intPtr(1),
			Guesses: intPtr(1),
			Found:   []string{"bank"},
		},
	}
}

func TestRun_AnswerTarget(t *testing.T) {
	result, err := Run(bankScenario())
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Failures)
}

func TestRun_WrongAnswer(t *testing.T) {
	s := bankScenario()
	s.Script = []Step{{Answer: "Zebra Crossing", Expect: ExpectIncorrect}}
	s.Assertions = Assertions{State: "exhausted", Correct: intPtr(0), Guesses: intPtr(1)}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Failures)
}

func TestRun_SkipThenAnswer(t *testing.T) {
	s := bankScenario()
	s.Script = []Step{
		{Skip: true},
		{AnswerTarget: true, Expect: ExpectCorrect},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Failures)
}

func TestRun_ReportsExpectationMismatch(t *testing.T) {
	s := bankScenario()
	s.Script = []Step{{AnswerTarget: true, Expect: ExpectIncorrect}}
	s.Assertions = Assertions{}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected incorrect")
}

func TestRun_ReportsAssertionMismatch(t *testing.T) {
	s := bankScenario()
	s.Assertions.Correct = intPtr(5)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, strings.Join(result.Failures, "\n"), "correct: want 5")
}

func TestRun_EndResetsEngine(t *testing.T) {
	s := bankScenario()
	s.Script = []Step{{End: true}}
	s.Assertions = Assertions{State: "idle", Correct: intPtr(0), Guesses: intPtr(0)}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Failures)
}

func TestRun_NothingVisible(t *testing.T) {
	s := bankScenario()
	s.Catalog = catalog.Catalog{}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start quiz")
}

func TestRun_TraceGolden(t *testing.T) {
	result, err := Run(bankScenario())
	require.NoError(t, err)
	require.True(t, result.Pass, "failures: %v", result.Failures)

	g := goldie.New(t)
	g.Assert(t, "trace", []byte(strings.Join(result.Trace, "\n")+"\n"))
}
