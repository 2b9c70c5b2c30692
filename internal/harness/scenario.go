package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roadquiz/internal/catalog"
)

// Scenario is one scripted quiz run: a catalog, a token list, the
// player's actions in order, and assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the road catalog the quiz runs over.
	Catalog catalog.Catalog `yaml:"catalog"`

	// Popular lists the popular-name sets, if the scenario needs them.
	Popular PopularSets `yaml:"popular,omitempty"`

	// Tokens is the active token list snapshotted as the quiz pool.
	Tokens []string `yaml:"tokens"`

	// Seed fixes the target shuffle so traces are reproducible.
	Seed int64 `yaml:"seed"`

	// Script is the player's actions in order.
	Script []Step `yaml:"script"`

	// Assertions validate the final engine state.
	Assertions Assertions `yaml:"assertions"`
}

// PopularSets mirrors the city config's popular-name buckets.
type PopularSets struct {
	Major       []string `yaml:"major,omitempty"`
	Residential []string `yaml:"residential,omitempty"`
}

// Step is one scripted player action. Exactly one of Answer,
// AnswerTarget, Skip or End must be set.
type Step struct {
	// Answer grades this text against the current target, as if the
	// player clicked a feature with this name or ref.
	Answer string `yaml:"answer,omitempty"`

	// AnswerTarget grades the current target's own display label,
	// which is always a correct answer regardless of draw order.
	AnswerTarget bool `yaml:"answer_target,omitempty"`

	// Skip re-enqueues the current target.
	Skip bool `yaml:"skip,omitempty"`

	// End stops the quiz.
	End bool `yaml:"end,omitempty"`

	// Expect is the expected grading for an answer step:
	// "correct" or "incorrect". Empty skips the check.
	Expect string `yaml:"expect,omitempty"`
}

// Assertions validate the engine after the script runs.
type Assertions struct {
	// State is the expected final state: idle, active or exhausted.
	State string `yaml:"state,omitempty"`

	// Correct and Guesses check the final score when set.
	Correct *int `yaml:"correct,omitempty"`
	Guesses *int `yaml:"guesses,omitempty"`

	// Found lists tokens that must have been resolved, in any order.
	Found []string `yaml:"found,omitempty"`
}

// Expected grading values for Step.Expect.
const (
	ExpectCorrect   = "correct"
	ExpectIncorrect = "incorrect"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Tokens) == 0 {
		return fmt.Errorf("tokens list is required and must be non-empty")
	}
	if len(s.Script) == 0 {
		return fmt.Errorf("script is required and must be non-empty")
	}

	for i, step := range s.Script {
		set := 0
		if step.Answer != "" {
			set++
		}
		if step.AnswerTarget {
			set++
		}
		if step.Skip {
			set++
		}
		if step.End {
			set++
		}
		if set != 1 {
			return fmt.Errorf("script[%d]: exactly one of answer, answer_target, skip, end is required", i)
		}
		switch step.Expect {
		case "", ExpectCorrect, ExpectIncorrect:
		default:
			return fmt.Errorf("script[%d]: unknown expect %q", i, step.Expect)
		}
		if step.Expect != "" && step.Answer == "" && !step.AnswerTarget {
			return fmt.Errorf("script[%d]: expect requires an answer step", i)
		}
	}

	switch s.Assertions.State {
	case "", "idle", "active", "exhausted":
	default:
		return fmt.Errorf("assertions: unknown state %q", s.Assertions.State)
	}
	return nil
}
