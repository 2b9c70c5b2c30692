package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/quiz"
)

// QuizOptions holds flags for the quiz command.
type QuizOptions struct {
	*RootOptions
	CatalogOptions
}

// NewQuizCommand creates the quiz command.
func NewQuizCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuizOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "quiz <token>...",
		Short: "Run a terminal road quiz over a token list",
		Long: `Run the locate-the-road quiz in the terminal. Each prompt names a
road from your token list; answer with any road name or ref that
belongs to it. Answers are graded with the same structural matching
a map click would get, so directional variants and plurals count.

Enter "skip" to come back to a road later and "end" to stop.

Example:
  roadquiz quiz --catalog ottawa.json bank king "king edward"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(opts, args, cmd)
		},
	}

	addCatalogFlags(cmd, &opts.CatalogOptions)
	return cmd
}

// indexQuerier adapts a catalog index to the quiz's feature querier.
// Every catalog entry is "visible"; the feature under a click is the
// road name the player typed.
type indexQuerier struct {
	visible []quiz.Feature
	answer  []quiz.Feature
}

func newIndexQuerier(idx *catalog.Index) *indexQuerier {
	q := &indexQuerier{}
	for _, entry := range idx.NameEntries {
		q.visible = append(q.visible, quiz.Feature{Name: entry.Label})
	}
	for _, entry := range idx.RefEntries {
		q.visible = append(q.visible, quiz.Feature{Ref: entry.Label})
	}
	return q
}

func (q *indexQuerier) VisibleFeatures() []quiz.Feature { return q.visible }

func (q *indexQuerier) FeaturesAt(x, y float64) []quiz.Feature { return q.answer }

func runQuiz(opts *QuizOptions, tokens []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	idx, err := loadIndex(cmd.Context(), &opts.CatalogOptions)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load catalog", err)
	}
	tun, err := loadTuning(opts.Config)
	if err != nil {
		formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load city config", err)
	}

	mi := resolveTokens(idx, tun, tokens)
	querier := newIndexQuerier(idx)
	engine := quiz.New(querier)

	if err := engine.Start(mi); err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "start quiz", err)
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for engine.State() == quiz.StateActive {
		fmt.Fprintf(out, "Find: %s\n> ", engine.Prompt())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "skip":
			if err := engine.Skip(); err != nil {
				return WrapExitError(ExitFailure, "skip", err)
			}
		case "end", "quit", "exit":
			correct, guesses := engine.Score()
			fmt.Fprintf(out, "Stopped early: %d of %d correct\n", correct, guesses)
			engine.End()
			return nil
		default:
			querier.answer = []quiz.Feature{{Name: line}, {Ref: line}}
			res := engine.ResolveClick(0, 0)
			if !res.Graded {
				continue
			}
			if res.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Not quite - that was not %s\n", mi.Label(res.Target))
			}
			engine.Advance()
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "read input", err)
	}

	if engine.State() == quiz.StateExhausted {
		fmt.Fprintln(out, engine.FinalMessage())
	} else {
		correct, guesses := engine.Score()
		fmt.Fprintf(out, "Stopped early: %d of %d correct\n", correct, guesses)
	}
	engine.End()
	return nil
}
