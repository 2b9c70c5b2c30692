package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/roadquiz/internal/mapexpr"
	"github.com/roach88/roadquiz/internal/paint"
)

// PaintOptions holds flags for the paint command.
type PaintOptions struct {
	*RootOptions
	CatalogOptions
	Out   string
	Found []string
}

// NewPaintCommand creates the paint command.
func NewPaintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PaintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "paint <token>...",
		Short: "Compile rendering expressions for a token list",
		Long: `Compile the filter, color, opacity and label expressions the map
layer would receive for a token list, and print them as JSON.

With --found, the opacity expression is the quiz reveal: only
features of already-found tokens are visible.

Example:
  roadquiz paint --catalog ottawa.json bank king 417
  roadquiz paint --catalog ottawa.json --found bank -- bank king`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaint(opts, args, cmd)
		},
	}

	addCatalogFlags(cmd, &opts.CatalogOptions)
	cmd.Flags().StringVar(&opts.Out, "out", "", "write expressions to a file instead of stdout")
	cmd.Flags().StringSliceVar(&opts.Found, "found", nil, "tokens already found (quiz opacity)")

	return cmd
}

func runPaint(opts *PaintOptions, tokens []string, cmd *cobra.Command) error {
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
	compiler := &paint.Compiler{Popularity: tun.popularity, Options: tun.paintOpts}
	output := compiler.Compile(mi, idx)
	if len(opts.Found) > 0 {
		output.Opacity = compiler.QuizOpacity(mi, idx, opts.Found)
	}

	encoded := map[string]any{}
	for name, expr := range map[string]mapexpr.Expr{
		"filter":  output.Filter,
		"color":   output.Color,
		"opacity": output.Opacity,
		"label":   output.Label,
	} {
		v, err := mapexpr.Encode(expr)
		if err != nil {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "encode "+name+" expression", err)
		}
		encoded[name] = v
	}

	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "marshal expressions", err)
	}
	data = append(data, '\n')

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "write expressions", err)
		}
		formatter.VerboseLog("wrote %s", opts.Out)
		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
