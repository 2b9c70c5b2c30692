package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	CatalogOptions
}

// tokenResult is the JSON payload for one resolved token.
type tokenResult struct {
	Token string   `json:"token"`
	Label string   `json:"label"`
	Names []string `json:"names"`
	Refs  []string `json:"refs"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <token>...",
		Short: "Resolve road tokens against a catalog",
		Long: `Resolve road tokens against a city catalog and print what each
token matched: its display label and the catalog names and refs it
expands to.

Example:
  roadquiz match --catalog ottawa.json bank "king edward" 417
  roadquiz match --db catalogs.db --city ottawa --config config/ottawa king
  roadquiz match --registry cities.yaml --city ottawa king`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args, cmd)
		},
	}

	addCatalogFlags(cmd, &opts.CatalogOptions)
	return cmd
}

func runMatch(opts *MatchOptions, tokens []string, cmd *cobra.Command) error {
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

	results := make([]tokenResult, 0, len(mi.Tokens))
	for _, token := range mi.Tokens {
		tm := mi.ByToken[token]
		results = append(results, tokenResult{
			Token: token,
			Label: mi.Label(token),
			Names: tm.EffectiveNames().Values(),
			Refs:  tm.Refs.Values(),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(results)
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintf(out, "%s -> %s\n", res.Token, res.Label)
		fmt.Fprintf(out, "  names: %s\n", joinOrDash(res.Names))
		fmt.Fprintf(out, "  refs:  %s\n", joinOrDash(res.Refs))
	}
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
