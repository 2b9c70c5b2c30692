package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roadquiz/internal/store"
)

// CitiesOptions holds flags for the cities command.
type CitiesOptions struct {
	*RootOptions
	Database string
}

// NewCitiesCommand creates the cities command.
func NewCitiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CitiesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "cities",
		Short:         "List catalogs stored in a catalog database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCities(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCities(opts *CitiesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open catalog database", err)
	}
	defer s.Close()

	infos, err := s.Catalogs(cmd.Context())
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list catalogs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		return formatter.Success("no catalogs stored")
	}
	var b strings.Builder
	for _, info := range infos {
		fmt.Fprintf(&b, "%s\t%d names\t%d refs\tbuilt %s\n", info.City, info.Names, info.Refs, info.BuiltAt)
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}
