package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/urlquery"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build navigation URLs from a query string",
	}
	cmd.AddCommand(queryFormCmd(), queryRemoveCmd())
	return cmd
}

func queryFormCmd() *cobra.Command {
	var (
		path     string
		null     bool
		keepNull bool
	)

	cmd := &cobra.Command{
		Use:   "form <query> <key> [value]",
		Short: "Set a query parameter and print the resulting URL",
		Long: `Set key to value in query and print path joined with the result.

Without a value (or with --null) the key becomes null and is dropped,
unless --keep-null writes it as a bare key.

Examples:
  imaginify query form "page=2&title=cat" page 3
  imaginify query form --path=/transformations "?q=dog" q`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] == "" {
				return ierrors.New("E122")
			}
			var value any
			if len(args) == 3 && !null {
				value = args[2]
			}
			var opts []urlquery.Option
			if keepNull {
				opts = append(opts, urlquery.WithKeepNull())
			}
			fmt.Fprintln(cmd.OutOrStdout(), urlquery.Form(path, args[0], args[1], value, opts...))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "Path the query is joined onto")
	cmd.Flags().BoolVar(&null, "null", false, "Set the key to null even if a value is given")
	cmd.Flags().BoolVar(&keepNull, "keep-null", false, "Write null keys as bare keys")

	return cmd
}

func queryRemoveCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "remove <query> <key>...",
		Short: "Remove query parameters and print the resulting URL",
		Example: `  imaginify query remove "page=2&title=cat&q=dog" page q`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), urlquery.Remove(path, args[0], args[1:]))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "Path the query is joined onto")

	return cmd
}
