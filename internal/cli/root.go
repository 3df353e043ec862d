// Package cli implements the bitfuse command line.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand builds the bitfuse command tree writing to out and errOut.
func NewRootCommand(info BuildInfo, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "bitfuse",
		Short: "Approximate string matching over lists and records",
		Long: `bitfuse ranks the items of a collection by how closely they match a
pattern, tolerating typos, transpositions and partial matches.

Collections are JSON, YAML or plain text files with one item per line.
Settings are read from a TOML or YAML file (--config or BITFUSE_CONFIG),
then BITFUSE_* environment variables, then command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newSearchCommand(),
		newWatchCommand(),
		newVersionCommand(info),
	)
	return root
}

// Execute runs the command line with args.
func Execute(ctx context.Context, info BuildInfo, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(info, out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
