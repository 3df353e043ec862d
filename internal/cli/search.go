package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/bitfuse/internal/config"
)

func newSearchCommand() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search [flags] <pattern>",
		Short: "Search a collection",
		Example: `  bitfuse search -f fruits.txt aple
  bitfuse search -f books.json -k title -k author.firstName:0.3 --include-score "old mans war"
  bitfuse search -f feed.json --select items --id guid --tokenize --limit 5 "go generics"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.settings(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), settings)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), settings, config.DefaultFS(), log)
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := s.search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), settings.Limit, f.noColor).print(results)
		},
	}
	f.register(cmd.Flags())
	return cmd
}
