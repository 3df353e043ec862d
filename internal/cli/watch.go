package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/bitfuse/internal/config"
	"github.com/dshills/bitfuse/internal/watcher"
	"github.com/dshills/bitfuse/pkg/field"
)

func newWatchCommand() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "watch [flags] <pattern>",
		Short: "Search a collection again whenever it changes",
		Long: `watch prints the results of a search, then reloads the collection and
prints fresh results each time the collection file is written. It runs
until interrupted.`,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, settings, config.DefaultFS(), log)
			if err != nil {
				return err
			}
			defer s.Close()

			p := newPrinter(cmd.OutOrStdout(), settings.Limit, f.noColor)
			pattern := args[0]
			run := func() error {
				results, err := s.search(ctx, pattern)
				if err != nil {
					return err
				}
				return p.print(results)
			}
			if err := run(); err != nil {
				return err
			}

			w, err := watcher.Watch(settings.Collection, watcher.WithDebounceDelay(settings.Debounce))
			if err != nil {
				return err
			}
			defer w.Close()

			r := watcher.NewReloader(w, s.loadCollection, s.engine,
				watcher.WithLogger(log.WithField("component", "watcher")),
				watcher.OnReload(func([]field.Value) {
					if err := run(); err != nil && !errors.Is(err, ctx.Err()) {
						log.WithError(err).Error("search failed")
					}
				}),
			)
			return r.Run(ctx)
		},
	}
	f.register(cmd.Flags())
	return cmd
}
