package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/internal/backend"
	"github.com/matzehuels/lockgraph/internal/config"
	"github.com/matzehuels/lockgraph/internal/server"
	"github.com/matzehuels/lockgraph/pkg/pipeline"
)

// serveCommand runs the HTTP API until the command context is canceled.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency graphs over HTTP",
		Long: `Serve dependency graphs over HTTP.

Requests pick a package with ?package=&version= and may override the mode and
source. Local lockfile and manifest paths are resolved under --lock-root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			ch, err := backend.OpenCache(ctx, cfg)
			if err != nil {
				return err
			}
			keyer := backend.Keyer(cfg)
			runner := pipeline.NewRunner(ch, keyer, logger)
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:          cfg.Listen,
				Runner:        runner,
				Sources:       backend.NewSources(ch, cfg.CacheTTL).WithKeyer(keyer),
				Logger:        logger,
				DefaultMode:   cfg.EffectiveMode(),
				DefaultSource: cfg.Source,
				LockRoot:      cfg.LockRoot,
				AllowedURLs:   cfg.AllowedURLs,
			})
			printInfo(c.out, "Listening on %s", cfg.Listen)
			return srv.Serve(ctx)
		},
	}
	addSourceFlags(cmd.Flags())
	cmd.Flags().String("listen", "", "listen address (default "+config.DefaultListen+")")
	cmd.Flags().StringSlice("allow-url", nil, "lockfile URL that requests may fetch in url mode (repeatable)")
	cmd.Flags().String("lock-root", "", "directory that local lockfile paths are resolved under (default .)")
	return cmd
}
