package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// graphCommand creates the graph command, the main entry point: resolve a
// package's direct dependencies and draw them.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [package [version]]",
		Short: "Draw the direct dependencies of a package",
		Long: `Resolve the direct dependencies of a package version and draw them.

The source is a Cargo.lock (default), a lockfile URL, a Cargo.toml, the
crates.io registry or the built-in test repository. If the image cannot be
rendered the DOT text is saved next to the requested output instead.

Without a version, a lockfile holding several versions of the package
offers them in an interactive list when stdin is a terminal.`,
		Example: `  lockgraph graph serde 1.0.200 --test-repo
  lockgraph graph tokio --mode registry -o tokio.svg
  lockgraph graph --config config.csv`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args)
		},
	}
	addSourceFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(cmd, positional(args, "package_name", "version"))
	if err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("loaded config file", "path", cfg.File)
	}
	printSection(c.out, "CONFIG PARAMETERS")
	for _, e := range cfg.Entries() {
		printSetting(c.out, e.Key, e.Value)
	}
	printRule(c.out)

	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := c.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	prog := newProgress(logger)
	res, err := e.runner.Run(ctx, e.source, cfg.Core())
	if c.chooseVersion(ctx, cfg, err) {
		res, err = e.runner.Run(ctx, e.source, cfg.Core())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", e.source.Name(), err)
	}
	prog.done(fmt.Sprintf("Resolved %s %s", cfg.PackageName, res.Version))

	printSection(c.out, "DIRECT DEPENDENCIES")
	printDependencies(c.out, res.Dependencies)
	printRule(c.out)

	if res.Fallback {
		printWarning(c.out, "%s generation failed: %v", res.Format, res.RenderErr)
		printSuccess(c.out, "DOT saved: %s", res.OutputPath)
		return nil
	}
	printSuccess(c.out, "%s graph saved: %s", res.Format, res.OutputPath)
	printStats(c.out, len(res.Graph.Nodes()), res.Stats.EdgeCount, res.CacheInfo.GraphHit || res.CacheInfo.RenderHit)
	return nil
}
