package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/internal/backend"
	"github.com/matzehuels/lockgraph/internal/config"
	"github.com/matzehuels/lockgraph/pkg/buildinfo"
	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/integrations"
	"github.com/matzehuels/lockgraph/pkg/pipeline"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "lockgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by [ExitCode].
const (
	ExitOK       = 0
	ExitError    = 1
	ExitConfig   = 2
	ExitNotFound = 3
	ExitFetch    = 4
	ExitCanceled = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out  io.Writer
	pick versionPicker
}

// New creates a CLI that logs to logw at level and prints results to stdout.
func New(logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    os.Stdout,
		pick:   terminalPicker(os.Stdin, os.Stderr),
	}
}

// SetOutput redirects command output (not logs) to w.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          appName,
		Short:        "lockgraph draws the direct dependencies of a Rust crate",
		Long:         `lockgraph reads a Cargo.lock, a Cargo.toml or the crates.io registry, finds the direct dependencies of one package version and draws them as a Graphviz graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringP("config", "c", "", "config file (.yaml, .yml or .csv)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Exit Codes
// =============================================================================

// ExitCode maps an error returned by a command to a process exit code:
// 2 for configuration problems, 3 when the package version does not exist,
// 4 when the source could not be read and 130 on interruption.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, errors.ErrCodeInvalidConfig):
		return ExitConfig
	case stderrors.Is(err, deps.ErrNotFound), errors.Is(err, errors.ErrCodePackageNotFound):
		return ExitNotFound
	case stderrors.Is(err, integrations.ErrNetwork), stderrors.Is(err, integrations.ErrNotFound):
		return ExitFetch
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNetwork, errors.ErrCodeFileNotFound, errors.ErrCodeTimeout:
		return ExitFetch
	}
	return ExitError
}

// =============================================================================
// Shared Wiring
// =============================================================================

// loadConfig reads the configuration for cmd. Load failures are reported as
// configuration errors so they share an exit code with validation.
func loadConfig(cmd *cobra.Command, overrides map[string]any) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags(), overrides)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidConfig) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load configuration")
	}
	return cfg, nil
}

// env bundles what a command needs to run against the configured source.
type env struct {
	cache  cache.Cache
	source source.Source
	runner *pipeline.Runner
}

func (c *CLI) open(ctx context.Context, cfg *config.Config) (*env, error) {
	ch, err := backend.OpenCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	keyer := backend.Keyer(cfg)
	src, err := backend.NewSources(ch, cfg.CacheTTL).WithKeyer(keyer).OpenConfigured(cfg)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return &env{
		cache:  ch,
		source: src,
		runner: pipeline.NewRunner(ch, keyer, loggerFromContext(ctx)),
	}, nil
}

func (e *env) Close() error { return e.runner.Close() }
