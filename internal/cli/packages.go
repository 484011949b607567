package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// packagesCommand lists every package recorded in a lockfile source.
func (c *CLI) packagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages in a lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			e, err := c.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			lock, ok := e.source.(*source.Lock)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "%s sources have no package list", e.source.Name())
			}
			m, err := lock.Mapping(cmd.Context())
			if err != nil {
				return err
			}
			printPackages(c.out, m.Entries())
			printDetail(c.out, "%d packages in %s", m.Len(), lock.Location())
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	return cmd
}

// depsCommand prints the direct dependencies as a text tree, without
// rendering anything.
func (c *CLI) depsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [package [version]]",
		Short: "Print the direct dependencies of a package as a tree",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, positional(args, "package_name", "version"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := c.open(ctx, cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			res, _, err := e.runner.Resolve(ctx, e.source, cfg.Core())
			if c.chooseVersion(ctx, cfg, err) {
				res, _, err = e.runner.Resolve(ctx, e.source, cfg.Core())
			}
			if err != nil {
				return fmt.Errorf("%s: %w", e.source.Name(), err)
			}
			printTree(c.out, cfg.PackageName, res.Version, res.Dependencies, res.Graph.Targets())
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	cmd.Flags().String("filter", "", "only list dependencies whose name contains this substring")
	return cmd
}
