package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/internal/config"
)

// configCommand groups the configuration file subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect configuration files",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write a default configuration file. The format follows the extension:
.csv writes the two-column parameter,value form, .yaml or .yml writes YAML.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.csv"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			printSuccess(c.out, "Created default config")
			printFile(c.out, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and check it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				printKeyValue(c.out, "file", cfg.File)
			}
			for _, e := range cfg.Entries() {
				printKeyValue(c.out, e.Key, e.Value)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			printSuccess(c.out, "Configuration is valid")
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())
	return cmd
}
