package cli

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/model"
	"github.com/piwi3910/declutter/internal/project"
)

// configCommand groups the config subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the declutter configuration",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configExportCommand())
	cmd.AddCommand(c.configImportCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileExists(c.configPath) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
			}
			if err := project.SaveAppConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			c.printSuccess("Wrote default configuration")
			c.printFile(c.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(c.out).Encode(c.config)
		},
	}
}

func (c *CLI) configExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [backup.json]",
		Short: "Bundle the configuration and recent boards into one backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var boards []model.Board
			for _, path := range c.config.RecentBoards {
				board, err := c.loadBoard(path)
				if err != nil {
					c.Logger.Warn("skipping board", "path", path, "err", err)
					continue
				}
				boards = append(boards, board)
			}
			if err := project.ExportAllData(args[0], c.config, boards); err != nil {
				return err
			}
			c.printSuccess("Exported configuration and %d boards", len(boards))
			c.printFile(args[0])
			return nil
		},
	}
}

func (c *CLI) configImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [backup.json]",
		Short: "Restore the configuration and boards from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}

			cfg := backup.Config
			cfg.RecentBoards = []string{}
			boardDir := filepath.Join(c.dataDir(), "boards")
			for _, b := range backup.Boards {
				path := filepath.Join(boardDir, filepath.Base(b.Name)+project.BoardExt)
				if err := project.SaveBoard(path, b); err != nil {
					return fmt.Errorf("restore board %q: %w", b.Name, err)
				}
				cfg.RecentBoards = append(cfg.RecentBoards, path)
			}

			if err := project.SaveAppConfig(c.configPath, cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			c.config = cfg
			c.printSuccess("Restored configuration and %d boards", len(backup.Boards))
			c.printFile(c.configPath)
			return nil
		},
	}
}
