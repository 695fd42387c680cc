// Package cli implements the declutter command-line interface.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/model"
	"github.com/piwi3910/declutter/internal/project"
)

const (
	// appName is the application name used for display.
	appName = "declutter"

	// recentBoardLimit caps the recent boards list kept in the config.
	recentBoardLimit = 10
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
	config     model.AppConfig
}

// New creates a new CLI instance. Command output goes to out, logs to logOut.
func New(out, logOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logOut, level),
		out:    out,
		config: model.DefaultAppConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Declutter spreads overlapping rectangles apart and packs them back together",
		Long: `Declutter is a CLI tool for resolving overlaps between freely positioned
rectangles. Items close to each other form clusters; each cluster is pushed
apart until no two items overlap and then pulled back towards its centre.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}
	root.SetOut(c.out)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "config file (.toml, .yaml or .json)")

	root.AddCommand(c.settleCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.configCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless
// --verbose was given.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", c.configPath, err)
	}
	c.config = cfg

	level := LogInfo
	if cfg.LogLevel != "" {
		parsed, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			c.Logger.Warn("ignoring unknown log level", "level", cfg.LogLevel)
		} else {
			level = parsed
		}
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// dataDir is the directory holding the config file; boards restored from a
// backup and the default history database live next to it.
func (c *CLI) dataDir() string {
	return filepath.Dir(c.configPath)
}

// databasePath resolves the settle history database from a flag value,
// falling back to the configured path.
func (c *CLI) databasePath(flag string) string {
	if flag != "" {
		return flag
	}
	return c.config.DatabasePath
}

// rememberBoard records path in the recent boards list when a config file exists.
func (c *CLI) rememberBoard(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if !fileExists(c.configPath) {
		return
	}
	c.config.AddRecentBoard(abs, recentBoardLimit)
	if err := project.SaveAppConfig(c.configPath, c.config); err != nil {
		c.Logger.Warn("could not update recent boards", "err", err)
	}
}
