// Package cli implements the tmplgen command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmplgen/pkg/buildinfo"
	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/config"
	"github.com/matzehuels/tmplgen/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tmplgen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// progress receives download progress bars; nil when w is not a terminal.
	progress io.Writer

	configPath string
	verbose    bool
	debug      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) {
		c.progress = f
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself generates templates.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.generateCommand()
	root.Version = buildinfo.Version
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log progress")
	pf.BoolVar(&c.debug, "debug", false, "log debug output, including HTTP and cache traffic")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.SetLogLevel(c.logLevel())
		if c.debug && c.verbose {
			c.Logger.Warn("--debug and --verbose both given, ignoring --verbose")
		}
		switch {
		case c.debug:
			registerLogHooks(c.Logger)
		case c.progress != nil:
			observability.SetDownloadHooks(newDownloadBar(c.progress))
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) logLevel() log.Level {
	switch {
	case c.debug:
		return LogDebug
	case c.verbose:
		return LogInfo
	default:
		return LogWarn
	}
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache picks the response cache: none with --no-cache, Redis when a URL
// is configured, files under the XDG cache directory otherwise.
func newCache(ctx context.Context, noCache bool, redisURL string) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil
	case redisURL != "":
		return cache.NewRedisCache(ctx, redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tmplgen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Version
// =============================================================================

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(appName)
			cmd.Println(buildinfo.String())
		},
	}
}
