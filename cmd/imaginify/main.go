// Command imaginify serves the Imaginify image tools over HTTP and exposes
// the same helpers on the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imaginify-dev/imaginify/internal/config"
	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ierrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "imaginify",
		Short: "AI image transformation helpers",
		Long: `Imaginify builds Cloudinary transformation configs, shimmer
placeholders and navigation URLs, and serves them over HTTP.

Configuration is read from imaginify.json, .env and IMAGINIFY_*
environment variables, in that order of precedence (lowest first).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configDir, "config", "c", ".", "Directory containing imaginify.json")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")

	rootCmd.AddCommand(
		serveCmd(g),
		mergeCmd(),
		queryCmd(),
		shimmerCmd(),
		downloadCmd(g),
		transformCmd(g),
		versionCmd(),
	)

	return rootCmd
}

// load reads the configuration and applies the --log-level override.
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
