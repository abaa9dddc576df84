// Package cli implements the lifectl command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/i18n"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Verbose    bool
}

// NewRootCommand creates the root command for lifectl
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lifectl",
		Short: "lifectl - drive the life simulation from a terminal",
		Long:  "Run autopilot games and inspect stored lives of the life simulation.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file (defaults are used when empty)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "override the data directory")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine activity to stderr")

	cmd.AddCommand(NewAutoplayCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// loadConfig reads the configuration file when one is given
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}
	if o.DataDir != "" {
		cfg.Server.DataDir = o.DataDir
	}
	return cfg, nil
}

func (o *RootOptions) logger(w io.Writer) *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(w, "failed to build logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

func (o *RootOptions) engine(cfg config.Config) (*game.Engine, error) {
	catalog, err := game.NewDataLoader(cfg.Server.DataDir).LoadCatalog()
	if err != nil {
		return nil, err
	}
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}
	return game.NewEngine(cfg.Game, catalog, bundle.Localizer())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
