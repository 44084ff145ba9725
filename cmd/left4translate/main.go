// left4translate translates Left 4 Dead 2 chat and speech transcripts and
// shows them on an overlay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/left4translate/internal/config"
	applog "github.com/vovakirdan/left4translate/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "left4translate",
		Short:         "Translate game chat and voice transcripts in real time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(opts),
		newClassifyCmd(opts),
		newTranslateCmd(opts),
		newDetectCmd(opts),
		newTokenCmd(opts),
		newWatchCmd(),
	)
	return root
}

// loadConfig resolves configuration and applies the root flag overrides.
// Diagnostics go to stderr so command output stays clean.
func loadConfig(opts *rootOptions) (config.Config, *zerolog.Logger, error) {
	bootstrap := applog.NewConsole("info", os.Stderr)
	if opts.logLevel != "" {
		bootstrap = applog.NewConsole(opts.logLevel, os.Stderr)
	}

	cfg, path, err := config.Load(bootstrap, opts.configPath)
	if err != nil {
		return cfg, bootstrap, err
	}
	cfg.UpdateFrom(config.Config{Logging: config.LoggingConfig{Level: opts.logLevel}})
	bootstrap.Debug().Str("config_path", path).Msg("configuration loaded")
	return cfg, bootstrap, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
