package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/left4translate/internal/app"
	"github.com/vovakirdan/left4translate/internal/config"
	applog "github.com/vovakirdan/left4translate/internal/log"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		mode      string
		overrides config.Config
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tail the game log, translate chat and serve the overlay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := app.ParseMode(mode)
			if err != nil {
				return err
			}

			cfg, _, err := loadConfig(root)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger, closeLog, err := applog.NewWithFile(cfg.Logging.Level, cfg.Logging.Path)
			if err != nil {
				return err
			}
			defer closeLog()

			application, err := app.New(&cfg, m, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("mode", string(m)).Str("log_path", cfg.Game.LogPath).Msg("starting left4translate")
			if err := application.Run(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("left4translate exited with error")
				return err
			}
			logger.Info().Msg("left4translate stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&mode, "mode", string(app.ModeBoth), "inputs to translate: chat, voice or both")
	flags.BoolVar(&overrides.Game.FromStart, "from-start", false, "read the game log from the beginning")
	flags.StringVar(&overrides.Game.LogPath, "log-path", "", "game console log to tail")
	flags.StringVar(&overrides.Translation.TargetLanguage, "target", "", "target language code")
	flags.StringVar(&overrides.Translation.APIKey, "api-key", "", "translation API key")
	flags.StringVar(&overrides.Translation.Detector, "detector", "", "language detector: remote or lingua")
	flags.StringVar(&overrides.Display.Addr, "addr", "", "overlay HTTP listen address")
	flags.StringVar(&overrides.Store.DatabasePath, "db", "", "history database path")
	return cmd
}
