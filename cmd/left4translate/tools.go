package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/left4translate/internal/app"
	"github.com/vovakirdan/left4translate/internal/classifier"
)

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var chatOnly bool

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print which log lines are chat messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}
			cls, err := app.NewClassifier(cfg.Game, logger)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer f.Close()
				in = f
			}
			return classifyLines(cls, in, cmd.OutOrStdout(), chatOnly)
		},
	}
	cmd.Flags().BoolVar(&chatOnly, "chat-only", false, "print chat lines only")
	return cmd
}

func classifyLines(cls *classifier.Classifier, in io.Reader, out io.Writer, chatOnly bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		msg, ok := cls.Classify(line)
		switch {
		case ok && msg.IsTeamChat():
			fmt.Fprintf(out, "chat\t%s\t%s\t%s\n", msg.Team, msg.Player, msg.Content)
		case ok:
			fmt.Fprintf(out, "chat\t-\t%s\t%s\n", msg.Player, msg.Content)
		case !chatOnly:
			fmt.Fprintf(out, "skip\t%s\n", line)
		}
	}
	return sc.Err()
}

func newTranslateCmd(root *rootOptions) *cobra.Command {
	var source, target string

	cmd := &cobra.Command{
		Use:   "translate <text...>",
		Short: "Translate text once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}
			if target != "" {
				cfg.Translation.TargetLanguage = target
			}
			if err := cfg.RequireRemote(); err != nil {
				return err
			}
			svc, err := app.NewTranslationService(cfg.Translation, logger)
			if err != nil {
				return err
			}

			translated, err := svc.Translate(cmd.Context(), strings.Join(args, " "), source)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), translated)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source language code (detected when empty)")
	cmd.Flags().StringVar(&target, "target", "", "target language code")
	return cmd
}

func newDetectCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text...>",
		Short: "Detect the language of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}
			if !strings.EqualFold(cfg.Translation.Detector, app.DetectorLingua) {
				if err := cfg.RequireRemote(); err != nil {
					return err
				}
			}
			svc, err := app.NewTranslationService(cfg.Translation, logger)
			if err != nil {
				return err
			}

			lang, err := svc.DetectLanguage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), lang)
			return nil
		},
	}
}

func newTokenCmd(root *rootOptions) *cobra.Command {
	var (
		name     string
		teamOnly bool
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an overlay viewer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(root)
			if err != nil {
				return err
			}
			token, err := app.NewAuthService(cfg.Display).IssueToken(name, teamOnly, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "viewer name")
	cmd.Flags().BoolVar(&teamOnly, "team-only", false, "restrict the viewer to team chat")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default display.token_ttl)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
