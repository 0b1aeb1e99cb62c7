package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/tui"
)

const (
	defaultTestDuration = 60
	defaultTestWords    = 50
)

var (
	testDuration int
	testWords    int
	testLang     string
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a timed typing test",
		Args:  cobra.NoArgs,
		RunE:  runTestCmd,
	}
	cmd.Flags().IntVar(&testDuration, "duration", defaultTestDuration, "test length in seconds")
	cmd.Flags().IntVar(&testWords, "words", defaultTestWords, "words per text")
	cmd.Flags().StringVar(&testLang, "lang", defaultLang, "language code (en, bn)")
	return cmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyStringConfig(cmd, "lang", &testLang, fileCfg.Practice.Lang)
	if testDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if testWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}

	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := context.Background()
	prefs := app.loadSettings(ctx)
	cfg := model.Config{Lang: testLang, Words: testWords, PunctSet: defaultPunctSet, Duration: testDuration}
	next, err := app.practiceSource(ctx, cfg, "words", prefs.DifficultyLevel)
	if err != nil {
		return err
	}
	_, err = app.runTUI(tui.Options{
		Mode:     model.ModeTimedTest,
		Duration: time.Duration(cfg.Duration) * time.Second,
		Settings: prefs,
		Progress: app.progress,
		NextText: next,
	})
	return err
}
