package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/statsui"
)

const (
	defaultCurveWindow = 5
	defaultErrorRows   = 10
)

var (
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	cfg := model.StatsConfig{Last: statsLast, CurveWindow: statsCurveWindow}
	out := cmd.OutOrStdout()
	if statsPlain || !stats.IsTerminal(out) {
		report, err := stats.BuildReport(context.Background(), app.progress, cfg)
		if err != nil {
			return err
		}
		return writePlainStats(out, report, app.catalog.Lessons(""), cfg, stats.TerminalWidth())
	}

	m := statsui.NewModel(app.progress, app.catalog.Lessons(""), cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainStats(w io.Writer, report stats.Report, lessons []model.Lesson, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Overall, report.History); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, report.History, cfg.CurveWindow, max(width-24, 10)); err != nil {
		return err
	}
	if err := stats.RenderBestTable(w, lessons, report.Bests); err != nil {
		return err
	}
	return stats.RenderErrorTable(w, report.CharErrors, defaultErrorRows)
}
