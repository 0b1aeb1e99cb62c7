package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/diff"
	"github.com/verte-zerg/typemaster/internal/metrics"
	"github.com/verte-zerg/typemaster/internal/model"
)

var (
	analyzeText    string
	analyzeInput   string
	analyzeSeconds float64
	analyzeJSON    bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze typed input against a reference text",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeText, "text", "", "reference text")
	cmd.Flags().StringVar(&analyzeInput, "input", "", "typed input")
	cmd.Flags().Float64Var(&analyzeSeconds, "seconds", 0, "elapsed typing time in seconds")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print stats as JSON")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	if analyzeSeconds < 0 {
		return fmt.Errorf("--seconds must be >= 0")
	}
	end := time.Now()
	start := end.Add(-time.Duration(analyzeSeconds * float64(time.Second)))
	result := diff.Analyze([]rune(analyzeText), []rune(analyzeInput), start, end)
	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return writeAnalysis(cmd.OutOrStdout(), result)
}

func writeAnalysis(w io.Writer, s model.TypingStats) error {
	lines := []string{
		fmt.Sprintf("WPM: %d (%s)", s.WPM, metrics.TypingLevel(s.WPM)),
		fmt.Sprintf("Accuracy: %d%% (%s)", s.Accuracy, metrics.AccuracyLevel(s.Accuracy)),
		fmt.Sprintf("Characters: %d correct, %d incorrect, %d total", s.CorrectCharacters, s.IncorrectCharacters, s.TotalCharacters),
		fmt.Sprintf("Time: %s", metrics.FormatTime(int(s.TimeElapsed))),
	}
	for _, e := range s.Errors {
		if e.Expected == "" {
			lines = append(lines, fmt.Sprintf("  at %d: extra %q", e.Position, e.Typed))
			continue
		}
		lines = append(lines, fmt.Sprintf("  at %d: expected %q, typed %q", e.Position, e.Expected, e.Typed))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
