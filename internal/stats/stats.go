// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typemaster/internal/metrics"
	"github.com/verte-zerg/typemaster/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample stretches or averages values to exactly width points.
func Resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) >= width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// RenderSummary prints aggregate practice figures.
func RenderSummary(w io.Writer, overall model.OverallStats, history []model.TypingStats) error {
	if overall.TotalSessions == 0 {
		_, err := fmt.Fprintln(w, "No practice sessions yet.")
		return err
	}
	bestWPM := 0
	for _, s := range history {
		bestWPM = max(bestWPM, s.WPM)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", overall.TotalSessions),
		fmt.Sprintf("Avg WPM: %d (%s)", overall.AverageWPM, metrics.TypingLevel(overall.AverageWPM)),
		fmt.Sprintf("Best WPM: %d", bestWPM),
		fmt.Sprintf("Avg Accuracy: %d%% (%s)", overall.AverageAccuracy, metrics.AccuracyLevel(overall.AverageAccuracy)),
		fmt.Sprintf("Total Time: %s", metrics.FormatTime(overall.TotalTime)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints smoothed WPM and accuracy sparklines, width cells wide.
func RenderTrend(w io.Writer, history []model.TypingStats, window, width int) error {
	if len(history) == 0 {
		return nil
	}
	wpms := make([]float64, len(history))
	accs := make([]float64, len(history))
	for i, s := range history {
		wpms[i] = float64(s.WPM)
		accs[i] = float64(s.Accuracy)
	}
	series := []struct {
		name   string
		values []float64
	}{
		{"WPM", MovingAverage(wpms, window)},
		{"Accuracy", MovingAverage(accs, window)},
	}
	if _, err := fmt.Fprintln(w, "Trend"); err != nil {
		return err
	}
	for _, s := range series {
		lo, hi := minMax(s.values)
		line := fmt.Sprintf("%-8s |%s| %.0f..%.0f", s.name, Sparkline(Resample(s.values, max(width, 1))), lo, hi)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBestTable prints the best record of every lesson.
func RenderBestTable(w io.Writer, lessons []model.Lesson, bests map[string]model.TypingStats) error {
	if _, err := fmt.Fprintln(w, "Lessons"); err != nil {
		return err
	}
	headers := []string{"Lesson", "Title", "Best WPM", "Accuracy", "Goal"}
	rows := make([][]string, 0, len(lessons))
	for _, l := range lessons {
		best, ok := bests[l.ID]
		if !ok {
			rows = append(rows, []string{l.ID, l.Title, "-", "-", ""})
			continue
		}
		goal := "not reached"
		if l.Evaluate(best).Passed() {
			goal = "reached"
		}
		rows = append(rows, []string{
			l.ID,
			l.Title,
			fmt.Sprintf("%d", best.WPM),
			fmt.Sprintf("%d%%", best.Accuracy),
			goal,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderErrorTable prints the most frequently mistyped characters.
func RenderErrorTable(w io.Writer, aggs []model.CharAggregate, limit int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No typing errors recorded.")
		return err
	}
	if limit > 0 && len(aggs) > limit {
		aggs = aggs[:limit]
	}
	if _, err := fmt.Fprintln(w, "Most Mistyped"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{charLabel(agg.Char), fmt.Sprintf("%d", agg.Errors), charLabel(agg.MostTyped)})
	}
	for _, line := range formatTable([]string{"Char", "Errors", "Usually Typed"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SortedKeys returns map keys in ascending order.
func SortedKeys(m map[string]model.TypingStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func charLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "":
		return "<extra>"
	default:
		return ch
	}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
