package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/kv"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := kv.OpenSQLite(filepath.Join(dir, "typemaster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	p := progress.Open(st)
	t.Cleanup(func() {
		_ = p.Close()
	})

	ctx := context.Background()
	at := time.Unix(0, 0).UTC()
	for i := 0; i < 3; i++ {
		stats := model.TypingStats{
			WPM:             40 + i*10,
			Accuracy:        90,
			TotalCharacters: 10,
			TimeElapsed:     30,
			Errors: []model.TypingError{
				{Position: i, Expected: "b", Typed: "v", Timestamp: at},
			},
		}
		if err := p.RecordPractice(ctx, stats); err != nil {
			t.Fatalf("record practice: %v", err)
		}
	}
	if _, err := p.RecordAttempt(ctx, "en-bg-01", model.TypingStats{WPM: 30, Accuracy: 95}); err != nil {
		t.Fatalf("record attempt: %v", err)
	}

	report, err := BuildReport(ctx, p, model.StatsConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.History) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.History))
	}
	if report.History[0].WPM != 50 || report.History[1].WPM != 60 {
		t.Fatalf("expected the most recent sessions, got %+v", report.History)
	}
	if report.Overall.TotalSessions != 2 || report.Overall.AverageWPM != 55 {
		t.Fatalf("unexpected overall: %+v", report.Overall)
	}
	if _, ok := report.Bests["en-bg-01"]; !ok {
		t.Fatalf("expected best record for en-bg-01, got %+v", report.Bests)
	}
	if report.User.TotalLessonsCompleted != 1 {
		t.Fatalf("expected 1 completed lesson, got %d", report.User.TotalLessonsCompleted)
	}
	if len(report.CharErrors) != 1 || report.CharErrors[0].Errors != 2 {
		t.Fatalf("unexpected char errors: %+v", report.CharErrors)
	}
}
