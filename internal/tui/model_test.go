package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/kv"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/settings"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

func newTestProgress(t *testing.T) *progress.Progress {
	t.Helper()
	p := progress.Open(kv.NewMemory())
	t.Cleanup(func() {
		_ = p.Close()
	})
	return p
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPracticeCompletionRecordsHistory(t *testing.T) {
	clock := &stepClock{now: time.Unix(100, 0)}
	p := newTestProgress(t)
	m := NewModel(Options{
		Mode:     model.ModePractice,
		Settings: settings.Defaults(),
		Progress: p,
		NextText: func() string { return "cat" },
		Clock:    clock,
	})
	typeText(m, "ca")
	clock.now = clock.now.Add(6 * time.Second)
	typeText(m, "t")

	result, ok := m.Result()
	if !ok {
		t.Fatalf("expected completed attempt")
	}
	if result.WPM != 6 || result.Accuracy != 100 {
		t.Fatalf("expected 6 WPM at 100%%, got %+v", result)
	}
	if history := p.History(context.Background()); len(history) != 1 {
		t.Fatalf("expected 1 saved session, got %d", len(history))
	}
	if !strings.Contains(m.View(), "Result") {
		t.Fatalf("expected result view")
	}
}

func TestLessonCompletionRecordsBest(t *testing.T) {
	clock := &stepClock{now: time.Unix(100, 0)}
	p := newTestProgress(t)
	lesson := model.Lesson{ID: "en-bg-01", Title: "Home row", Content: "as", TargetWPM: 1, MinAccuracy: 90}
	m := NewModel(Options{
		Mode:     model.ModeLesson,
		Lesson:   lesson,
		Settings: settings.Defaults(),
		Progress: p,
		Clock:    clock,
	})
	typeText(m, "a")
	clock.now = clock.now.Add(time.Second)
	typeText(m, "s")

	if !m.improved {
		t.Fatalf("expected first attempt to be stored as best")
	}
	if !m.lessonResult.Passed() {
		t.Fatalf("expected lesson goals reached, got %+v", m.lessonResult)
	}
	if _, ok := p.Best(context.Background(), "en-bg-01"); !ok {
		t.Fatalf("expected best record")
	}
	if !strings.Contains(m.View(), "New best record") {
		t.Fatalf("expected best record notice in view")
	}
}

func TestBackspaceAndRestart(t *testing.T) {
	m := NewModel(Options{
		Mode:     model.ModePractice,
		Settings: settings.Defaults(),
		NextText: func() string { return "abc" },
	})
	typeText(m, "ax")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if string(m.input) != "a" {
		t.Fatalf("expected input a, got %q", string(m.input))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if len(m.input) != 0 || m.sess.Status() != model.StatusIdle {
		t.Fatalf("expected restarted idle attempt")
	}
}

func TestPauseOnErrorBlocksInput(t *testing.T) {
	st := settings.Defaults()
	st.PauseOnError = true
	m := NewModel(Options{
		Mode:     model.ModePractice,
		Settings: st,
		NextText: func() string { return "abc" },
	})
	typeText(m, "xb")
	if string(m.input) != "x" {
		t.Fatalf("expected input blocked after error, got %q", string(m.input))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "ab")
	if string(m.input) != "ab" {
		t.Fatalf("expected input accepted after correction, got %q", string(m.input))
	}
}

func TestTimedTestCountdownStops(t *testing.T) {
	p := newTestProgress(t)
	m := NewModel(Options{
		Mode:     model.ModeTimedTest,
		Duration: 2 * time.Second,
		Settings: settings.Defaults(),
		Progress: p,
		NextText: func() string { return "hello world" },
	})
	typeText(m, "he")
	m.Update(countdownMsg{attempt: m.attempt})
	if _, ok := m.Result(); ok {
		t.Fatalf("expected attempt still running")
	}
	m.Update(countdownMsg{attempt: m.attempt})
	result, ok := m.Result()
	if !ok {
		t.Fatalf("expected countdown to stop the attempt")
	}
	if result.CorrectCharacters != 2 {
		t.Fatalf("expected 2 correct characters, got %d", result.CorrectCharacters)
	}
	if history := p.History(context.Background()); len(history) != 1 {
		t.Fatalf("expected timed result in history, got %d", len(history))
	}
}

func TestStopKeyFinishesPartialPractice(t *testing.T) {
	clock := &stepClock{now: time.Unix(100, 0)}
	p := newTestProgress(t)
	m := NewModel(Options{
		Mode:     model.ModePractice,
		Settings: settings.Defaults(),
		Progress: p,
		NextText: func() string { return "hello" },
		Clock:    clock,
	})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if _, ok := m.Result(); ok {
		t.Fatalf("expected stop before typing to be ignored")
	}
	typeText(m, "hx")
	if !strings.Contains(m.renderFooter(), "ctrl+s stop") {
		t.Fatalf("expected stop hint in footer: %s", m.renderFooter())
	}
	clock.now = clock.now.Add(6 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	result, ok := m.Result()
	if !ok {
		t.Fatalf("expected stop key to finish the attempt")
	}
	if result.CorrectCharacters != 1 || result.IncorrectCharacters != 4 || result.TotalCharacters != 5 {
		t.Fatalf("expected 1 correct, 4 incorrect of 5, got %+v", result)
	}
	if result.Accuracy != 20 || len(result.Errors) != 1 {
		t.Fatalf("expected 20%% accuracy and 1 itemized error, got %+v", result)
	}
	if m.sess.Status() != model.StatusCompleted {
		t.Fatalf("expected completed session, got %v", m.sess.Status())
	}
	if history := p.History(context.Background()); len(history) != 1 {
		t.Fatalf("expected stopped attempt in history, got %d", len(history))
	}
}

func TestStopKeyRecordsLessonAttempt(t *testing.T) {
	clock := &stepClock{now: time.Unix(100, 0)}
	p := newTestProgress(t)
	lesson := model.Lesson{ID: "en-bg-02", Title: "Top row", Content: "qwer", TargetWPM: 1, MinAccuracy: 90}
	m := NewModel(Options{
		Mode:     model.ModeLesson,
		Lesson:   lesson,
		Settings: settings.Defaults(),
		Progress: p,
		Clock:    clock,
	})
	typeText(m, "qw")
	clock.now = clock.now.Add(time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if _, ok := m.Result(); !ok {
		t.Fatalf("expected stopped lesson attempt")
	}
	if m.lessonResult.AccuracyReached {
		t.Fatalf("expected accuracy goal missed for partial attempt, got %+v", m.lessonResult)
	}
	best, ok := p.Best(context.Background(), "en-bg-02")
	if !ok {
		t.Fatalf("expected stopped attempt stored as best")
	}
	if best.Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %d", best.Accuracy)
	}
}

func TestStaleCountdownIgnored(t *testing.T) {
	m := NewModel(Options{
		Mode:     model.ModeTimedTest,
		Duration: time.Second,
		Settings: settings.Defaults(),
		NextText: func() string { return "hello" },
	})
	typeText(m, "h")
	stale := m.attempt
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "h")
	m.Update(countdownMsg{attempt: stale})
	if m.sess.Status() != model.StatusActive {
		t.Fatalf("expected stale countdown to be ignored")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(Options{
		Mode:     model.ModeTimedTest,
		Duration: 30 * time.Second,
		Settings: settings.Defaults(),
		NextText: func() string { return "abcd" },
	})
	m.input = []rune("ab")
	m.live = model.TypingStats{WPM: 72, Accuracy: 97, TimeElapsed: 12}
	out := m.renderFooter()
	for _, want := range []string{"Progress 50%", "72 WPM", "97%", "Time 12s", "Left 30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestSchedulerDropsCanceledTicks(t *testing.T) {
	s := newTeaScheduler()
	calls := 0
	cancel := s.Every(time.Millisecond, func() { calls++ })
	if s.Cmd() == nil {
		t.Fatalf("expected armed tick")
	}
	if s.Fire(tickMsg{id: 1}) == nil || calls != 1 {
		t.Fatalf("expected tick to run and re-arm")
	}
	cancel()
	if s.Fire(tickMsg{id: 1}) != nil || calls != 1 {
		t.Fatalf("expected canceled tick to be dropped")
	}
}
