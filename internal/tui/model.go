// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/metrics"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/settings"
)

// Options configures a typing screen.
type Options struct {
	Mode model.Mode
	// Lesson is the exercise typed in lesson mode.
	Lesson model.Lesson
	// Duration limits a timed test.
	Duration time.Duration
	Settings settings.Settings
	// Progress receives completed attempts; nil disables saving.
	Progress *progress.Progress
	// NextText supplies the reference for practice and timed attempts.
	NextText func() string
	// NextLesson returns the lesson after the given one.
	NextLesson func(model.Lesson) (model.Lesson, bool)
	Clock      session.Clock
}

type countdownMsg struct {
	attempt int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts   Options
	sess   *session.Session
	sched  *teaScheduler
	styles styles
	keys   keyMap

	width  int
	height int

	reference []rune
	input     []rune
	live      model.TypingStats

	attempt   int
	remaining time.Duration

	finished     *model.TypingStats
	result       *model.TypingStats
	lessonResult model.LessonResult
	improved     bool
	saveErr      error
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	m := &Model{
		opts:   opts,
		sched:  newTeaScheduler(),
		styles: newStyles(opts.Settings.Theme, opts.Settings.HighlightErrors),
		keys:   defaultKeyMap(),
	}
	sessOpts := []session.Option{
		session.WithScheduler(m.sched),
		session.OnProgress(m.onProgress),
		session.OnComplete(m.onComplete),
	}
	if opts.Clock != nil {
		sessOpts = append(sessOpts, session.WithClock(opts.Clock))
	}
	m.sess = session.New("", sessOpts...)
	m.restart(m.nextReference())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.sched.Fire(msg)
	case countdownMsg:
		return m, m.handleCountdown(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.result != nil {
		switch {
		case key.Matches(msg, m.keys.Next):
			m.advance()
		case key.Matches(msg, m.keys.Again):
			if m.opts.Settings.AutoAdvance && m.lessonResult.Passed() {
				m.advance()
			} else {
				m.restart(m.nextReference())
			}
		}
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Restart):
		m.restart(m.currentReference())
		return nil
	case key.Matches(msg, m.keys.Stop):
		m.stop()
		return nil
	case key.Matches(msg, m.keys.Backspace):
		if len(m.input) == 0 {
			return nil
		}
		return m.setInput(m.input[:len(m.input)-1])
	}
	switch msg.Type {
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m.typeRunes(msg.Runes)
	default:
		return nil
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	if m.opts.Settings.PauseOnError && m.hasUncorrectedError() {
		return nil
	}
	next := make([]rune, 0, len(m.input)+len(runes))
	next = append(next, m.input...)
	next = append(next, runes...)
	return m.setInput(next)
}

func (m *Model) setInput(input []rune) tea.Cmd {
	wasIdle := m.sess.Status() == model.StatusIdle
	m.input = input
	m.sess.UpdateInput(string(input))
	cmds := []tea.Cmd{m.sched.Cmd()}
	if wasIdle && m.sess.Status() == model.StatusActive && m.opts.Mode == model.ModeTimedTest {
		cmds = append(cmds, m.countdown())
	}
	m.collectResult()
	return tea.Batch(cmds...)
}

func (m *Model) hasUncorrectedError() bool {
	if len(m.input) == 0 {
		return false
	}
	return m.sess.Classify(len(m.input)-1) == model.CharIncorrect
}

func (m *Model) countdown() tea.Cmd {
	attempt := m.attempt
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{attempt: attempt}
	})
}

func (m *Model) handleCountdown(msg countdownMsg) tea.Cmd {
	if msg.attempt != m.attempt || m.sess.Status() != model.StatusActive {
		return nil
	}
	m.remaining -= time.Second
	if m.remaining > 0 {
		return m.countdown()
	}
	m.remaining = 0
	m.stop()
	return nil
}

// stop finishes an active attempt with whatever has been typed so far.
func (m *Model) stop() {
	if m.sess.Status() != model.StatusActive {
		return
	}
	m.sess.Stop()
	m.collectResult()
}

func (m *Model) onProgress(stats model.TypingStats) {
	m.live = stats
}

// onComplete runs under the session lock; saving happens in collectResult.
func (m *Model) onComplete(stats model.TypingStats) {
	m.live = stats
	m.finished = &stats
}

func (m *Model) collectResult() {
	if m.finished == nil {
		return
	}
	stats := *m.finished
	m.finished = nil
	m.result = &stats
	m.saveErr = nil
	m.improved = false
	if m.opts.Mode == model.ModeLesson {
		m.lessonResult = m.opts.Lesson.Evaluate(stats)
	}
	if m.opts.Progress == nil {
		return
	}
	ctx := context.Background()
	if m.opts.Mode == model.ModeLesson {
		m.improved, m.saveErr = m.opts.Progress.RecordAttempt(ctx, m.opts.Lesson.ID, stats)
		return
	}
	m.saveErr = m.opts.Progress.RecordPractice(ctx, stats)
}

func (m *Model) restart(reference string) {
	m.attempt++
	m.reference = []rune(reference)
	m.input = nil
	m.result = nil
	m.finished = nil
	m.lessonResult = model.LessonResult{}
	m.remaining = m.opts.Duration
	m.sess.SetReference(reference)
	m.live = m.sess.Stats()
}

func (m *Model) advance() {
	if m.opts.Mode != model.ModeLesson || m.opts.NextLesson == nil {
		m.restart(m.nextReference())
		return
	}
	next, ok := m.opts.NextLesson(m.opts.Lesson)
	if !ok {
		m.restart(m.nextReference())
		return
	}
	m.opts.Lesson = next
	m.restart(next.Content)
}

func (m *Model) currentReference() string {
	return string(m.reference)
}

func (m *Model) nextReference() string {
	if m.opts.Mode == model.ModeLesson {
		return m.opts.Lesson.Content
	}
	if m.opts.NextText == nil {
		return string(m.reference)
	}
	return m.opts.NextText()
}

// Result returns the last completed attempt, if any.
func (m *Model) Result() (model.TypingStats, bool) {
	if m.result == nil {
		return model.TypingStats{}, false
	}
	return *m.result, true
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.reference) == 0 {
		return "Nothing to type.\n"
	}
	var content string
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(int(float64(m.width)*0.70), 1)
	}
	if m.result != nil {
		content = m.renderReport()
	} else {
		statuses := make([]model.CharStatus, len(m.reference))
		for i := range m.reference {
			statuses[i] = m.sess.Classify(i)
		}
		styled := buildStyledRunes(m.reference, statuses, m.styles)
		content = wrapStyledRunes(styled, contentWidth)
	}
	if header := m.renderHeader(); header != "" {
		content = header + "\n\n" + content
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	switch m.opts.Mode {
	case model.ModeLesson:
		l := m.opts.Lesson
		header := m.styles.title.Render(fmt.Sprintf("%s · %s", l.ID, l.Title))
		if m.opts.Settings.ShowTargets && (l.TargetWPM > 0 || l.MinAccuracy > 0) {
			header += "\n" + m.styles.footer.Render(fmt.Sprintf("Goal %d WPM · %d%% accuracy", l.TargetWPM, l.MinAccuracy))
		}
		return header
	case model.ModeTimedTest:
		return m.styles.title.Render(fmt.Sprintf("Timed test · %s", metrics.FormatTime(int(m.opts.Duration.Seconds()))))
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	if len(m.reference) == 0 {
		return ""
	}
	progress := min(len(m.input)*100/len(m.reference), 100)
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("%d WPM · %d%%", m.live.WPM, m.live.Accuracy),
		fmt.Sprintf("Time %s", metrics.FormatTime(int(m.live.TimeElapsed))),
	}
	if m.opts.Mode == model.ModeTimedTest {
		segments = append(segments, fmt.Sprintf("Left %s", metrics.FormatTime(int(m.remaining.Seconds()))))
	}
	if m.sess.Status() == model.StatusActive {
		segments = append(segments, m.keys.Stop.Help().Key+" "+m.keys.Stop.Help().Desc)
	}
	return m.styles.footer.Render(strings.Join(segments, "  "))
}

func (m *Model) renderReport() string {
	s := *m.result
	lines := []string{
		m.styles.title.Render("Result"),
		fmt.Sprintf("WPM       %d (%s)", s.WPM, metrics.TypingLevel(s.WPM)),
		fmt.Sprintf("Accuracy  %d%% (%s)", s.Accuracy, metrics.AccuracyLevel(s.Accuracy)),
		fmt.Sprintf("Chars     %d correct · %d incorrect · %d total", s.CorrectCharacters, s.IncorrectCharacters, s.TotalCharacters),
		fmt.Sprintf("Time      %s", metrics.FormatTime(int(s.TimeElapsed))),
		fmt.Sprintf("Errors    %d", len(s.Errors)),
	}
	if m.opts.Mode == model.ModeLesson {
		lines = append(lines, "",
			m.goalLine("WPM goal", m.lessonResult.WPMReached),
			m.goalLine("Accuracy goal", m.lessonResult.AccuracyReached),
		)
		if m.improved {
			lines = append(lines, m.styles.good.Render("New best record"))
		}
	}
	if m.saveErr != nil {
		lines = append(lines, m.styles.bad.Render("Progress not saved"))
	}
	hints := []string{m.keys.Again.Help().Key + " again"}
	if m.opts.Mode == model.ModeLesson && m.opts.NextLesson != nil {
		hints = append(hints, m.keys.Next.Help().Key+" next lesson")
	}
	hints = append(hints, m.keys.Quit.Help().Key+" quit")
	lines = append(lines, "", m.styles.footer.Render(strings.Join(hints, " · ")))
	return strings.Join(lines, "\n")
}

func (m *Model) goalLine(label string, reached bool) string {
	if reached {
		return m.styles.good.Render(label + " reached")
	}
	return m.styles.bad.Render(label + " not reached")
}

// Run shows the typing screen until the user quits and returns the final model.
func Run(opts Options) (*Model, error) {
	m := NewModel(opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return nil, fmt.Errorf("failed to run typing screen: %w", err)
	}
	return m, nil
}
