package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/session"
)

type tickMsg struct {
	id int
}

type tickEntry struct {
	interval time.Duration
	fn       func()
}

// teaScheduler turns session ticks into Bubble Tea messages so callbacks
// run on the program's update goroutine.
type teaScheduler struct {
	next    int
	entries map[int]tickEntry
	pending []int
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{entries: map[int]tickEntry{}}
}

// Every implements session.Scheduler. The first tick is armed by Cmd.
func (s *teaScheduler) Every(interval time.Duration, fn func()) session.Cancel {
	s.next++
	id := s.next
	s.entries[id] = tickEntry{interval: interval, fn: fn}
	s.pending = append(s.pending, id)
	return func() {
		delete(s.entries, id)
	}
}

// Cmd arms every schedule registered since the last call.
func (s *teaScheduler) Cmd() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range s.pending {
		if entry, ok := s.entries[id]; ok {
			cmds = append(cmds, tickAfter(id, entry.interval))
		}
	}
	s.pending = nil
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Fire runs a due callback and re-arms it unless it was canceled meanwhile.
func (s *teaScheduler) Fire(msg tickMsg) tea.Cmd {
	entry, ok := s.entries[msg.id]
	if !ok {
		return nil
	}
	entry.fn()
	if _, ok := s.entries[msg.id]; !ok {
		return nil
	}
	return tickAfter(msg.id, entry.interval)
}

func tickAfter(id int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}
