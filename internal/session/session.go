// Package session runs the typing session state machine.
package session

import (
	"sync"
	"time"

	"github.com/verte-zerg/typemaster/internal/diff"
	"github.com/verte-zerg/typemaster/internal/model"
)

// DefaultTickInterval is the cadence of live stats recomputation between keystrokes.
const DefaultTickInterval = 100 * time.Millisecond

// Snapshot is a copy of the session state.
type Snapshot struct {
	Reference string
	Input     string
	Status    model.Status
	StartTime time.Time
	EndTime   time.Time
	Stats     model.TypingStats
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithScheduler overrides how periodic ticks are scheduled.
func WithScheduler(sc Scheduler) Option {
	return func(s *Session) {
		s.scheduler = sc
	}
}

// WithTickInterval sets the live recomputation cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// OnProgress registers a callback for every live recomputation.
func OnProgress(fn func(model.TypingStats)) Option {
	return func(s *Session) {
		s.onProgress = fn
	}
}

// OnComplete registers a callback fired once per completed attempt.
func OnComplete(fn func(model.TypingStats)) Option {
	return func(s *Session) {
		s.onComplete = fn
	}
}

// Session owns one typing attempt at a time against a reference text.
//
// Callbacks run while the session is locked, one at a time, on the
// goroutine that triggered them. They must not call back into the Session.
type Session struct {
	mu sync.Mutex

	clock      Clock
	scheduler  Scheduler
	interval   time.Duration
	onProgress func(model.TypingStats)
	onComplete func(model.TypingStats)

	reference []rune
	input     []rune
	status    model.Status
	startTime time.Time
	endTime   time.Time
	stats     model.TypingStats

	cancelTick Cancel
	// gen identifies the current attempt; ticks scheduled for an older
	// attempt are dropped.
	gen uint64
}

// New creates an idle session for the reference text.
func New(reference string, opts ...Option) *Session {
	s := &Session{
		clock:     SystemClock{},
		scheduler: TickerScheduler{},
		interval:  DefaultTickInterval,
		reference: []rune(reference),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clear()
	return s
}

// Start begins the attempt explicitly. It is a no-op unless the session is idle.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusIdle {
		return
	}
	s.begin()
}

// UpdateInput replaces the typed buffer. The first non-empty input starts
// an idle session; input is ignored once the attempt is completed.
func (s *Session) UpdateInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runes := []rune(text)
	switch s.status {
	case model.StatusCompleted:
		return
	case model.StatusIdle:
		if len(runes) == 0 {
			return
		}
		s.begin()
	}
	s.input = runes
	if len(s.input) >= len(s.reference) {
		s.finish()
		return
	}
	s.refresh()
}

// Stop completes an active attempt regardless of how much was typed.
// It is safe to call from an external timer; otherwise it is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusActive {
		return
	}
	s.finish()
}

// Reset abandons the current attempt and returns to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// SetReference swaps the text to type and resets the session.
func (s *Session) SetReference(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference = []rune(reference)
	s.clear()
}

// Status returns the lifecycle state.
func (s *Session) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stats returns the latest live or final stats.
func (s *Session) Stats() model.TypingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStats(s.stats)
}

// Classify reports the rendering status of a reference position.
func (s *Session) Classify(position int) model.CharStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return diff.Classify(s.reference, s.input, position)
}

// Elapsed returns the attempt duration so far.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

// Snapshot copies the full session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Reference: string(s.reference),
		Input:     string(s.input),
		Status:    s.status,
		StartTime: s.startTime,
		EndTime:   s.endTime,
		Stats:     copyStats(s.stats),
	}
}

func (s *Session) begin() {
	s.stopTick()
	s.gen++
	s.status = model.StatusActive
	s.startTime = s.clock.Now()
	s.endTime = time.Time{}
	gen := s.gen
	s.cancelTick = s.scheduler.Every(s.interval, func() {
		s.tick(gen)
	})
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.status != model.StatusActive {
		return
	}
	s.refresh()
}

// refresh recomputes live stats. Before anything is typed the stats only
// track elapsed time.
func (s *Session) refresh() {
	now := s.clock.Now()
	elapsed := now.Sub(s.startTime).Seconds()
	if len(s.input) == 0 {
		s.stats = model.TypingStats{Accuracy: 100, TimeElapsed: elapsed}
	} else {
		s.stats = diff.Compare(s.reference, s.input, now).Stats(elapsed)
	}
	if s.onProgress != nil {
		s.onProgress(copyStats(s.stats))
	}
}

func (s *Session) finish() {
	s.stopTick()
	s.endTime = s.clock.Now()
	s.status = model.StatusCompleted
	s.stats = diff.Analyze(s.reference, s.input, s.startTime, s.endTime)
	if s.onComplete != nil {
		s.onComplete(copyStats(s.stats))
	}
}

func (s *Session) clear() {
	s.stopTick()
	s.gen++
	s.input = nil
	s.status = model.StatusIdle
	s.startTime = time.Time{}
	s.endTime = time.Time{}
	s.stats = model.TypingStats{Accuracy: 100}
}

func (s *Session) stopTick() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) elapsed() time.Duration {
	switch s.status {
	case model.StatusActive:
		return s.clock.Now().Sub(s.startTime)
	case model.StatusCompleted:
		return s.endTime.Sub(s.startTime)
	default:
		return 0
	}
}

func copyStats(st model.TypingStats) model.TypingStats {
	if st.Errors != nil {
		errs := make([]model.TypingError, len(st.Errors))
		copy(errs, st.Errors)
		st.Errors = errs
	}
	return st
}
