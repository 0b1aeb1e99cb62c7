package session

import (
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type manualScheduler struct {
	fns      []func()
	canceled []bool
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) Cancel {
	idx := len(m.fns)
	m.fns = append(m.fns, fn)
	m.canceled = append(m.canceled, false)
	return func() {
		m.canceled[idx] = true
	}
}

// fireAll runs every registered callback, including canceled ones, to
// simulate ticks that were already in flight.
func (m *manualScheduler) fireAll() {
	for _, fn := range m.fns {
		fn()
	}
}

func (m *manualScheduler) active() int {
	n := 0
	for _, c := range m.canceled {
		if !c {
			n++
		}
	}
	return n
}

type recorder struct {
	progress []model.TypingStats
	complete []model.TypingStats
}

func newTestSession(ref string) (*Session, *fakeClock, *manualScheduler, *recorder) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := &manualScheduler{}
	rec := &recorder{}
	s := New(ref,
		WithClock(clock),
		WithScheduler(sched),
		OnProgress(func(st model.TypingStats) { rec.progress = append(rec.progress, st) }),
		OnComplete(func(st model.TypingStats) { rec.complete = append(rec.complete, st) }),
	)
	return s, clock, sched, rec
}

func TestAutoStartAndComplete(t *testing.T) {
	s, clock, sched, rec := newTestSession("cat")
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %v", s.Status())
	}
	s.UpdateInput("c")
	if s.Status() != model.StatusActive {
		t.Fatalf("expected active after first input, got %v", s.Status())
	}
	if sched.active() != 1 {
		t.Fatalf("expected one running ticker, got %d", sched.active())
	}
	clock.advance(3 * time.Second)
	s.UpdateInput("ca")
	clock.advance(3 * time.Second)
	s.UpdateInput("cat")

	if s.Status() != model.StatusCompleted {
		t.Fatalf("expected completed, got %v", s.Status())
	}
	if len(rec.complete) != 1 {
		t.Fatalf("expected one completion, got %d", len(rec.complete))
	}
	final := rec.complete[0]
	if final.WPM != 6 || final.Accuracy != 100 || final.CorrectCharacters != 3 || final.TotalCharacters != 3 {
		t.Fatalf("unexpected final stats: %+v", final)
	}
	if sched.active() != 0 {
		t.Fatalf("expected ticker canceled on completion")
	}
	if len(rec.progress) != 2 {
		t.Fatalf("expected 2 progress updates, got %d", len(rec.progress))
	}
}

func TestInputIgnoredAfterCompletion(t *testing.T) {
	s, _, _, rec := newTestSession("ab")
	s.UpdateInput("ab")
	s.UpdateInput("abc")
	if got := s.Snapshot().Input; got != "ab" {
		t.Fatalf("expected input frozen at ab, got %q", got)
	}
	s.Stop()
	if len(rec.complete) != 1 {
		t.Fatalf("expected exactly one completion, got %d", len(rec.complete))
	}
}

func TestEmptyInputKeepsIdle(t *testing.T) {
	s, _, sched, _ := newTestSession("abc")
	s.UpdateInput("")
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %v", s.Status())
	}
	if len(sched.fns) != 0 {
		t.Fatalf("expected no ticker for idle session")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s, clock, sched, _ := newTestSession("abc")
	s.Start()
	start := s.Snapshot().StartTime
	clock.advance(time.Second)
	s.Start()
	if s.Status() != model.StatusActive {
		t.Fatalf("expected active, got %v", s.Status())
	}
	if !s.Snapshot().StartTime.Equal(start) {
		t.Fatalf("expected start time unchanged")
	}
	if len(sched.fns) != 1 {
		t.Fatalf("expected a single ticker, got %d", len(sched.fns))
	}
}

func TestStopFinalizesPartialInput(t *testing.T) {
	s, clock, _, rec := newTestSession("hello")
	s.UpdateInput("h")
	clock.advance(12 * time.Second)
	s.UpdateInput("hola")
	s.Stop()
	s.Stop()
	if len(rec.complete) != 1 {
		t.Fatalf("expected one completion, got %d", len(rec.complete))
	}
	final := rec.complete[0]
	if final.CorrectCharacters != 2 || final.IncorrectCharacters != 3 || final.TotalCharacters != 5 || final.Accuracy != 40 {
		t.Fatalf("unexpected final stats: %+v", final)
	}
	if len(final.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(final.Errors))
	}
	if final.TimeElapsed != 12 {
		t.Fatalf("expected 12s elapsed, got %v", final.TimeElapsed)
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	s, _, _, rec := newTestSession("abc")
	s.Stop()
	if s.Status() != model.StatusIdle || len(rec.complete) != 0 {
		t.Fatalf("expected stop on idle session to be a no-op")
	}
}

func TestTickRecomputesLiveStats(t *testing.T) {
	s, clock, sched, rec := newTestSession("abcdefghij")
	clock.advance(0)
	s.UpdateInput("abcde")
	clock.advance(6 * time.Second)
	sched.fireAll()
	if len(rec.progress) != 2 {
		t.Fatalf("expected input and tick progress, got %d", len(rec.progress))
	}
	if rec.progress[1].WPM != 10 {
		t.Fatalf("expected 10 WPM after 6s, got %d", rec.progress[1].WPM)
	}
	clock.advance(6 * time.Second)
	sched.fireAll()
	if rec.progress[2].WPM != 5 {
		t.Fatalf("expected WPM to drop to 5 while paused, got %d", rec.progress[2].WPM)
	}
}

func TestResetDropsStaleTicks(t *testing.T) {
	s, clock, sched, rec := newTestSession("abc")
	s.UpdateInput("a")
	s.Reset()
	if sched.active() != 0 {
		t.Fatalf("expected ticker canceled on reset")
	}
	s.UpdateInput("a")
	progressBefore := len(rec.progress)
	clock.advance(time.Second)
	// The first ticker belongs to the abandoned attempt.
	sched.fns[0]()
	if len(rec.progress) != progressBefore {
		t.Fatalf("stale tick must not update the new attempt")
	}
	sched.fns[1]()
	if len(rec.progress) != progressBefore+1 {
		t.Fatalf("current tick should update stats")
	}
}

func TestResetFromCompleted(t *testing.T) {
	s, _, _, rec := newTestSession("a")
	s.UpdateInput("a")
	s.Reset()
	snap := s.Snapshot()
	if snap.Status != model.StatusIdle || snap.Input != "" || !snap.StartTime.IsZero() || !snap.EndTime.IsZero() {
		t.Fatalf("expected cleared idle state, got %+v", snap)
	}
	if snap.Stats.Accuracy != 100 || snap.Stats.WPM != 0 {
		t.Fatalf("expected initial stats, got %+v", snap.Stats)
	}
	s.UpdateInput("a")
	if len(rec.complete) != 2 {
		t.Fatalf("expected a second completion after reset, got %d", len(rec.complete))
	}
}

func TestSetReferenceResets(t *testing.T) {
	s, _, _, _ := newTestSession("abc")
	s.UpdateInput("ab")
	s.SetReference("xyz")
	snap := s.Snapshot()
	if snap.Reference != "xyz" || snap.Status != model.StatusIdle || snap.Input != "" {
		t.Fatalf("unexpected snapshot after SetReference: %+v", snap)
	}
}

func TestClassifyTracksInput(t *testing.T) {
	s, _, _, _ := newTestSession("abc")
	s.UpdateInput("ax")
	want := []model.CharStatus{model.CharCorrect, model.CharIncorrect, model.CharCurrent}
	for i, w := range want {
		if got := s.Classify(i); got != w {
			t.Fatalf("position %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestExtraInputCompletes(t *testing.T) {
	s, _, _, rec := newTestSession("hi")
	s.UpdateInput("h")
	s.UpdateInput("hiz")
	if len(rec.complete) != 1 {
		t.Fatalf("expected completion when input exceeds reference")
	}
	if rec.complete[0].TotalCharacters != 3 {
		t.Fatalf("expected total 3, got %d", rec.complete[0].TotalCharacters)
	}
}

func TestTickerSchedulerCancel(t *testing.T) {
	var mu sync.Mutex
	count := 0
	cancel := TickerScheduler{}.Every(time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	cancel()
	cancel()
	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count > after+1 {
		t.Fatalf("expected no ticks after cancel, got %d more", count-after)
	}
}
