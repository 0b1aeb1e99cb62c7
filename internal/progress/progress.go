// Package progress persists best records, practice history and lesson completion.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typemaster/internal/kv"
	"github.com/verte-zerg/typemaster/internal/model"
)

// HistoryLimit is the number of practice sessions retained.
const HistoryLimit = 100

const (
	bestPrefix = "best/"
	historyKey = "practice_history"
	userKey    = "user_progress"
)

// ErrorReporter receives persistence failures that were tolerated.
type ErrorReporter func(op string, err error)

// Option configures Progress.
type Option func(*Progress)

// WithErrorReporter sets where tolerated failures are reported.
func WithErrorReporter(fn ErrorReporter) Option {
	return func(p *Progress) {
		if fn != nil {
			p.report = fn
		}
	}
}

// WithNow overrides the time source used for progress timestamps.
func WithNow(fn func() time.Time) Option {
	return func(p *Progress) {
		if fn != nil {
			p.now = fn
		}
	}
}

// Progress is the handle to persisted typing progress.
type Progress struct {
	mu     sync.Mutex
	store  kv.Store
	report ErrorReporter
	now    func() time.Time
}

// Open wraps a key-value store. The Progress owns the store from now on.
func Open(store kv.Store, opts ...Option) *Progress {
	p := &Progress{
		store:  store,
		report: func(string, error) {},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Close closes the underlying store.
func (p *Progress) Close() error {
	return p.store.Close()
}

// Supersedes reports whether next beats prev: higher WPM wins, and
// accuracy only breaks WPM ties.
func Supersedes(next, prev model.TypingStats) bool {
	if next.WPM != prev.WPM {
		return next.WPM > prev.WPM
	}
	return next.Accuracy > prev.Accuracy
}

// RecordAttempt stores stats as the best record for key when it is the
// first attempt or beats the existing record. The lesson is marked as
// completed either way.
func (p *Progress) RecordAttempt(ctx context.Context, key string, stats model.TypingStats) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var prev model.TypingStats
	found, err := p.load(ctx, bestKey(key), &prev)
	if err != nil {
		return false, p.fail("load best record", err)
	}
	stored := !found || Supersedes(stats, prev)
	if stored {
		if err := p.save(ctx, bestKey(key), stats); err != nil {
			return false, p.fail("save best record", err)
		}
	}

	user, err := p.userProgress(ctx)
	if err != nil {
		return stored, p.fail("load user progress", err)
	}
	if !slices.Contains(user.CompletedLessons, key) {
		user.CompletedLessons = append(user.CompletedLessons, key)
		user.TotalLessonsCompleted++
	}
	if stored {
		user.BestStats[key] = stats
	}
	user.LastActive = p.now()
	if err := p.save(ctx, userKey, user); err != nil {
		return stored, p.fail("save user progress", err)
	}
	return stored, nil
}

// Best returns the best record for key.
func (p *Progress) Best(ctx context.Context, key string) (model.TypingStats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var stats model.TypingStats
	found, err := p.load(ctx, bestKey(key), &stats)
	if err != nil {
		_ = p.fail("load best record", err)
		return model.TypingStats{}, false
	}
	return stats, found
}

// Bests returns every stored best record keyed by exercise.
func (p *Progress) Bests(ctx context.Context) (map[string]model.TypingStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys, err := p.store.ListKeys(ctx, bestPrefix)
	if err != nil {
		return nil, p.fail("list best records", err)
	}
	out := make(map[string]model.TypingStats, len(keys))
	for _, k := range keys {
		var stats model.TypingStats
		found, err := p.load(ctx, k, &stats)
		if err != nil {
			return nil, p.fail("load best record", err)
		}
		if found {
			out[strings.TrimPrefix(k, bestPrefix)] = stats
		}
	}
	return out, nil
}

// IsCompleted reports whether an attempt for key was ever completed.
func (p *Progress) IsCompleted(ctx context.Context, key string) bool {
	user, err := p.UserProgress(ctx)
	if err != nil {
		return false
	}
	return slices.Contains(user.CompletedLessons, key)
}

// RecordPractice appends a practice session to the history, evicting the
// oldest entries beyond HistoryLimit.
func (p *Progress) RecordPractice(ctx context.Context, stats model.TypingStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	history, err := p.history(ctx)
	if err != nil {
		return p.fail("load practice history", err)
	}
	history = append(history, stats)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	if err := p.save(ctx, historyKey, history); err != nil {
		return p.fail("save practice history", err)
	}
	return nil
}

// History returns the retained practice sessions, oldest first.
func (p *Progress) History(ctx context.Context) []model.TypingStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	history, err := p.history(ctx)
	if err != nil {
		_ = p.fail("load practice history", err)
		return nil
	}
	return history
}

// Overall aggregates the retained practice history.
func (p *Progress) Overall(ctx context.Context) model.OverallStats {
	return Summarize(p.History(ctx))
}

// Summarize computes rounded means and totals over sessions.
func Summarize(history []model.TypingStats) model.OverallStats {
	if len(history) == 0 {
		return model.OverallStats{}
	}
	var wpm, acc, elapsed float64
	for _, s := range history {
		wpm += float64(s.WPM)
		acc += float64(s.Accuracy)
		elapsed += s.TimeElapsed
	}
	n := float64(len(history))
	return model.OverallStats{
		AverageWPM:      int(math.Round(wpm / n)),
		AverageAccuracy: int(math.Round(acc / n)),
		TotalSessions:   len(history),
		TotalTime:       int(math.Round(elapsed)),
	}
}

// UserProgress loads the user progress record, creating it on first use.
func (p *Progress) UserProgress(ctx context.Context) (model.UserProgress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	user, err := p.userProgress(ctx)
	if err != nil {
		return model.UserProgress{}, p.fail("load user progress", err)
	}
	return user, nil
}

// ClearAll deletes every best record, the practice history and the user progress.
func (p *Progress) ClearAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys, err := p.store.ListKeys(ctx, bestPrefix)
	if err != nil {
		return p.fail("list best records", err)
	}
	keys = append(keys, historyKey, userKey)
	var errs []error
	for _, k := range keys {
		if err := p.store.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return p.fail("clear progress", err)
	}
	return nil
}

func (p *Progress) userProgress(ctx context.Context) (model.UserProgress, error) {
	var user model.UserProgress
	found, err := p.load(ctx, userKey, &user)
	if err != nil {
		return model.UserProgress{}, err
	}
	if !found || user.UserID == "" {
		now := p.now()
		user = model.UserProgress{
			UserID:     "user_" + uuid.NewString(),
			CreatedAt:  now,
			LastActive: now,
		}
		if err := p.save(ctx, userKey, user); err != nil {
			return model.UserProgress{}, err
		}
	}
	if user.BestStats == nil {
		user.BestStats = map[string]model.TypingStats{}
	}
	return user, nil
}

func (p *Progress) history(ctx context.Context) ([]model.TypingStats, error) {
	var history []model.TypingStats
	found, err := p.load(ctx, historyKey, &history)
	if err != nil || !found {
		return nil, err
	}
	return history, nil
}

// load decodes key into v. Absent and malformed values both report
// found=false; malformed ones are reported as tolerated failures.
func (p *Progress) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := p.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		p.report("decode "+key, err)
		return false, nil
	}
	return true, nil
}

func (p *Progress) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.store.Set(ctx, key, data)
}

func (p *Progress) fail(op string, err error) error {
	p.report(op, err)
	return fmt.Errorf("%s: %w", op, err)
}

func bestKey(key string) string {
	return bestPrefix + key
}
