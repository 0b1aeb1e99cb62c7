package stats

import (
	"context"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	History    []model.TypingStats
	Overall    model.OverallStats
	Bests      map[string]model.TypingStats
	User       model.UserProgress
	CharErrors []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, p *progress.Progress, cfg model.StatsConfig) (Report, error) {
	history := p.History(ctx)
	if cfg.Last > 0 && len(history) > cfg.Last {
		history = history[len(history)-cfg.Last:]
	}
	bests, err := p.Bests(ctx)
	if err != nil {
		return Report{}, err
	}
	user, err := p.UserProgress(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		History:    history,
		Overall:    progress.Summarize(history),
		Bests:      bests,
		User:       user,
		CharErrors: CharErrors(history),
	}, nil
}
