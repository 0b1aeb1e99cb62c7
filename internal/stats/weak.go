package stats

import (
	"sort"

	"github.com/verte-zerg/typemaster/internal/model"
)

// CharErrors counts errors per expected character across sessions, most
// frequent first. Extra characters are grouped under the empty string.
func CharErrors(history []model.TypingStats) []model.CharAggregate {
	counts := map[string]int{}
	typed := map[string]map[string]int{}
	for _, s := range history {
		for _, e := range s.Errors {
			counts[e.Expected]++
			if typed[e.Expected] == nil {
				typed[e.Expected] = map[string]int{}
			}
			typed[e.Expected][e.Typed]++
		}
	}
	out := make([]model.CharAggregate, 0, len(counts))
	for ch, n := range counts {
		out = append(out, model.CharAggregate{Char: ch, Errors: n, MostTyped: mostFrequent(typed[ch])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Errors == out[j].Errors {
			return out[i].Char < out[j].Char
		}
		return out[i].Errors > out[j].Errors
	})
	return out
}

// SelectWeakChars selects the most mistyped characters, skipping spaces
// and extra input.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	for _, agg := range aggs {
		if top > 0 && len(weakSet) >= top {
			break
		}
		runes := []rune(agg.Char)
		if len(runes) == 0 || runes[0] == ' ' {
			continue
		}
		weakSet[runes[0]] = struct{}{}
	}
	return weakSet
}

func mostFrequent(counts map[string]int) string {
	best := ""
	bestN := 0
	for ch, n := range counts {
		if n > bestN || (n == bestN && ch < best) {
			best, bestN = ch, n
		}
	}
	return best
}
