// Package diff compares reference text against typed input.
package diff

import (
	"time"

	"github.com/verte-zerg/typemaster/internal/metrics"
	"github.com/verte-zerg/typemaster/internal/model"
)

// Result holds the character counts and errors of one comparison pass.
type Result struct {
	Correct   int
	Incorrect int
	Total     int
	Errors    []model.TypingError
}

// Compare walks reference and input position by position.
//
// Mismatches and characters typed past the end of the reference are
// itemized as errors stamped with at. Missing trailing characters count as
// incorrect but are not itemized since they were never typed.
func Compare(reference, input []rune, at time.Time) Result {
	var res Result
	common := min(len(reference), len(input))
	for i := 0; i < common; i++ {
		if reference[i] == input[i] {
			res.Correct++
			continue
		}
		res.Incorrect++
		res.Errors = append(res.Errors, model.TypingError{
			Position:  i,
			Expected:  string(reference[i]),
			Typed:     string(input[i]),
			Timestamp: at,
		})
	}
	if len(input) < len(reference) {
		res.Incorrect += len(reference) - len(input)
	}
	if len(input) > len(reference) {
		res.Incorrect += len(input) - len(reference)
		for i := len(reference); i < len(input); i++ {
			res.Errors = append(res.Errors, model.TypingError{
				Position:  i,
				Expected:  "",
				Typed:     string(input[i]),
				Timestamp: at,
			})
		}
	}
	res.Total = max(len(reference), len(input))
	return res
}

// Stats composes the comparison with speed and accuracy for elapsed seconds.
func (r Result) Stats(elapsedSeconds float64) model.TypingStats {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	errs := make([]model.TypingError, len(r.Errors))
	copy(errs, r.Errors)
	return model.TypingStats{
		WPM:                 metrics.WPM(r.Correct, elapsedSeconds),
		Accuracy:            metrics.Accuracy(r.Correct, r.Total),
		TotalCharacters:     r.Total,
		CorrectCharacters:   r.Correct,
		IncorrectCharacters: r.Incorrect,
		TimeElapsed:         elapsedSeconds,
		Errors:              errs,
	}
}

// Analyze produces final stats for an attempt that ran from start to end.
func Analyze(reference, input []rune, start, end time.Time) model.TypingStats {
	return Compare(reference, input, end).Stats(end.Sub(start).Seconds())
}

// Classify reports the rendering status of a reference position.
func Classify(reference, input []rune, position int) model.CharStatus {
	switch {
	case position > len(input):
		return model.CharPending
	case position == len(input):
		return model.CharCurrent
	case position >= len(reference):
		return model.CharIncorrect
	case reference[position] == input[position]:
		return model.CharCorrect
	default:
		return model.CharIncorrect
	}
}

// ClassifyAll returns the status of every reference position.
func ClassifyAll(reference, input []rune) []model.CharStatus {
	out := make([]model.CharStatus, len(reference))
	for i := range reference {
		out[i] = Classify(reference, input, i)
	}
	return out
}
