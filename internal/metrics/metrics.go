// Package metrics computes typing speed and accuracy.
package metrics

import (
	"fmt"
	"math"
)

// charsPerWord is the standard word length used for WPM.
const charsPerWord = 5.0

// WPM returns words per minute for the correct characters typed over
// elapsedSeconds. Zero elapsed time yields 0.
// Values are rounded half away from zero.
func WPM(correct int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 || correct <= 0 {
		return 0
	}
	words := float64(correct) / charsPerWord
	minutes := elapsedSeconds / 60.0
	return int(math.Round(words / minutes))
}

// Accuracy returns the percentage of correct characters, 0..100.
// No characters yields 100.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 100
	}
	acc := int(math.Round(float64(correct) / float64(total) * 100))
	if acc < 0 {
		return 0
	}
	if acc > 100 {
		return 100
	}
	return acc
}

// TypingLevel labels a WPM value.
func TypingLevel(wpm int) string {
	switch {
	case wpm < 20:
		return "Beginner"
	case wpm < 40:
		return "Intermediate"
	case wpm < 60:
		return "Advanced"
	case wpm < 80:
		return "Expert"
	default:
		return "Master"
	}
}

// AccuracyLevel labels an accuracy percentage.
func AccuracyLevel(accuracy int) string {
	switch {
	case accuracy < 80:
		return "Needs Improvement"
	case accuracy < 90:
		return "Good"
	case accuracy < 95:
		return "Very Good"
	case accuracy < 98:
		return "Excellent"
	default:
		return "Perfect"
	}
}

// FormatTime renders whole seconds as "M:SS" or "Ns".
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	rest := seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, rest)
	}
	return fmt.Sprintf("%ds", rest)
}
