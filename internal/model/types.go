// Package model defines shared data structures.
package model

import "time"

// Status is the lifecycle state of a typing session.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CharStatus classifies a reference position for rendering.
type CharStatus int

const (
	CharPending CharStatus = iota
	CharCurrent
	CharCorrect
	CharIncorrect
)

func (c CharStatus) String() string {
	switch c {
	case CharPending:
		return "pending"
	case CharCurrent:
		return "current"
	case CharCorrect:
		return "correct"
	case CharIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// TypingError records a mismatched or extra typed character.
// Expected is empty for characters typed past the end of the reference.
type TypingError struct {
	Position  int       `json:"position"`
	Expected  string    `json:"expected"`
	Typed     string    `json:"typed"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingStats is an immutable snapshot of session performance.
type TypingStats struct {
	WPM                 int           `json:"wpm"`
	Accuracy            int           `json:"accuracy"`
	TotalCharacters     int           `json:"totalCharacters"`
	CorrectCharacters   int           `json:"correctCharacters"`
	IncorrectCharacters int           `json:"incorrectCharacters"`
	TimeElapsed         float64       `json:"timeElapsed"`
	Errors              []TypingError `json:"errors"`
}

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	Duration   int
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
}

// Mode selects how practice text is chosen and how results are stored.
type Mode string

const (
	ModePractice  Mode = "practice"
	ModeLesson    Mode = "lesson"
	ModeTimedTest Mode = "timed-test"
)

// Lesson is a catalog exercise scoped by its ID for best records.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Content     string `json:"content"`
	TargetWPM   int    `json:"targetWPM,omitempty"`
	MinAccuracy int    `json:"minAccuracy,omitempty"`
	Order       int    `json:"order"`
}

// LessonResult reports which lesson goals an attempt reached.
type LessonResult struct {
	WPMReached      bool
	AccuracyReached bool
}

// Passed reports whether every goal was reached.
func (r LessonResult) Passed() bool {
	return r.WPMReached && r.AccuracyReached
}

// Evaluate checks stats against the lesson goals. A zero goal is always met.
func (l Lesson) Evaluate(stats TypingStats) LessonResult {
	return LessonResult{
		WPMReached:      l.TargetWPM == 0 || stats.WPM >= l.TargetWPM,
		AccuracyReached: l.MinAccuracy == 0 || stats.Accuracy >= l.MinAccuracy,
	}
}

// UserProgress tracks lesson completion across sessions.
type UserProgress struct {
	UserID                string                 `json:"userId"`
	CompletedLessons      []string               `json:"completedLessons"`
	BestStats             map[string]TypingStats `json:"bestStats"`
	TotalLessonsCompleted int                    `json:"totalLessonsCompleted"`
	CreatedAt             time.Time              `json:"createdAt"`
	LastActive            time.Time              `json:"lastActive"`
}

// OverallStats aggregates the retained practice history.
type OverallStats struct {
	AverageWPM      int
	AverageAccuracy int
	TotalSessions   int
	TotalTime       int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Last        int
	CurveWindow int
	Lang        string
}

// CharAggregate counts typing errors for one expected character.
type CharAggregate struct {
	Char      string
	Errors    int
	MostTyped string
}
