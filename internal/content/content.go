// Package content provides the embedded lesson catalog and practice texts.
package content

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typemaster/internal/model"
)

//go:embed data/lessons.toml data/words_*.txt
var files embed.FS

// PracticeText is a passage for free practice.
type PracticeText struct {
	ID         string `toml:"id"`
	Title      string `toml:"title"`
	Language   string `toml:"language"`
	Difficulty string `toml:"difficulty"`
	Content    string `toml:"content"`
}

type lessonEntry struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Language    string `toml:"language"`
	Level       string `toml:"level"`
	Content     string `toml:"content"`
	TargetWPM   int    `toml:"target-wpm"`
	MinAccuracy int    `toml:"min-accuracy"`
	Order       int    `toml:"order"`
}

type catalogFile struct {
	Lessons []lessonEntry  `toml:"lesson"`
	Texts   []PracticeText `toml:"text"`
}

// Catalog holds lessons and practice texts.
type Catalog struct {
	lessons []model.Lesson
	texts   []PracticeText
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		data, err := files.ReadFile("data/lessons.toml")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Parse(string(data))
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a TOML catalog.
func Parse(data string) (*Catalog, error) {
	var raw catalogFile
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	seen := map[string]bool{}
	c := &Catalog{texts: raw.Texts}
	for _, e := range raw.Lessons {
		if e.ID == "" {
			return nil, fmt.Errorf("lesson %q has no id", e.Title)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate lesson id %q", e.ID)
		}
		seen[e.ID] = true
		c.lessons = append(c.lessons, model.Lesson{
			ID:          e.ID,
			Title:       e.Title,
			Language:    e.Language,
			Level:       e.Level,
			Content:     e.Content,
			TargetWPM:   e.TargetWPM,
			MinAccuracy: e.MinAccuracy,
			Order:       e.Order,
		})
	}
	sort.SliceStable(c.lessons, func(i, j int) bool {
		if c.lessons[i].Language == c.lessons[j].Language {
			return c.lessons[i].Order < c.lessons[j].Order
		}
		return c.lessons[i].Language < c.lessons[j].Language
	})
	return c, nil
}

// Lessons returns lessons for a language, or all lessons when lang is empty.
func (c *Catalog) Lessons(lang string) []model.Lesson {
	var out []model.Lesson
	for _, l := range c.lessons {
		if lang == "" || l.Language == lang {
			out = append(out, l)
		}
	}
	return out
}

// LessonsByLevel filters lessons by difficulty level.
func (c *Catalog) LessonsByLevel(level string) []model.Lesson {
	var out []model.Lesson
	for _, l := range c.lessons {
		if l.Level == level {
			out = append(out, l)
		}
	}
	return out
}

// Lesson looks up a lesson by ID.
func (c *Catalog) Lesson(id string) (model.Lesson, bool) {
	for _, l := range c.lessons {
		if l.ID == id {
			return l, true
		}
	}
	return model.Lesson{}, false
}

// Texts returns practice texts for a language.
func (c *Catalog) Texts(lang string) []PracticeText {
	var out []PracticeText
	for _, t := range c.texts {
		if lang == "" || t.Language == lang {
			out = append(out, t)
		}
	}
	return out
}

// Words returns the embedded fallback word list for a language.
func Words(lang string) ([]string, error) {
	data, err := files.ReadFile("data/words_" + lang + ".txt")
	if err != nil {
		return nil, fmt.Errorf("no embedded words for %q", lang)
	}
	return strings.Fields(string(data)), nil
}

// LangCode maps a settings language to its word list code.
func LangCode(language string) string {
	switch language {
	case "bengali":
		return "bn"
	default:
		return "en"
	}
}

// LanguageName maps a word list code back to its catalog language.
func LanguageName(code string) string {
	switch code {
	case "bn":
		return "bengali"
	default:
		return "english"
	}
}
