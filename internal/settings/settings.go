// Package settings holds the typed, validated application settings.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/verte-zerg/typemaster/internal/kv"
)

const storageKey = "settings"

// ErrInvalid is returned for unknown setting names and rejected values.
var ErrInvalid = errors.New("invalid setting")

// Settings is the fully populated user preference set.
type Settings struct {
	Language        string `json:"language"`
	Theme           string `json:"theme"`
	SoundEffects    bool   `json:"soundEffects"`
	ShowTargets     bool   `json:"showTargets"`
	AutoAdvance     bool   `json:"autoAdvance"`
	FontSize        string `json:"fontSize"`
	FontFamily      string `json:"fontFamily"`
	KeyboardLayout  string `json:"keyboardLayout"`
	PracticeMode    string `json:"practiceMode"`
	DifficultyLevel string `json:"difficultyLevel"`
	ShowKeyboard    bool   `json:"showKeyboard"`
	HighlightErrors bool   `json:"highlightErrors"`
	PauseOnError    bool   `json:"pauseOnError"`
}

// Defaults returns the default settings.
func Defaults() Settings {
	return Settings{
		Language:        "english",
		Theme:           "light",
		SoundEffects:    true,
		ShowTargets:     true,
		AutoAdvance:     false,
		FontSize:        "medium",
		FontFamily:      "mono",
		KeyboardLayout:  "qwerty",
		PracticeMode:    "sentences",
		DifficultyLevel: "beginner",
		ShowKeyboard:    false,
		HighlightErrors: true,
		PauseOnError:    false,
	}
}

type enumField struct {
	allowed []string
	ptr     func(*Settings) *string
}

type boolField struct {
	ptr func(*Settings) *bool
}

var enumFields = map[string]enumField{
	"language":        {[]string{"english", "bengali"}, func(s *Settings) *string { return &s.Language }},
	"theme":           {[]string{"light", "dark"}, func(s *Settings) *string { return &s.Theme }},
	"fontSize":        {[]string{"small", "medium", "large"}, func(s *Settings) *string { return &s.FontSize }},
	"fontFamily":      {[]string{"mono", "sans", "serif"}, func(s *Settings) *string { return &s.FontFamily }},
	"keyboardLayout":  {[]string{"qwerty", "dvorak", "colemak"}, func(s *Settings) *string { return &s.KeyboardLayout }},
	"practiceMode":    {[]string{"words", "sentences", "paragraphs"}, func(s *Settings) *string { return &s.PracticeMode }},
	"difficultyLevel": {[]string{"beginner", "intermediate", "advanced"}, func(s *Settings) *string { return &s.DifficultyLevel }},
}

var boolFields = map[string]boolField{
	"soundEffects":    {func(s *Settings) *bool { return &s.SoundEffects }},
	"showTargets":     {func(s *Settings) *bool { return &s.ShowTargets }},
	"autoAdvance":     {func(s *Settings) *bool { return &s.AutoAdvance }},
	"showKeyboard":    {func(s *Settings) *bool { return &s.ShowKeyboard }},
	"highlightErrors": {func(s *Settings) *bool { return &s.HighlightErrors }},
	"pauseOnError":    {func(s *Settings) *bool { return &s.PauseOnError }},
}

// Names lists every setting name in sorted order.
func Names() []string {
	names := make([]string, 0, len(enumFields)+len(boolFields))
	for name := range enumFields {
		names = append(names, name)
	}
	for name := range boolFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Allowed returns the accepted values for a setting.
func Allowed(name string) []string {
	if f, ok := enumFields[name]; ok {
		return append([]string(nil), f.allowed...)
	}
	if _, ok := boolFields[name]; ok {
		return []string{"true", "false"}
	}
	return nil
}

// Validate builds settings from loosely typed JSON fields. Every missing,
// mistyped or unknown value falls back to its default.
func Validate(raw map[string]json.RawMessage) Settings {
	out := Defaults()
	for name, f := range enumFields {
		var v string
		if data, ok := raw[name]; ok && json.Unmarshal(data, &v) == nil && slices.Contains(f.allowed, v) {
			*f.ptr(&out) = v
		}
	}
	for name, f := range boolFields {
		var v bool
		if data, ok := raw[name]; ok && json.Unmarshal(data, &v) == nil {
			*f.ptr(&out) = v
		}
	}
	return out
}

// With returns a copy with one setting changed.
func (s Settings) With(name, value string) (Settings, error) {
	if f, ok := enumFields[name]; ok {
		if !slices.Contains(f.allowed, value) {
			return s, fmt.Errorf("%w: %s must be one of %v", ErrInvalid, name, f.allowed)
		}
		*f.ptr(&s) = value
		return s, nil
	}
	if f, ok := boolFields[name]; ok {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s must be true or false", ErrInvalid, name)
		}
		*f.ptr(&s) = v
		return s, nil
	}
	return s, fmt.Errorf("%w: unknown setting %q", ErrInvalid, name)
}

// Get returns a setting rendered as text.
func (s Settings) Get(name string) (string, bool) {
	if f, ok := enumFields[name]; ok {
		return *f.ptr(&s), true
	}
	if f, ok := boolFields[name]; ok {
		return strconv.FormatBool(*f.ptr(&s)), true
	}
	return "", false
}

// Store persists settings in a key-value store.
type Store struct {
	kv     kv.Store
	report func(op string, err error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithErrorReporter sets where malformed stored settings are reported.
func WithErrorReporter(fn func(op string, err error)) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.report = fn
		}
	}
}

// NewStore wraps a key-value store.
func NewStore(st kv.Store, opts ...StoreOption) *Store {
	s := &Store{kv: st, report: func(string, error) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns stored settings. Missing or malformed data yields defaults;
// malformed data is also passed to the error reporter.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	data, err := s.kv.Get(ctx, storageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("failed to load settings: %w", err)
	}
	settings, err := decode(data)
	if err != nil {
		s.report("decode settings", err)
		return Defaults(), nil
	}
	return settings, nil
}

// Save stores settings.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.kv.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Update changes a single setting and stores the result.
func (s *Store) Update(ctx context.Context, name, value string) (Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return current, err
	}
	next, err := current.With(name, value)
	if err != nil {
		return current, err
	}
	return next, s.Save(ctx, next)
}

// Reset restores and stores the defaults.
func (s *Store) Reset(ctx context.Context) (Settings, error) {
	d := Defaults()
	return d, s.Save(ctx, d)
}

// Clear removes stored settings.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}

// Export renders the stored settings as indented JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(current, "", "  ")
}

// Import validates exported JSON and stores it. Data that is not a JSON
// object is rejected; individual bad values fall back to defaults.
func (s *Store) Import(ctx context.Context, data []byte) (Settings, error) {
	settings, err := decode(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return settings, s.Save(ctx, settings)
}

func decode(data []byte) (Settings, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, err
	}
	if raw == nil {
		return Settings{}, errors.New("settings must be a JSON object")
	}
	return Validate(raw), nil
}
