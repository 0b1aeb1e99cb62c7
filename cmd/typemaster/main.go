// Package main provides the CLI entrypoint for typemaster.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/kv"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/settings"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/tui"
	"github.com/verte-zerg/typemaster/internal/wordlist"
)

const (
	defaultLang       = "en"
	defaultWords      = 25
	defaultCaps       = 0.0
	defaultPunct      = 0.0
	defaultWeakTop    = 8
	defaultWeakFactor = 2.0
)

const defaultPunctSet = ".,!?;:\"'()-"

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceSource     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typemaster",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (en, bn)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward often mistyped characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().StringVar(&practiceSource, "mode", "", "practice text: words, sentences or paragraphs (default: settings)")

	rootCmd.AddCommand(newLessonCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSettingsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := context.Background()
	prefs := app.loadSettings(ctx)
	applyLangDefault(cmd, fileCfg, prefs)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)

	cfg := model.Config{
		Lang:       practiceLang,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	source := practiceSource
	if source == "" {
		source = prefs.PracticeMode
	}
	if err := validateSource(source); err != nil {
		return err
	}

	next, err := app.practiceSource(ctx, cfg, source, prefs.DifficultyLevel)
	if err != nil {
		return err
	}
	_, err = app.runTUI(tui.Options{
		Mode:     model.ModePractice,
		Settings: prefs,
		Progress: app.progress,
		NextText: next,
	})
	return err
}

// app bundles the stores shared by every command.
type app struct {
	progress *progress.Progress
	settings *settings.Store
	catalog  *content.Catalog
	errs     *errorLog
}

func openApp(fileCfg config.FileConfig) (*app, error) {
	dbPath := config.DefaultDBPath()
	if fileCfg.Storage.DBPath != nil && *fileCfg.Storage.DBPath != "" {
		dbPath = *fileCfg.Storage.DBPath
	}
	st, err := kv.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	catalog, err := content.Default()
	if err != nil {
		if cerr := st.Close(); cerr != nil {
			// Best-effort close when the catalog is unusable.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	errs := newErrorLog(os.Stderr)
	return &app{
		progress: progress.Open(st, progress.WithErrorReporter(errs.report)),
		settings: settings.NewStore(st, settings.WithErrorReporter(errs.report)),
		catalog:  catalog,
		errs:     errs,
	}, nil
}

// runTUI runs the typing screen, holding tolerated failures until the
// terminal is released.
func (a *app) runTUI(opts tui.Options) (*tui.Model, error) {
	a.errs.hold()
	defer a.errs.release()
	return tui.Run(opts)
}

func (a *app) close() {
	if err := a.progress.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func (a *app) loadSettings(ctx context.Context) settings.Settings {
	prefs, err := a.settings.Load(ctx)
	if err != nil {
		logErrf("failed to load settings, using defaults: %v\n", err)
		return settings.Defaults()
	}
	return prefs
}

// practiceSource returns a generator of reference texts for practice mode.
func (a *app) practiceSource(ctx context.Context, cfg model.Config, source, level string) (func() string, error) {
	gen := generator.New()
	if source != "words" {
		texts := filterTexts(a.catalog.Texts(content.LanguageName(cfg.Lang)), level)
		if len(texts) > 0 {
			return func() string {
				if source == "paragraphs" {
					return joinTexts(texts, gen.Pick(len(texts)), 3)
				}
				return texts[gen.Pick(len(texts))].Content
			}, nil
		}
		logErrf("no %s practice texts for %s; using random words\n", source, cfg.Lang)
	}

	words, err := loadWords(cfg.Lang)
	if err != nil {
		return nil, err
	}
	opts := generator.Options{CapsPct: cfg.CapsPct, PunctPct: cfg.PunctPct, PunctSet: []rune(cfg.PunctSet)}
	weakSet := map[rune]struct{}{}
	if cfg.FocusWeak {
		weakSet = stats.SelectWeakChars(stats.CharErrors(a.progress.History(ctx)), cfg.WeakTop)
		if len(weakSet) == 0 {
			logErrln("no stats available for weak-char focus yet; using normal generator")
		}
	}
	return func() string {
		if len(weakSet) > 0 {
			return strings.Join(gen.GenerateWeighted(words, cfg.Words, opts, weakSet, cfg.WeakFactor), " ")
		}
		return gen.Text(words, cfg.Words, opts)
	}, nil
}

func filterTexts(texts []content.PracticeText, level string) []content.PracticeText {
	var out []content.PracticeText
	for _, t := range texts {
		if t.Difficulty == level {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return texts
	}
	return out
}

func joinTexts(texts []content.PracticeText, start, count int) string {
	parts := make([]string, 0, count)
	for i := 0; i < count && i < len(texts); i++ {
		parts = append(parts, texts[(start+i)%len(texts)].Content)
	}
	return strings.Join(parts, " ")
}

// loadWords prefers a user word list and falls back to the embedded one.
func loadWords(lang string) ([]string, error) {
	path := config.DefaultWordListPath(lang)
	words, err := wordlist.LoadFiltered(path, wordlist.FilterForLang(lang))
	if err == nil {
		return words, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		logErrf("failed to load word list %s, using built-in words: %v\n", path, err)
	}
	words, err = content.Words(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	return words, nil
}

func applyLangDefault(cmd *cobra.Command, fileCfg config.FileConfig, prefs settings.Settings) {
	if cmd.Flags().Changed("lang") || fileCfg.Practice.Lang != nil {
		return
	}
	practiceLang = content.LangCode(prefs.Language)
}

// errorLog writes tolerated failures to w. While held, reports are queued
// and written on release.
type errorLog struct {
	mu      sync.Mutex
	w       io.Writer
	held    bool
	pending []string
}

func newErrorLog(w io.Writer) *errorLog {
	return &errorLog{w: w}
}

func (l *errorLog) report(op string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("failed to %s: %v\n", op, err)
	if l.held {
		l.pending = append(l.pending, line)
		return
	}
	l.write(line)
}

func (l *errorLog) hold() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = true
}

func (l *errorLog) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	for _, line := range l.pending {
		l.write(line)
	}
	l.pending = nil
}

func (l *errorLog) write(line string) {
	if _, err := io.WriteString(l.w, line); err != nil {
		// Best-effort logging.
		_ = err
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
