package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/content"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/tui"
)

var (
	lessonsLang  string
	lessonsLevel string
)

func newLessonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <id>",
		Short: "Practice a catalog lesson",
		Args:  cobra.ExactArgs(1),
		RunE:  runLessonCmd,
	}
}

func runLessonCmd(_ *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	lesson, ok := app.catalog.Lesson(args[0])
	if !ok {
		return fmt.Errorf("unknown lesson %q (see: typemaster lessons)", args[0])
	}
	prefs := app.loadSettings(context.Background())
	_, err = app.runTUI(tui.Options{
		Mode:     model.ModeLesson,
		Lesson:   lesson,
		Settings: prefs,
		Progress: app.progress,
		NextLesson: func(current model.Lesson) (model.Lesson, bool) {
			return nextLesson(app.catalog.Lessons(current.Language), current)
		},
	})
	return err
}

// nextLesson returns the lesson ordered after current within its language.
func nextLesson(lessons []model.Lesson, current model.Lesson) (model.Lesson, bool) {
	idx := slices.IndexFunc(lessons, func(l model.Lesson) bool { return l.ID == current.ID })
	if idx < 0 || idx+1 >= len(lessons) {
		return model.Lesson{}, false
	}
	return lessons[idx+1], true
}

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List lessons with best records",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
	cmd.Flags().StringVar(&lessonsLang, "lang", "", "language filter (english, bengali)")
	cmd.Flags().StringVar(&lessonsLevel, "level", "", "level filter (beginner, intermediate, advanced)")
	return cmd
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()

	bests, err := app.progress.Bests(context.Background())
	if err != nil {
		return err
	}
	lessons := filterLessons(app.catalog, lessonsLang, lessonsLevel)
	if len(lessons) == 0 {
		return fmt.Errorf("no lessons match the filters")
	}
	return stats.RenderBestTable(cmd.OutOrStdout(), lessons, bests)
}

func filterLessons(catalog *content.Catalog, lang, level string) []model.Lesson {
	var out []model.Lesson
	for _, l := range catalog.Lessons(lang) {
		if level == "" || l.Level == level {
			out = append(out, l)
		}
	}
	return out
}
