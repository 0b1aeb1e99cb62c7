package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/settings"
)

var resetYes bool

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				prefs, err := st.Load(ctx)
				if err != nil {
					return err
				}
				return writeSettings(cmd.OutOrStdout(), prefs)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				prefs, err := st.Load(ctx)
				if err != nil {
					return err
				}
				value, ok := prefs.Get(args[0])
				if !ok {
					return fmt.Errorf("unknown setting %q (known: %s)", args[0], strings.Join(settings.Names(), ", "))
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				if _, err := st.Update(ctx, args[0], args[1]); err != nil {
					if allowed := settings.Allowed(args[0]); len(allowed) > 0 {
						return fmt.Errorf("%w (allowed: %s)", err, strings.Join(allowed, ", "))
					}
					return err
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				data, err := st.Export(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Load settings from a JSON file ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				prefs, err := st.Import(ctx, data)
				if err != nil {
					return fmt.Errorf("failed to import settings: %w", err)
				}
				return writeSettings(cmd.OutOrStdout(), prefs)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withSettings(func(ctx context.Context, st *settings.Store) error {
				_, err := st.Reset(ctx)
				return err
			})
		},
	})
	return cmd
}

func withSettings(fn func(context.Context, *settings.Store) error) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := openApp(fileCfg)
	if err != nil {
		return err
	}
	defer app.close()
	return fn(context.Background(), app.settings)
}

func writeSettings(w io.Writer, prefs settings.Settings) error {
	for _, name := range settings.Names() {
		value, _ := prefs.Get(name)
		if _, err := fmt.Fprintf(w, "%-16s %s\n", name, value); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all progress, history and settings",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), "Delete all progress and settings? [y/N] "); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		var answer string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil || !strings.EqualFold(answer, "y") {
			return fmt.Errorf("reset canceled")
		}
	}
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
	if err := app.progress.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	if err := app.settings.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "All progress and settings deleted.")
	return err
}
