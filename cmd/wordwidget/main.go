// Package main provides the CLI entrypoint for wordwidget.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/wordwidget/internal/config"
	"github.com/verte-zerg/wordwidget/internal/model"
	"github.com/verte-zerg/wordwidget/internal/publish"
	"github.com/verte-zerg/wordwidget/internal/reload"
	"github.com/verte-zerg/wordwidget/internal/shared"
	"github.com/verte-zerg/wordwidget/internal/timeline"
)

var (
	rootGroup     string
	rootBackend   string
	rootDir       string
	rootRedisURL  string
	rootInterval  time.Duration
	rootLogLevel  string
	rootLogFormat string

	progressStreak  int
	progressPoints  int
	progressWords   int
	progressLessons int

	wordWord          string
	wordDefinition    string
	wordExample       string
	wordPronunciation string

	displayKind       string
	displayShowStreak bool
	displayShowStats  bool
	displayJSON       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordwidget",
		Short:         "Shared progress store for learning widgets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootGroup, "group", config.DefaultGroup, "shared storage group identifier")
	flags.StringVar(&rootBackend, "backend", config.DefaultBackend, "store backend (sqlite, redis, memory)")
	flags.StringVar(&rootDir, "dir", config.DefaultGroupDir(), "directory for sqlite group files")
	flags.StringVar(&rootRedisURL, "redis-url", "", "redis URL for the redis backend")
	flags.DurationVar(&rootInterval, "interval", config.DefaultInterval, "display refresh interval")
	flags.StringVar(&rootLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&rootLogFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newEntryCmd())
	rootCmd.AddCommand(newPlaceholderCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// errMemoryBackend is returned for the memory backend: every command runs in
// its own process, so nothing written there would ever be read back.
var errMemoryBackend = fmt.Errorf("the %s backend does not persist across processes; use %s or %s",
	shared.BackendMemory, shared.BackendSQLite, shared.BackendRedis)

// app holds what every command needs once configuration is resolved.
type app struct {
	settings config.Settings
	logger   *slog.Logger
	store    *shared.Store
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	settings, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "group", &settings.Group, rootGroup)
	applyConfig(cmd, "backend", &settings.Backend, rootBackend)
	applyConfig(cmd, "dir", &settings.Dir, rootDir)
	applyConfig(cmd, "redis-url", &settings.RedisURL, rootRedisURL)
	applyConfig(cmd, "interval", &settings.Interval, rootInterval)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Backend == shared.BackendMemory {
		return nil, errMemoryBackend
	}

	logger, err := newLogger(rootLogLevel, rootLogFormat)
	if err != nil {
		return nil, err
	}

	st, err := shared.Open(ctx, shared.Options{
		Backend:  settings.Backend,
		Group:    settings.Group,
		Dir:      settings.Dir,
		RedisURL: settings.RedisURL,
		Logger:   logger,
	})
	if err != nil {
		logErrf("warning: %v; displays will show defaults\n", err)
	}
	return &app{settings: settings, logger: logger, store: st}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close store: %v\n", err)
	}
}

func (a *app) provider() *timeline.Provider {
	return timeline.NewProvider(a.store,
		timeline.WithInterval(a.settings.Interval),
		timeline.WithLogger(a.logger))
}

// notifier returns the cross-process reload transport for the backend. Only
// the redis backend has one; other backends rely on the refresh schedule.
func (a *app) notifier() reload.Notifier {
	logged := reload.NotifierFunc(func(_ context.Context, scope reload.Scope) {
		a.logger.Info("displays notified", slog.String("scope", string(scope)))
	})
	if rb, ok := a.store.Backend().(*shared.RedisBackend); ok {
		return reload.Multi(reload.NewRedisNotifier(rb.Client(), a.settings.Group, a.logger), logged)
	}
	return logged
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
	return slog.New(handler), nil
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write progress or the word of the day into the shared store",
	}

	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Publish a progress snapshot and reload all displays",
		Args:  cobra.NoArgs,
		RunE:  runPublishProgressCmd,
	}
	progressCmd.Flags().IntVar(&progressStreak, "streak", 0, "current streak in days")
	progressCmd.Flags().IntVar(&progressPoints, "today-points", 0, "points earned today")
	progressCmd.Flags().IntVar(&progressWords, "total-words", 0, "total words learned")
	progressCmd.Flags().IntVar(&progressLessons, "lessons", 0, "lessons completed")

	wordCmd := &cobra.Command{
		Use:   "word",
		Short: "Publish the word of the day and reload word displays",
		Args:  cobra.NoArgs,
		RunE:  runPublishWordCmd,
	}
	wordCmd.Flags().StringVar(&wordWord, "word", "", "the word")
	wordCmd.Flags().StringVar(&wordDefinition, "definition", "", "definition")
	wordCmd.Flags().StringVar(&wordExample, "example", "", "example sentence")
	wordCmd.Flags().StringVar(&wordPronunciation, "pronunciation", "", "pronunciation")
	_ = wordCmd.MarkFlagRequired("word")

	cmd.AddCommand(progressCmd, wordCmd)
	return cmd
}

func runPublishProgressCmd(cmd *cobra.Command, _ []string) error {
	snap := model.ProgressSnapshot{
		Streak:            progressStreak,
		TodayPoints:       progressPoints,
		TotalWordsLearned: progressWords,
		LessonsCompleted:  progressLessons,
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	publish.NewWriter(a.store, a.notifier(), publish.WithLogger(a.logger)).PublishProgress(cmd.Context(), snap)
	return nil
}

func runPublishWordCmd(cmd *cobra.Command, _ []string) error {
	word := model.WordOfDay{
		Word:          wordWord,
		Definition:    wordDefinition,
		Example:       wordExample,
		Pronunciation: wordPronunciation,
	}
	if strings.TrimSpace(word.Word) == "" {
		return fmt.Errorf("--word must not be empty")
	}
	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	publish.NewWriter(a.store, a.notifier(), publish.WithLogger(a.logger)).PublishWordOfDay(cmd.Context(), word)
	return nil
}

func addKindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&displayKind, "kind", string(model.KindStats), "display surface kind (stats, wordOfDay)")
	cmd.Flags().BoolVar(&displayJSON, "json", false, "print JSON even on a terminal")
}

func addDisplayFlags(cmd *cobra.Command) {
	addKindFlags(cmd)
	cmd.Flags().BoolVar(&displayShowStreak, "show-streak", true, "show the streak")
	cmd.Flags().BoolVar(&displayShowStats, "show-stats", true, "show points, words and lessons")
}

func displayOptions(cmd *cobra.Command, settings config.Settings) model.DisplayOptions {
	opts := model.DisplayOptions{ShowStreak: settings.ShowStreak, ShowStats: settings.ShowStats}
	applyConfig(cmd, "show-streak", &opts.ShowStreak, displayShowStreak)
	applyConfig(cmd, "show-stats", &opts.ShowStats, displayShowStats)
	return opts
}

func parseKind() (model.Kind, error) {
	kind := model.Kind(displayKind)
	if !kind.Valid() {
		return "", fmt.Errorf("--kind must be one of %v", model.Kinds())
	}
	return kind, nil
}

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Print the current display entry",
		Args:  cobra.NoArgs,
		RunE:  runEntryCmd,
	}
	addDisplayFlags(cmd)
	return cmd
}

func runEntryCmd(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.provider()
	entry := p.CurrentEntry(cmd.Context(), displayOptions(cmd, a.settings))
	return writeEntry(cmd.OutOrStdout(), kind, entry, p.NextRefreshTime(entry.GeneratedAt), displayJSON)
}

func newPlaceholderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Print the sample entry shown before any data exists",
		Args:  cobra.NoArgs,
		RunE:  runPlaceholderCmd,
	}
	addKindFlags(cmd)
	return cmd
}

func runPlaceholderCmd(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind()
	if err != nil {
		return err
	}
	entry := timeline.Placeholder(time.Now())
	return writeEntry(cmd.OutOrStdout(), kind, entry, time.Time{}, displayJSON)
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Act as a display surface and print an entry on every refresh",
		Args:  cobra.NoArgs,
		RunE:  runWatchCmd,
	}
	addDisplayFlags(cmd)
	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	kind, err := parseKind()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	broadcaster := reload.NewBroadcaster()
	reloads, unsubscribe := broadcaster.Subscribe()
	defer unsubscribe()

	p := a.provider()
	out := cmd.OutOrStdout()
	runner := &timeline.Runner{
		Provider: p,
		Kind:     kind,
		Options:  displayOptions(cmd, a.settings),
		Reloads:  reloads,
		Logger:   a.logger,
		Sink: func(entry model.DisplayEntry) {
			if err := writeEntry(out, kind, entry, p.NextRefreshTime(entry.GeneratedAt), true); err != nil {
				logErrf("failed to write entry: %v\n", err)
			}
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	if rb, ok := a.store.Backend().(*shared.RedisBackend); ok {
		listener := reload.NewRedisListener(rb.Client(), a.settings.Group, a.logger)
		g.Go(func() error {
			return listener.Listen(gctx, broadcaster)
		})
	} else {
		a.logger.Info("no reload transport for backend; refreshing on schedule only",
			slog.String("backend", a.settings.Backend),
			slog.Duration("interval", p.Interval()))
	}
	return g.Wait()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}
	return openInEditor(editorCommand(os.Getenv("EDITOR")), path)
}

// ensureConfigFile writes the default template to path unless a file is
// already there.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func editorCommand(editor string) []string {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return []string{"vi"}
	}
	return parts
}

func openInEditor(parts []string, path string) error {
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordwidget configuration
# Uncomment a value to enable it. Environment (WORDWIDGET_*) overrides the
# file and CLI flags override both.

[store]
# group = %q   # Storage group; must match between app and displays
# backend = %q                 # sqlite or redis (memory is for tests only)
# dir = %q

[redis]
# url = "redis://localhost:6379/0"

[refresh]
# interval = %q                   # Display refresh cadence

[display]
# show-streak = true
# show-stats = true
`,
		config.DefaultGroup,
		config.DefaultBackend,
		config.DefaultGroupDir(),
		config.DefaultInterval.String(),
	)
}

func applyConfig[T any](cmd *cobra.Command, name string, target *T, value T) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
