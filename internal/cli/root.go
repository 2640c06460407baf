package cli

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"study-planner/internal/config"
	"study-planner/internal/pkg/logger"
)

const dateLayout = "2006-01-02"

// AppFactory builds the App for a subcommand.
type AppFactory func(ctx context.Context, opts AppOptions) (*App, error)

// DefaultAppFactory loads configuration from the environment.
func DefaultAppFactory(ctx context.Context, opts AppOptions) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return NewApp(ctx, cfg, log, opts)
}

// NewRootCommand wires every subcommand around factory.
func NewRootCommand(factory AppFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplanner",
		Short: "Exam preparation planner",
		Long: `studyplanner ranks study topics by exam weight and remaining work,
builds daily schedules with rest and meal breaks, and projects the
completion date and expected score.

Run "studyplanner bot" to serve the same features over Telegram.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newBotCommand(factory),
		newPlanCommand(factory),
		newWeekCommand(factory),
		newRankCommand(factory),
		newProgressCommand(factory),
		newSetCommand(factory),
		newCoursesCommand(factory),
		newCourseCommand(factory),
		newImportCommand(factory),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCommand(DefaultAppFactory).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp builds the App, runs fn and releases resources afterwards.
func withApp(cmd *cobra.Command, factory AppFactory, opts AppOptions, fn func(*App) error) error {
	app, err := factory(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer func() {
		app.Close()
		app.Log.Sync()
	}()
	return fn(app)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// plain turns chat HTML into terminal text.
func plain(text string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
}

func printPlain(w io.Writer, text string) {
	fmt.Fprintln(w, plain(text))
}

// parseDate returns today when value is empty.
func parseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	date, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return date, nil
}
