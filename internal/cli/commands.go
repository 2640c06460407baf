package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"study-planner/internal/catalog"
	"study-planner/internal/service"
)

func newPlanCommand(factory AppFactory) *cobra.Command {
	var (
		date string
		days int
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the study schedule for a day",
		Long: `Generate the daily schedule: the most valuable topics first, a rest
break after every study block and one meal-preparation break.

With --days the plan continues over several days, assuming each day
is studied as planned.

Examples:
  studyplanner plan
  studyplanner plan --date 2024-03-15
  studyplanner plan --days 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive")
			}
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				start, err := parseDate(date, app.Now())
				if err != nil {
					return err
				}
				for i, day := range app.Planner.GenerateStudyPlan(start, days) {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					printPlain(cmd.OutOrStdout(), service.FormatDailySchedule(day))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "plan date (YYYY-MM-DD), default today")
	cmd.Flags().IntVar(&days, "days", 1, "number of consecutive days")
	return cmd
}

func newWeekCommand(factory AppFactory) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show study hours for the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				day, err := parseDate(date, app.Now())
				if err != nil {
					return err
				}
				printPlain(cmd.OutOrStdout(), app.Reports.WeekPlan(day))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "any day of the week (YYYY-MM-DD), default today")
	return cmd
}

func newRankCommand(factory AppFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "rank",
		Short:   "List topics by priority",
		Aliases: []string{"priority"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				printPlain(cmd.OutOrStdout(), app.Reports.Ranking(limit))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of topics to show")
	return cmd
}

func newProgressCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "progress",
		Short:   "Show overall progress and the exam projection",
		Aliases: []string{"stats"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				printPlain(cmd.OutOrStdout(), app.Reports.Progress())
				return nil
			})
		},
	}
}

func newSetCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "set <topic-id> <hours>",
		Short: "Record completed hours for a topic",
		Long: `Set the completed hours of a topic. Values outside the topic's
credit hours are clamped and reported.

Examples:
  studyplanner set qm-2 6
  studyplanner set proj-1 12.5`,
		Aliases: []string{"done"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("hours must be a number: %w", err)
			}
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				update, err := app.Progress.SetTopicCompleted(cmd.Context(), args[0], hours)
				if err != nil {
					return err
				}
				printPlain(cmd.OutOrStdout(), service.FormatProgressUpdate(update))
				return nil
			})
		},
	}
}

func newCoursesCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "courses [search]",
		Short: "List courses, optionally filtered by name, code or id",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				printPlain(cmd.OutOrStdout(), app.Reports.CourseList(strings.Join(args, " ")))
				return nil
			})
		},
	}
}

func newCourseCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "course <course-id>",
		Short: "Show the topics of one course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				text, err := app.Reports.CourseDetails(args[0])
				if errors.Is(err, catalog.ErrCourseNotFound) {
					return fmt.Errorf("course %q not found", args[0])
				}
				if err != nil {
					return err
				}
				printPlain(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func newImportCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Replace the stored catalog with a YAML file",
		Long: `Replace every course and topic in the catalog store with the
contents of a YAML file. Completed hours from the file are kept;
previous progress is discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, factory, AppOptions{}, func(app *App) error {
				if err := app.Progress.ImportCourses(cmd.Context(), courses); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d courses, %.0f credit hours.\n",
					len(courses), app.Progress.Catalog().TotalCreditHours())
				return nil
			})
		},
	}
}
