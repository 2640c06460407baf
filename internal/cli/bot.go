package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"study-planner/internal/bot"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

const jobTimeout = 30 * time.Second

func newBotCommand(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Serve plans, rankings and progress updates over Telegram.

Subscribed users receive today's plan every morning at DAILY_PLAN_TIME.
The catalog is also saved every SAVE_INTERVAL_MINUTES.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, AppOptions{NeedUsers: true}, func(app *App) error {
				return runBot(cmd.Context(), app)
			})
		},
	}
}

func runBot(ctx context.Context, app *App) error {
	if err := app.Config.RequireTelegram(); err != nil {
		return err
	}
	log := app.Log

	userRepo := repository.NewUserRepository(app.DB)
	telegramBot, err := bot.New(app.Config.TelegramToken, userRepo, app.Progress, app.Reports, log.With("component", "bot"))
	if err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(time.Local, log.With("component", "scheduler"))
	if _, err := scheduler.ScheduleDaily(app.Config.DailyPlanTime, func() {
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()
		if err := telegramBot.SendDailyPlans(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("daily plans", "error", err)
		}
	}); err != nil {
		return err
	}
	if app.Config.SaveInterval > 0 {
		if _, err := scheduler.ScheduleInterval(app.Config.SaveInterval, func() {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			if err := app.Progress.Save(jobCtx); err != nil {
				log.Warn("periodic save", "error", err)
			}
		}); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("study planner bot started", "daily_plan_time", app.Config.DailyPlanTime, "store", app.Config.CatalogStore)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := app.Progress.Save(saveCtx); err != nil {
		log.Warn("final save", "error", err)
	}
	log.Info("shutdown complete")
	return nil
}
