package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
	"study-planner/internal/pkg/logger"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

const (
	cbIncPrefix  = "inc:"
	cbDecPrefix  = "dec:"
	cbViewPrefix = "view:"
)

const (
	menuLabelToday    = "📋 Сегодня"
	menuLabelWeek     = "🗓 Неделя"
	menuLabelRank     = "🔥 Приоритеты"
	menuLabelProgress = "📊 Прогресс"
	menuLabelCourses  = "📂 Курсы"
	menuLabelHelp     = "ℹ️ Помощь"
)

const (
	dateLayout       = "2006-01-02"
	rankingLimit     = 10
	adjustStepHours  = 1.0
	maxButtonTextLen = 28
)

// Bot aggregates Telegram API with services.
type Bot struct {
	api      *tgbotapi.BotAPI
	userRepo *repository.UserRepository
	progress *service.ProgressService
	reports  *service.ReportService
	log      *logger.Logger
	now      func() time.Time
}

func New(token string, userRepo *repository.UserRepository, progress *service.ProgressService, reports *service.ReportService, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	log.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:      api,
		userRepo: userRepo,
		progress: progress,
		reports:  reports,
		log:      log,
		now:      time.Now,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error("handle callback", "error", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error("handle message", "error", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.log.Info("command", "user", msg.From.ID, "command", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "Я пока не понял сообщение. Набери /today, чтобы увидеть план, или /help для списка команд.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.sendText(msg.Chat.ID, b.reports.DailyPlan(b.now()))
	case "plan":
		return b.handlePlan(msg)
	case "week":
		return b.handleWeek(msg)
	case "rank":
		return b.sendText(msg.Chat.ID, b.reports.Ranking(rankingLimit))
	case "progress":
		return b.sendText(msg.Chat.ID, b.reports.Progress())
	case "courses":
		return b.handleCourses(msg)
	case "course":
		return b.handleCourse(msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "subscribe":
		return b.handleSubscription(ctx, msg, true)
	case "unsubscribe":
		return b.handleSubscription(ctx, msg, false)
	default:
		return b.sendText(msg.Chat.ID, "Неизвестная команда. Набери /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n<b>Я планировщик подготовки к экзамену: распределю часы по темам и покажу прогноз.</b>\n\n%s",
		escape(name), commandList(),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, "ℹ️ <b>Подсказки</b>\n"+commandList())
}

func commandList() string {
	return "• /today — план занятий на сегодня\n" +
		"• /plan &lt;ГГГГ-ММ-ДД&gt; — план на конкретный день\n" +
		"• /week — план на неделю\n" +
		"• /rank — самые приоритетные темы\n" +
		"• /progress — прогресс и прогноз балла\n" +
		"• /courses [поиск] — список курсов\n" +
		"• /course &lt;id&gt; — темы курса с кнопками ±1 ч\n" +
		"• /done &lt;тема&gt; &lt;часы&gt; — записать пройденные часы (например, /done qm-2 6)\n" +
		"• /subscribe — присылать план каждое утро\n" +
		"• /unsubscribe — отключить утренний план"
}

func (b *Bot) handlePlan(msg *tgbotapi.Message) error {
	date, err := parsePlanDate(msg.CommandArguments(), b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Дата должна быть в формате ГГГГ-ММ-ДД, например /plan 2024-03-15")
	}
	return b.sendText(msg.Chat.ID, b.reports.DailyPlan(date))
}

func (b *Bot) handleWeek(msg *tgbotapi.Message) error {
	date, err := parsePlanDate(msg.CommandArguments(), b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Дата должна быть в формате ГГГГ-ММ-ДД, например /week 2024-03-11")
	}
	return b.sendText(msg.Chat.ID, b.reports.WeekPlan(date))
}

func (b *Bot) handleCourses(msg *tgbotapi.Message) error {
	term := strings.TrimSpace(msg.CommandArguments())
	courses := b.progress.Catalog().Search(term)
	text := b.reports.CourseList(term)
	if len(courses) == 0 {
		return b.sendText(msg.Chat.ID, text)
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, text, courseKeyboard(courses))
}

func (b *Bot) handleCourse(msg *tgbotapi.Message) error {
	courseID := strings.TrimSpace(msg.CommandArguments())
	if courseID == "" {
		return b.sendText(msg.Chat.ID, "Укажи ID курса: /course quantum-mechanics. Список — /courses")
	}
	return b.sendCourse(msg.Chat.ID, courseID)
}

func (b *Bot) sendCourse(chatID int64, courseID string) error {
	course, err := b.progress.Catalog().Course(courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrCourseNotFound) {
			return b.sendText(chatID, "Курс не найден. Список — /courses")
		}
		return b.sendText(chatID, fmt.Sprintf("Ошибка: %s", escape(err.Error())))
	}
	return b.sendWithReplyMarkup(chatID, service.FormatCourse(course), topicKeyboard(course))
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	topicID, hours, err := parseDoneArgs(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Формат: /done &lt;тема&gt; &lt;часы&gt;, например /done qm-2 6 или /done qm-2 2,5")
	}

	update, err := b.progress.SetTopicCompleted(ctx, topicID, hours)
	if err != nil {
		return b.sendText(msg.Chat.ID, progressErrorText(err))
	}
	return b.sendText(msg.Chat.ID, service.FormatProgressUpdate(update))
}

func (b *Bot) handleSubscription(ctx context.Context, msg *tgbotapi.Message, enabled bool) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	if err := b.userRepo.SetDailyPlan(ctx, msg.From.ID, enabled); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось обновить подписку: %s", escape(err.Error())))
	}
	if enabled {
		return b.sendText(msg.Chat.ID, "🔔 Буду присылать план занятий каждое утро.")
	}
	return b.sendText(msg.Chat.ID, "🔕 Утренний план отключён.")
}

// SendDailyPlans pushes today's schedule to every subscribed user.
func (b *Bot) SendDailyPlans(ctx context.Context) error {
	users, err := b.userRepo.ListSubscribed(ctx)
	if err != nil {
		return err
	}
	text := b.reports.DailyPlan(b.now())
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			b.log.Warn("send daily plan", "user", user.TelegramID, "error", err)
		}
	}
	b.log.Info("daily plans sent", "users", len(users))
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	action, id, ok := parseCallback(cb.Data)
	if !ok {
		b.ack(cb.ID, "")
		return nil
	}
	b.log.Info("callback", "user", cb.From.ID, "data", cb.Data)

	if action == cbViewPrefix {
		b.ack(cb.ID, "")
		return b.sendCourse(cb.Message.Chat.ID, id)
	}

	delta := adjustStepHours
	if action == cbDecPrefix {
		delta = -adjustStepHours
	}
	update, err := b.progress.AdjustTopic(ctx, id, delta)
	if err != nil {
		b.ack(cb.ID, "Тема не найдена")
		return nil
	}
	if update.Accepted {
		b.ack(cb.ID, fmt.Sprintf("%s: %g из %g ч", update.Topic.Name, update.Topic.Completed, update.Topic.CreditHours))
	} else {
		b.ack(cb.ID, "Значение вне диапазона темы")
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		service.FormatCourse(update.Course), topicKeyboard(update.Course),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(edit)
	return err
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Warn("callback ack", "error", err)
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelToday):
		return true, b.sendText(msg.Chat.ID, b.reports.DailyPlan(b.now()))
	case strings.ToLower(menuLabelWeek):
		return true, b.sendText(msg.Chat.ID, b.reports.WeekPlan(b.now()))
	case strings.ToLower(menuLabelRank):
		return true, b.sendText(msg.Chat.ID, b.reports.Ranking(rankingLimit))
	case strings.ToLower(menuLabelProgress):
		return true, b.sendText(msg.Chat.ID, b.reports.Progress())
	case strings.ToLower(menuLabelCourses):
		return true, b.handleCourses(msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelWeek),
			tgbotapi.NewKeyboardButton(menuLabelRank),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelProgress),
			tgbotapi.NewKeyboardButton(menuLabelCourses),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func courseKeyboard(courses []model.Course) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(courses))
	for _, course := range courses {
		label := fmt.Sprintf("📘 %s · %.0f%%", shortTitle(course.Name, maxButtonTextLen), course.ProgressPercentage())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbViewPrefix+course.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// topicKeyboard has one ➖/➕ row per topic of the course.
func topicKeyboard(course model.Course) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(course.Topics))
	for _, topic := range course.Topics {
		label := fmt.Sprintf("%s %g/%g", shortTitle(topic.Name, maxButtonTextLen-8), topic.Completed, topic.CreditHours)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", cbDecPrefix+topic.ID),
			tgbotapi.NewInlineKeyboardButtonData(label, cbViewPrefix+course.ID),
			tgbotapi.NewInlineKeyboardButtonData("➕", cbIncPrefix+topic.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func parseCallback(data string) (string, string, bool) {
	for _, prefix := range []string{cbIncPrefix, cbDecPrefix, cbViewPrefix} {
		if strings.HasPrefix(data, prefix) {
			id := strings.TrimPrefix(data, prefix)
			if id == "" {
				return "", "", false
			}
			return prefix, id, true
		}
	}
	return "", "", false
}

// parsePlanDate returns now when args are empty.
func parsePlanDate(args string, now time.Time) (time.Time, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return now, nil
	}
	return time.ParseInLocation(dateLayout, args, now.Location())
}

// parseDoneArgs accepts "<topic> <hours>" where hours may use a decimal comma.
func parseDoneArgs(args string) (string, float64, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("expected topic and hours, got %d arguments", len(fields))
	}
	hours, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", "."), 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse hours: %w", err)
	}
	return fields[0], hours, nil
}

func progressErrorText(err error) string {
	switch {
	case errors.Is(err, catalog.ErrTopicNotFound):
		return "Тема не найдена. ID тем видно в /course &lt;id&gt;."
	case errors.Is(err, catalog.ErrInvalidProgressValue):
		return "Количество часов должно быть числом."
	default:
		return fmt.Sprintf("Не удалось обновить прогресс: %s", escape(err.Error()))
	}
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}
