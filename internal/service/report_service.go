package service

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
)

// ReportService builds human-readable plans and progress reports for chat.
type ReportService struct {
	catalog   *catalog.Catalog
	ranker    *PriorityRanker
	planner   *Planner
	projector *Projector
}

func NewReportService(cat *catalog.Catalog, ranker *PriorityRanker, planner *Planner, projector *Projector) *ReportService {
	return &ReportService{catalog: cat, ranker: ranker, planner: planner, projector: projector}
}

// DailyPlan renders the schedule generated for date.
func (s *ReportService) DailyPlan(date time.Time) string {
	return FormatDailySchedule(s.planner.GenerateDailySchedule(date))
}

// WeekPlan renders a compact Monday-to-Sunday overview around date.
func (s *ReportService) WeekPlan(date time.Time) string {
	days := s.planner.GenerateWeek(date)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>Неделя %s – %s</b>\n\n",
		days[0].Date.Format("02.01"), days[len(days)-1].Date.Format("02.01")))
	for _, day := range days {
		builder.WriteString(fmt.Sprintf("<b>%s %s</b> · %s\n",
			weekdayShort(day.Date.Weekday()), day.Date.Format("02.01"), formatMinutes(day.TotalStudyMinutes())))
		if len(day.StudySessions) == 0 {
			builder.WriteString("   — всё пройдено\n")
			continue
		}
		for _, session := range day.StudySessions {
			builder.WriteString(fmt.Sprintf("   • %s <i>(%s)</i>\n",
				html.EscapeString(session.TopicName), formatMinutes(session.DurationMinutes)))
		}
	}
	return strings.TrimSpace(builder.String())
}

// Ranking lists the top limit topics by priority; limit <= 0 lists all.
func (s *ReportService) Ranking(limit int) string {
	ranked := s.ranker.RankTopics()
	if len(ranked) == 0 {
		return "🎉 Все темы пройдены, приоритетов нет."
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	var builder strings.Builder
	builder.WriteString("🔥 <b>Приоритеты</b>\n")
	for i, r := range ranked {
		builder.WriteString(fmt.Sprintf("%d. <code>%s</code> %s — %.1f\n   %s · осталось %s ч\n",
			i+1, html.EscapeString(r.Topic.ID), html.EscapeString(r.Topic.Name), r.Score,
			html.EscapeString(r.Course.Name), formatHours(r.Topic.Remaining())))
	}
	return strings.TrimSpace(builder.String())
}

// Progress renders the projection summary and per-course breakdown.
func (s *ReportService) Progress() string {
	summary := s.projector.Summary()

	var builder strings.Builder
	builder.WriteString("📈 <b>Прогресс</b>\n")
	builder.WriteString(fmt.Sprintf("%s %.0f%% (%s из %s ч)\n",
		progressBar(summary.ProgressPercentage), summary.ProgressPercentage,
		formatHours(summary.CompletedHours), formatHours(summary.TotalHours)))

	switch {
	case summary.DaysUntilExam > 0:
		builder.WriteString(fmt.Sprintf("⏳ До экзамена: %d дн.\n", summary.DaysUntilExam))
	case summary.DaysUntilExam == 0:
		builder.WriteString("⏳ Экзамен сегодня\n")
	default:
		builder.WriteString(fmt.Sprintf("⏳ Экзамен был %d дн. назад\n", -summary.DaysUntilExam))
	}

	icon := "✅"
	if !summary.OnTrack {
		icon = "⚠️"
	}
	builder.WriteString(fmt.Sprintf("%s Завершение: %s\n", icon, summary.CompletionDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("🏆 Прогноз балла: %.0f\n\n", summary.ProjectedScore))

	builder.WriteString("📚 <b>Курсы</b>\n")
	for _, row := range s.catalog.Breakdown() {
		builder.WriteString(fmt.Sprintf("• %s: %.0f%% (%s/%s ч)\n",
			html.EscapeString(row.Name), row.Percentage, formatHours(row.Completed), formatHours(row.Total)))
	}
	return strings.TrimSpace(builder.String())
}

// CourseList renders courses matching term with their progress.
func (s *ReportService) CourseList(term string) string {
	courses := s.catalog.Search(term)
	if len(courses) == 0 {
		return "Курсы не найдены."
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Курсы</b>\n")
	for _, course := range courses {
		builder.WriteString(fmt.Sprintf("• <code>%s</code> %s", html.EscapeString(course.ID), html.EscapeString(course.Name)))
		if course.Code != "" {
			builder.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(course.Code)))
		}
		builder.WriteString(fmt.Sprintf(" — %.0f%%\n", course.ProgressPercentage()))
	}
	return strings.TrimSpace(builder.String())
}

// CourseDetails lists the topics of one course in display order.
func (s *ReportService) CourseDetails(courseID string) (string, error) {
	course, err := s.catalog.Course(courseID)
	if err != nil {
		return "", err
	}
	return FormatCourse(course), nil
}

// FormatCourse renders a course and its topics.
func FormatCourse(course model.Course) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📘 <b>%s</b>", html.EscapeString(course.Name)))
	if course.Code != "" {
		builder.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(course.Code)))
	}
	builder.WriteString(fmt.Sprintf("\n%s %.0f%% · %s из %s ч · вес %.0f\n\n",
		progressBar(course.ProgressPercentage()), course.ProgressPercentage(),
		formatHours(course.CompletedHours()), formatHours(course.TotalHours()), course.TotalMarks))
	if len(course.Topics) == 0 {
		builder.WriteString("— тем нет\n")
	}
	for _, topic := range course.Topics {
		icon := "🟢"
		if topic.IsDone() {
			icon = "✅"
		}
		builder.WriteString(fmt.Sprintf("%s <code>%s</code> %s — %s/%s ч\n",
			icon, html.EscapeString(topic.ID), html.EscapeString(topic.Name),
			formatHours(topic.Completed), formatHours(topic.CreditHours)))
	}
	return strings.TrimSpace(builder.String())
}

// FormatDailySchedule renders one day as a chronological list.
func FormatDailySchedule(schedule model.DailySchedule) string {
	type entry struct {
		at   time.Time
		line string
	}
	var entries []entry
	var meals []string

	for _, session := range schedule.StudySessions {
		entries = append(entries, entry{
			at: session.Start,
			line: fmt.Sprintf("📖 %s–%s %s\n   %s · %s",
				session.Start.Format("15:04"), session.End().Format("15:04"),
				html.EscapeString(session.TopicName), html.EscapeString(session.CourseName),
				formatMinutes(session.DurationMinutes)),
		})
	}
	for _, activity := range schedule.BreakActivities {
		if activity.Kind == model.BreakCooking {
			meals = append(meals, fmt.Sprintf("%s %s · %s", breakIcon(activity.Kind),
				html.EscapeString(activity.Notes), formatMinutes(activity.DurationMinutes)))
			continue
		}
		entries = append(entries, entry{
			at: activity.Start,
			line: fmt.Sprintf("%s %s %s · %s", breakIcon(activity.Kind), activity.Start.Format("15:04"),
				html.EscapeString(activity.Notes), formatMinutes(activity.DurationMinutes)),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>План на %s</b>\n", schedule.Date.Format("02.01.2006")))
	builder.WriteString(fmt.Sprintf("Учёба: %s · перерывы: %s\n\n",
		formatMinutes(schedule.TotalStudyMinutes()), formatMinutes(schedule.TotalBreakMinutes())))

	if len(schedule.StudySessions) == 0 {
		builder.WriteString("🎉 Все темы пройдены, сегодня можно повторять.\n")
	}
	for _, e := range entries {
		builder.WriteString(e.line)
		builder.WriteByte('\n')
	}
	for _, meal := range meals {
		builder.WriteString(meal)
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String())
}

// FormatProgressUpdate confirms a completion change.
func FormatProgressUpdate(update ProgressUpdate) string {
	var builder strings.Builder
	if update.Accepted {
		builder.WriteString("✅ Прогресс обновлён\n")
	} else {
		builder.WriteString(fmt.Sprintf("⚠️ Значение %s ч вне диапазона 0–%s, сохранено ближайшее допустимое\n",
			formatHours(update.Requested), formatHours(update.Topic.CreditHours)))
	}
	builder.WriteString(fmt.Sprintf("%s · %s: %s из %s ч",
		html.EscapeString(update.Course.Name), html.EscapeString(update.Topic.Name),
		formatHours(update.Topic.Completed), formatHours(update.Topic.CreditHours)))
	return builder.String()
}

func breakIcon(kind model.BreakKind) string {
	switch kind {
	case model.BreakCooking:
		return "🍳"
	case model.BreakExercise:
		return "🏃"
	case model.BreakRest:
		return "☕"
	default:
		return "⏸"
	}
}

func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d мин", m)
	case m == 0:
		return fmt.Sprintf("%d ч", h)
	default:
		return fmt.Sprintf("%d ч %d мин", h, m)
	}
}

func formatHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return fmt.Sprintf("%d", int64(hours))
	}
	return fmt.Sprintf("%.1f", hours)
}

func progressBar(pct float64) string {
	const width = 10
	filled := int(pct / 100 * width)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func weekdayShort(day time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[day]
}
