package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
)

func newReportService(cat *catalog.Catalog, now time.Time) *ReportService {
	cfg := DefaultPlannerConfig()
	return NewReportService(
		cat,
		NewPriorityRanker(cat, cfg.ReferenceMarks),
		NewPlanner(cat, cfg),
		NewProjector(cat, ProjectionConfig{
			ExamDate:         now.AddDate(0, 0, 30),
			PlanStartDate:    now.AddDate(0, 0, -30),
			StudyHoursPerDay: cfg.StudyHoursPerDay,
		}, fixedClock(now)),
	)
}

func TestFormatDailySchedule(t *testing.T) {
	day := NewPlanner(catalog.NewDefault(), DefaultPlannerConfig()).GenerateDailySchedule(planDate)

	text := FormatDailySchedule(day)

	assert.True(t, strings.HasPrefix(text, "📋 <b>План на 04.03.2024</b>"))
	assert.Contains(t, text, "09:00–17:00 Prediction of TEC using Deep Neural Network")
	assert.Contains(t, text, "☕ 17:00")
	assert.Contains(t, text, "🍳 Meal preparation · 1 ч")
	assert.Contains(t, text, "Учёба: 8 ч")
}

func TestFormatDailySchedule_NothingLeft(t *testing.T) {
	text := FormatDailySchedule(model.DailySchedule{
		Date: planDate,
		BreakActivities: []model.BreakActivity{
			{Kind: model.BreakCooking, DurationMinutes: 60, Notes: "Meal preparation"},
		},
	})

	assert.Contains(t, text, "Все темы пройдены")
	assert.Contains(t, text, "🍳")
}

func TestFormatDailySchedule_EscapesNames(t *testing.T) {
	cat := catalog.New([]model.Course{{
		ID: "c", Name: "R&D", TotalMarks: 50,
		Topics: []model.Topic{{ID: "t", Name: "<script>", CreditHours: 1}},
	}})
	text := FormatDailySchedule(NewPlanner(cat, DefaultPlannerConfig()).GenerateDailySchedule(planDate))

	assert.Contains(t, text, "&lt;script&gt;")
	assert.Contains(t, text, "R&amp;D")
	assert.NotContains(t, text, "<script>")
}

func TestReportService_Ranking(t *testing.T) {
	svc := newReportService(catalog.NewDefault(), planDate)

	text := svc.Ranking(3)
	lines := strings.Split(text, "\n")
	assert.Equal(t, "🔥 <b>Приоритеты</b>", lines[0])
	assert.Contains(t, lines[1], "proj-1")
	assert.Contains(t, text, "3. <code>qm-2</code>")
	assert.NotContains(t, text, "4. <code>")

	empty := newReportService(catalog.New(nil), planDate)
	assert.Contains(t, empty.Ranking(3), "Все темы пройдены")
}

func TestReportService_Progress(t *testing.T) {
	cat := catalog.NewDefault()
	_, err := cat.SetTopicCompleted("proj-1", 160)
	require.NoError(t, err)

	text := newReportService(cat, planDate).Progress()

	assert.Contains(t, text, "160 из 628 ч")
	assert.Contains(t, text, "До экзамена: 30 дн.")
	assert.Contains(t, text, "Project Work: 100%")
	assert.Contains(t, text, "Прогноз балла")
}

func TestReportService_CourseListAndDetails(t *testing.T) {
	svc := newReportService(catalog.NewDefault(), planDate)

	list := svc.CourseList("quantum")
	assert.Contains(t, list, "<code>quantum-mechanics</code>")
	assert.NotContains(t, list, "econophysics")
	assert.Equal(t, "Курсы не найдены.", svc.CourseList("biology"))

	details, err := svc.CourseDetails("nuclear-physics")
	require.NoError(t, err)
	assert.Contains(t, details, "<code>np-7</code> Particle Interaction — 0/8 ч")

	_, err = svc.CourseDetails("missing")
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
}

func TestReportService_WeekPlan(t *testing.T) {
	text := newReportService(catalog.NewDefault(), planDate).WeekPlan(planDate)

	assert.True(t, strings.HasPrefix(text, "🗓 <b>Неделя 04.03 – 10.03</b>"))
	assert.Contains(t, text, "<b>Пн 04.03</b> · 8 ч")
	assert.Contains(t, text, "<b>Вс 10.03</b>")
}

func TestFormatProgressUpdate(t *testing.T) {
	base := ProgressUpdate{
		Course: model.Course{Name: "Course"},
		Topic:  model.Topic{Name: "Topic", CreditHours: 10, Completed: 10},
	}

	accepted := base
	accepted.Accepted = true
	accepted.Requested = 10
	assert.Contains(t, FormatProgressUpdate(accepted), "Прогресс обновлён")

	clamped := base
	clamped.Requested = 15
	text := FormatProgressUpdate(clamped)
	assert.Contains(t, text, "15 ч вне диапазона 0–10")
	assert.Contains(t, text, "Course · Topic: 10 из 10 ч")
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45 мин", formatMinutes(45))
	assert.Equal(t, "2 ч", formatMinutes(120))
	assert.Equal(t, "1 ч 15 мин", formatMinutes(75))
}
