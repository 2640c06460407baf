package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"study-planner/internal/model"
)

// PlannerConfig contains the daily planning budget.
type PlannerConfig struct {
	StudyHoursPerDay         int
	BreakMinutesPerStudyHour int
	CookingMinutes           int
	DayStartHour             int
	ReferenceMarks           float64
}

// DefaultPlannerConfig returns the standard 8h study day starting at 9 AM.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		StudyHoursPerDay:         8,
		BreakMinutesPerStudyHour: 15,
		CookingMinutes:           60,
		DayStartHour:             9,
		ReferenceMarks:           DefaultReferenceMarks,
	}
}

func (c PlannerConfig) withDefaults() PlannerConfig {
	def := DefaultPlannerConfig()
	if c.StudyHoursPerDay <= 0 {
		c.StudyHoursPerDay = def.StudyHoursPerDay
	}
	if c.BreakMinutesPerStudyHour < 0 {
		c.BreakMinutesPerStudyHour = def.BreakMinutesPerStudyHour
	}
	if c.CookingMinutes <= 0 {
		c.CookingMinutes = def.CookingMinutes
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		c.DayStartHour = def.DayStartHour
	}
	if c.ReferenceMarks <= 0 {
		c.ReferenceMarks = def.ReferenceMarks
	}
	return c
}

// Planner turns the priority ranking into a study and break schedule.
type Planner struct {
	source CourseSource
	config PlannerConfig
	newID  func() string
}

// PlannerOption customises a Planner.
type PlannerOption func(*Planner)

// WithIDGenerator replaces the uuid-based identifier source.
func WithIDGenerator(gen func() string) PlannerOption {
	return func(p *Planner) {
		if gen != nil {
			p.newID = gen
		}
	}
}

func NewPlanner(source CourseSource, config PlannerConfig, opts ...PlannerOption) *Planner {
	p := &Planner{
		source: source,
		config: config.withDefaults(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Config() PlannerConfig {
	return p.config
}

// GenerateDailySchedule plans date from the current catalog state. Nothing is
// cached: every call re-ranks, so progress updates show up immediately.
func (p *Planner) GenerateDailySchedule(date time.Time) model.DailySchedule {
	return p.plan(p.source.Courses(), date)
}

// GenerateStudyPlan plans days consecutive days from start. Each day sees the
// hours allocated on the previous days as done; the catalog is not touched.
func (p *Planner) GenerateStudyPlan(start time.Time, days int) []model.DailySchedule {
	if days <= 0 {
		return nil
	}
	working := p.source.Courses()
	plan := make([]model.DailySchedule, 0, days)
	for i := 0; i < days; i++ {
		day := p.plan(working, start.AddDate(0, 0, i))
		plan = append(plan, day)
		applyAllocations(working, day.MinutesByTopic())
	}
	return plan
}

// GenerateWeek plans the Monday-to-Sunday week containing date.
func (p *Planner) GenerateWeek(date time.Time) []model.DailySchedule {
	return p.GenerateStudyPlan(WeekStart(date), 7)
}

func (p *Planner) plan(courses []model.Course, date time.Time) model.DailySchedule {
	cfg := p.config
	day := StartOfDay(date)
	schedule := model.DailySchedule{
		Date:          day,
		StudySessions: []model.StudySession{},
		BreakActivities: []model.BreakActivity{{
			ID:              p.newID(),
			Kind:            model.BreakCooking,
			Start:           day,
			DurationMinutes: cfg.CookingMinutes,
			Notes:           "Meal preparation",
		}},
	}

	remaining := cfg.StudyHoursPerDay * 60
	startHour := cfg.DayStartHour

	for _, ranked := range rankCourses(courses, cfg.ReferenceMarks) {
		if remaining <= 0 {
			break
		}

		needed := int(math.Round(ranked.Topic.Remaining() * 60))
		allocated := min(remaining, needed)
		if allocated <= 0 {
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
		schedule.StudySessions = append(schedule.StudySessions, model.StudySession{
			ID:              p.newID(),
			CourseID:        ranked.Course.ID,
			TopicID:         ranked.Topic.ID,
			CourseName:      ranked.Course.Name,
			TopicName:       ranked.Topic.Name,
			Start:           start,
			DurationMinutes: allocated,
			Notes:           fmt.Sprintf("Study %s from %s", ranked.Topic.Name, ranked.Course.Name),
		})
		remaining -= allocated

		breakMinutes := allocated * cfg.BreakMinutesPerStudyHour / 60
		if breakMinutes > 0 {
			schedule.BreakActivities = append(schedule.BreakActivities, model.BreakActivity{
				ID:              p.newID(),
				Kind:            model.BreakRest,
				Start:           start.Add(time.Duration(allocated) * time.Minute),
				DurationMinutes: breakMinutes,
				Notes:           "Short break to refresh",
			})
		}

		// Hour granularity: round the block up to the next full hour.
		startHour += (allocated + breakMinutes + 59) / 60
	}

	return schedule
}

// applyAllocations advances completion counters by the planned minutes.
func applyAllocations(courses []model.Course, minutes map[string]int) {
	for i := range courses {
		for j := range courses[i].Topics {
			topic := &courses[i].Topics[j]
			if m, ok := minutes[topic.ID]; ok {
				topic.Completed = math.Min(topic.CreditHours, topic.Completed+float64(m)/60)
			}
		}
	}
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
