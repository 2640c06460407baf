package service

import (
	"math"
	"time"

	"study-planner/internal/model"
)

const (
	minProjectedScore = 60.0
	maxProjectedScore = 100.0
)

// ProjectionConfig holds the fixed dates the projections are measured against.
type ProjectionConfig struct {
	ExamDate         time.Time
	PlanStartDate    time.Time
	StudyHoursPerDay int
}

// ProjectionSummary bundles every projection for one rendering.
type ProjectionSummary struct {
	ProgressPercentage float64
	TotalHours         float64
	CompletedHours     float64
	RemainingHours     float64
	DaysUntilExam      int
	CompletionDate     time.Time
	ProjectedScore     float64
	OnTrack            bool
}

// Projector derives exam countdown, completion date and a projected score
// from the catalog and a clock.
//
// The projected score is a banded heuristic comparing the pace so far with
// the pace needed to finish by the exam. It is not a statistical forecast.
type Projector struct {
	source CourseSource
	config ProjectionConfig
	now    func() time.Time
}

func NewProjector(source CourseSource, config ProjectionConfig, now func() time.Time) *Projector {
	if config.StudyHoursPerDay <= 0 {
		config.StudyHoursPerDay = DefaultPlannerConfig().StudyHoursPerDay
	}
	if now == nil {
		now = time.Now
	}
	return &Projector{source: source, config: config, now: now}
}

// DaysUntilExam counts whole local days from today to the exam date.
// Negative once the exam has passed.
func (p *Projector) DaysUntilExam() int {
	return daysBetween(p.now(), p.config.ExamDate)
}

// EstimatedCompletionDate assumes the full daily budget is studied every day.
func (p *Projector) EstimatedCompletionDate() time.Time {
	remaining := remainingHours(p.source.Courses())
	days := int(math.Ceil(remaining / float64(p.config.StudyHoursPerDay)))
	return StartOfDay(p.now()).AddDate(0, 0, days)
}

// ProjectedScore returns a score in [60, 100].
func (p *Projector) ProjectedScore() float64 {
	courses := p.source.Courses()
	return p.projectedScore(totalHours(courses), completedHours(courses))
}

func (p *Projector) Summary() ProjectionSummary {
	courses := p.source.Courses()
	total := totalHours(courses)
	done := completedHours(courses)

	var pct float64
	if total > 0 {
		pct = done / total * 100
	}
	completion := p.EstimatedCompletionDate()
	exam := StartOfDay(p.config.ExamDate)

	return ProjectionSummary{
		ProgressPercentage: pct,
		TotalHours:         total,
		CompletedHours:     done,
		RemainingHours:     remainingHours(courses),
		DaysUntilExam:      p.DaysUntilExam(),
		CompletionDate:     completion,
		ProjectedScore:     p.projectedScore(total, done),
		OnTrack:            !completion.After(exam),
	}
}

func (p *Projector) projectedScore(total, done float64) float64 {
	var progress float64
	if total > 0 {
		progress = done / total
	}

	hoursPerDay := float64(p.config.StudyHoursPerDay)
	daysLeft := p.DaysUntilExam()
	if daysLeft < 1 {
		daysLeft = 1
	}
	expectedRate := total / float64(daysLeft) / hoursPerDay

	var actualRate float64
	if passed := daysBetween(p.config.PlanStartDate, p.now()); passed > 0 {
		actualRate = done / float64(passed) / hoursPerDay
	}

	var score float64
	switch {
	case actualRate < expectedRate*0.7:
		score = 70 + progress*20
	case actualRate < expectedRate*0.9:
		score = 80 + progress*10
	default:
		score = 90 + progress*10
	}
	return math.Min(math.Max(score, minProjectedScore), maxProjectedScore)
}

// daysBetween is the calendar-day difference to-from, ignoring clock time and DST.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func totalHours(courses []model.Course) float64 {
	var total float64
	for _, c := range courses {
		total += c.TotalHours()
	}
	return total
}

func completedHours(courses []model.Course) float64 {
	var done float64
	for _, c := range courses {
		done += c.CompletedHours()
	}
	return done
}

func remainingHours(courses []model.Course) float64 {
	var left float64
	for _, c := range courses {
		for _, t := range c.Topics {
			left += t.Remaining()
		}
	}
	return left
}
