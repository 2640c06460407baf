package model

import (
	"fmt"
	"strings"
	"time"
)

// BreakKind tags a break activity.
type BreakKind string

const (
	BreakRest     BreakKind = "rest"
	BreakCooking  BreakKind = "cooking"
	BreakExercise BreakKind = "exercise"
	BreakOther    BreakKind = "other"
)

func (k BreakKind) Valid() bool {
	switch k {
	case BreakRest, BreakCooking, BreakExercise, BreakOther:
		return true
	}
	return false
}

// ParseBreakKind accepts the kind name in any case.
func ParseBreakKind(raw string) (BreakKind, error) {
	kind := BreakKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown break kind %q", raw)
	}
	return kind, nil
}

// StudySession is a generated block of study time for one topic.
type StudySession struct {
	ID              string
	CourseID        string
	TopicID         string
	CourseName      string
	TopicName       string
	Start           time.Time
	DurationMinutes int
	Completed       bool
	Notes           string
}

func (s StudySession) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// BreakActivity is a generated non-study block (meal, rest, ...).
type BreakActivity struct {
	ID              string
	Kind            BreakKind
	Start           time.Time
	DurationMinutes int
	Notes           string
}

// DailySchedule is the result of planning a single day. It is never stored.
type DailySchedule struct {
	Date            time.Time
	StudySessions   []StudySession
	BreakActivities []BreakActivity
}

func (d DailySchedule) TotalStudyMinutes() int {
	total := 0
	for _, s := range d.StudySessions {
		total += s.DurationMinutes
	}
	return total
}

func (d DailySchedule) TotalBreakMinutes() int {
	total := 0
	for _, b := range d.BreakActivities {
		total += b.DurationMinutes
	}
	return total
}

// MinutesByTopic sums allocated study minutes per topic ID.
func (d DailySchedule) MinutesByTopic() map[string]int {
	out := make(map[string]int, len(d.StudySessions))
	for _, s := range d.StudySessions {
		out[s.TopicID] += s.DurationMinutes
	}
	return out
}

// BreaksOfKind filters break activities by kind, preserving order.
func (d DailySchedule) BreaksOfKind(kind BreakKind) []BreakActivity {
	var out []BreakActivity
	for _, b := range d.BreakActivities {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}
