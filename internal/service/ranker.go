package service

import (
	"sort"

	"study-planner/internal/model"
)

// DefaultReferenceMarks normalises course weights; it is the smallest usual course weight.
const DefaultReferenceMarks = 50.0

// CourseSource is anything that can hand out a snapshot of the catalog.
type CourseSource interface {
	Courses() []model.Course
}

// RankedTopic is an incomplete topic with its priority score.
type RankedTopic struct {
	Course model.Course
	Topic  model.Topic
	Score  float64
}

// PriorityScore weighs exam value, remaining hours and how little of the
// topic has been done. Callers must skip degenerate topics.
func PriorityScore(course model.Course, topic model.Topic, referenceMarks float64) float64 {
	if referenceMarks <= 0 {
		referenceMarks = DefaultReferenceMarks
	}
	marks := course.TotalMarks / referenceMarks
	remaining := topic.CreditHours - topic.Completed
	return marks * remaining * (1 - topic.Completed/topic.CreditHours)
}

// PriorityRanker orders the catalog's open topics by priority.
type PriorityRanker struct {
	source         CourseSource
	referenceMarks float64
}

func NewPriorityRanker(source CourseSource, referenceMarks float64) *PriorityRanker {
	if referenceMarks <= 0 {
		referenceMarks = DefaultReferenceMarks
	}
	return &PriorityRanker{source: source, referenceMarks: referenceMarks}
}

// RankTopics reads the current catalog and returns open topics, highest score first.
func (r *PriorityRanker) RankTopics() []RankedTopic {
	return rankCourses(r.source.Courses(), r.referenceMarks)
}

func rankCourses(courses []model.Course, referenceMarks float64) []RankedTopic {
	var ranked []RankedTopic
	for _, course := range courses {
		for _, topic := range course.Topics {
			if topic.IsDegenerate() || topic.IsDone() {
				continue
			}
			ranked = append(ranked, RankedTopic{
				Course: course,
				Topic:  topic,
				Score:  PriorityScore(course, topic, referenceMarks),
			})
		}
	}

	// Stable so equal scores keep declaration order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
