// Package catalog owns the course/topic dataset and the progress mutation boundary.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"study-planner/internal/model"
)

var (
	ErrTopicNotFound        = errors.New("topic not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrInvalidProgressValue = errors.New("invalid progress value")
)

// CourseProgress is the per-course slice of the aggregates.
type CourseProgress struct {
	CourseID   string
	Name       string
	Code       string
	Total      float64
	Completed  float64
	Percentage float64
}

// Catalog is the in-memory course catalog. Reads hand out copies, so the
// only way to change completion counters is through the methods below.
type Catalog struct {
	mu      sync.RWMutex
	courses []model.Course
}

// New builds a catalog from a copy of courses, normalising completion
// counters into [0, CreditHours].
func New(courses []model.Course) *Catalog {
	c := &Catalog{}
	c.Replace(courses)
	return c
}

// NewDefault returns a catalog seeded with the reference dataset.
func NewDefault() *Catalog {
	return New(DefaultCourses())
}

// Replace swaps the catalog contents, e.g. after loading from a store.
func (c *Catalog) Replace(courses []model.Course) {
	cloned := model.CloneCourses(courses)
	for i := range cloned {
		cloned[i].Position = i
		for j := range cloned[i].Topics {
			topic := &cloned[i].Topics[j]
			topic.CourseID = cloned[i].ID
			topic.Position = j
			topic.Completed = clampHours(topic.Completed, topic.CreditHours)
		}
	}

	c.mu.Lock()
	c.courses = cloned
	c.mu.Unlock()
}

// Courses returns a deep copy of the catalog in display order.
func (c *Catalog) Courses() []model.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneCourses(c.courses)
}

func (c *Catalog) Course(id string) (model.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, course := range c.courses {
		if course.ID == id {
			return course.Clone(), nil
		}
	}
	return model.Course{}, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
}

// Topic returns the topic together with its owning course.
func (c *Catalog) Topic(id string) (model.Course, model.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, j, ok := c.locate(id)
	if !ok {
		return model.Course{}, model.Topic{}, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
	}
	return c.courses[i].Clone(), c.courses[i].Topics[j], nil
}

// Search matches term against course names and codes, case-insensitively.
// An empty term returns every course.
func (c *Catalog) Search(term string) []model.Course {
	needle := strings.ToLower(strings.TrimSpace(term))
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []model.Course
	for _, course := range c.courses {
		if needle == "" ||
			strings.Contains(strings.ToLower(course.Name), needle) ||
			strings.Contains(strings.ToLower(course.Code), needle) {
			out = append(out, course.Clone())
		}
	}
	return out
}

func (c *Catalog) TotalCreditHours() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, course := range c.courses {
		total += course.TotalHours()
	}
	return total
}

func (c *Catalog) CompletedCreditHours() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var done float64
	for _, course := range c.courses {
		done += course.CompletedHours()
	}
	return done
}

func (c *Catalog) RemainingCreditHours() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var left float64
	for _, course := range c.courses {
		for _, topic := range course.Topics {
			left += topic.Remaining()
		}
	}
	return left
}

// ProgressPercentage returns completed/total*100, or 0 for an empty catalog.
func (c *Catalog) ProgressPercentage() float64 {
	total := c.TotalCreditHours()
	if total <= 0 {
		return 0
	}
	return c.CompletedCreditHours() / total * 100
}

// Breakdown lists per-course progress in display order.
func (c *Catalog) Breakdown() []CourseProgress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CourseProgress, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, CourseProgress{
			CourseID:   course.ID,
			Name:       course.Name,
			Code:       course.Code,
			Total:      course.TotalHours(),
			Completed:  course.CompletedHours(),
			Percentage: course.ProgressPercentage(),
		})
	}
	return out
}

// SetTopicCompleted stores hours as the topic's completed counter.
//
// Values outside [0, CreditHours] are clamped and stored, and the call
// reports ErrInvalidProgressValue so the caller can tell the user. NaN and
// infinities are refused without touching the topic.
func (c *Catalog) SetTopicCompleted(topicID string, hours float64) (model.Topic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, j, ok := c.locate(topicID)
	if !ok {
		return model.Topic{}, fmt.Errorf("%w: %s", ErrTopicNotFound, topicID)
	}
	topic := &c.courses[i].Topics[j]

	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return *topic, fmt.Errorf("%w: %v hours for %s", ErrInvalidProgressValue, hours, topicID)
	}

	clamped := clampHours(hours, topic.CreditHours)
	topic.Completed = clamped
	if clamped != hours {
		return *topic, fmt.Errorf("%w: %g hours for %s, stored %g of %g",
			ErrInvalidProgressValue, hours, topicID, clamped, topic.CreditHours)
	}
	return *topic, nil
}

// AdjustTopic adds delta hours to the completed counter.
func (c *Catalog) AdjustTopic(topicID string, delta float64) (model.Topic, error) {
	c.mu.RLock()
	i, j, ok := c.locate(topicID)
	var current float64
	if ok {
		current = c.courses[i].Topics[j].Completed
	}
	c.mu.RUnlock()
	if !ok {
		return model.Topic{}, fmt.Errorf("%w: %s", ErrTopicNotFound, topicID)
	}
	return c.SetTopicCompleted(topicID, current+delta)
}

func (c *Catalog) locate(topicID string) (int, int, bool) {
	for i := range c.courses {
		for j := range c.courses[i].Topics {
			if c.courses[i].Topics[j].ID == topicID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func clampHours(hours, capacity float64) float64 {
	if capacity < 0 {
		capacity = 0
	}
	switch {
	case math.IsNaN(hours) || hours < 0:
		return 0
	case hours > capacity:
		return capacity
	default:
		return hours
	}
}
