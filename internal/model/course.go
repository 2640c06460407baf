package model

import "time"

// Course is a named collection of topics weighted by its exam marks.
type Course struct {
	ID         string    `gorm:"primaryKey" json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Code       string    `json:"code,omitempty" yaml:"code,omitempty"`
	TotalMarks float64   `json:"totalMarks" yaml:"total_marks"`
	Position   int       `gorm:"index" json:"-" yaml:"-"`
	Topics     []Topic   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"topics" yaml:"topics"`
	CreatedAt  time.Time `json:"-" yaml:"-"`
	UpdatedAt  time.Time `json:"-" yaml:"-"`
}

// Topic is the smallest trackable unit of study with a credit-hour budget.
type Topic struct {
	ID          string    `gorm:"primaryKey" json:"id" yaml:"id"`
	CourseID    string    `gorm:"index" json:"-" yaml:"-"`
	Position    int       `json:"-" yaml:"-"`
	Name        string    `json:"name" yaml:"name"`
	CreditHours float64   `json:"creditHours" yaml:"credit_hours"`
	Completed   float64   `json:"completed" yaml:"completed"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"-" yaml:"-"`
}

// Remaining returns the hours still to study, never negative.
func (t Topic) Remaining() float64 {
	if t.Completed >= t.CreditHours {
		return 0
	}
	return t.CreditHours - t.Completed
}

// IsDone reports whether every credit hour has been completed.
func (t Topic) IsDone() bool {
	return t.Completed >= t.CreditHours
}

// IsDegenerate reports a topic without a usable credit-hour budget.
func (t Topic) IsDegenerate() bool {
	return t.CreditHours <= 0
}

// Fraction returns the completed share in [0, 1]; degenerate topics count as 0.
func (t Topic) Fraction() float64 {
	if t.IsDegenerate() {
		return 0
	}
	return t.Completed / t.CreditHours
}

func (c Course) TotalHours() float64 {
	var total float64
	for _, topic := range c.Topics {
		total += topic.CreditHours
	}
	return total
}

func (c Course) CompletedHours() float64 {
	var done float64
	for _, topic := range c.Topics {
		done += topic.Completed
	}
	return done
}

// ProgressPercentage is 0 for a course without hours.
func (c Course) ProgressPercentage() float64 {
	total := c.TotalHours()
	if total <= 0 {
		return 0
	}
	return c.CompletedHours() / total * 100
}

// Clone returns a deep copy so callers can't mutate shared topic slices.
func (c Course) Clone() Course {
	out := c
	out.Topics = append([]Topic(nil), c.Topics...)
	return out
}

// CloneCourses deep-copies a course list.
func CloneCourses(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, len(courses))
	for i, course := range courses {
		out[i] = course.Clone()
	}
	return out
}
