package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"study-planner/internal/model"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type catalogFile struct {
	Courses []model.Course `yaml:"courses"`
}

// LoadFile reads a YAML catalog:
//
//	courses:
//	  - id: quantum-mechanics
//	    name: Quantum Mechanics
//	    total_marks: 100
//	    topics:
//	      - {id: qm-1, name: Wave Mechanics, credit_hours: 15}
func LoadFile(path string) ([]model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog content.
func Parse(data []byte) ([]model.Course, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(file.Courses); err != nil {
		return nil, err
	}
	return file.Courses, nil
}

// Validate checks IDs are present and unique and that weights and hours are usable.
// Courses without topics are allowed.
func Validate(courses []model.Course) error {
	courseIDs := make(map[string]struct{}, len(courses))
	topicIDs := make(map[string]struct{})
	for _, course := range courses {
		id := strings.TrimSpace(course.ID)
		if id == "" {
			return fmt.Errorf("%w: course %q has no id", ErrInvalidCatalog, course.Name)
		}
		if _, dup := courseIDs[id]; dup {
			return fmt.Errorf("%w: duplicate course id %q", ErrInvalidCatalog, id)
		}
		courseIDs[id] = struct{}{}
		if course.TotalMarks <= 0 {
			return fmt.Errorf("%w: course %q total marks must be positive", ErrInvalidCatalog, id)
		}

		for _, topic := range course.Topics {
			tid := strings.TrimSpace(topic.ID)
			if tid == "" {
				return fmt.Errorf("%w: topic %q in %q has no id", ErrInvalidCatalog, topic.Name, id)
			}
			if _, dup := topicIDs[tid]; dup {
				return fmt.Errorf("%w: duplicate topic id %q", ErrInvalidCatalog, tid)
			}
			topicIDs[tid] = struct{}{}
			if topic.CreditHours < 0 || topic.Completed < 0 {
				return fmt.Errorf("%w: topic %q has negative hours", ErrInvalidCatalog, tid)
			}
		}
	}
	return nil
}
