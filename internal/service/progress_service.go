package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
	"study-planner/internal/pkg/logger"
)

// CatalogStore persists the whole catalog. Implementations may be no-ops.
type CatalogStore interface {
	LoadCatalog(ctx context.Context) ([]model.Course, error)
	SaveCatalog(ctx context.Context, courses []model.Course) error
}

// ProgressUpdate describes the outcome of a completion change.
type ProgressUpdate struct {
	Course    model.Course
	Topic     model.Topic
	Requested float64
	// Accepted is false when the requested value was clamped.
	Accepted bool
}

// ProgressService is the single write path into the catalog. It keeps the
// store in sync after every accepted or clamped change.
type ProgressService struct {
	catalog *catalog.Catalog
	store   CatalogStore
	log     *logger.Logger
}

func NewProgressService(cat *catalog.Catalog, store CatalogStore, log *logger.Logger) *ProgressService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressService{catalog: cat, store: store, log: log}
}

func (s *ProgressService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Load replaces the catalog with stored data. An empty store is seeded with
// the current catalog; a failing store leaves the catalog untouched.
func (s *ProgressService) Load(ctx context.Context) error {
	courses, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(courses) == 0 {
		s.log.Info("catalog store empty, seeding", "courses", len(s.catalog.Courses()))
		return s.Save(ctx)
	}
	s.catalog.Replace(courses)
	s.log.Info("catalog loaded", "courses", len(courses))
	return nil
}

// ImportCourses replaces the catalog (e.g. from a YAML file) and saves it.
func (s *ProgressService) ImportCourses(ctx context.Context, courses []model.Course) error {
	if err := catalog.Validate(courses); err != nil {
		return err
	}
	s.catalog.Replace(courses)
	return s.Save(ctx)
}

func (s *ProgressService) Save(ctx context.Context) error {
	if err := s.store.SaveCatalog(ctx, s.catalog.Courses()); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// SetTopicCompleted clamps hours into the topic's range. A clamped update is
// still stored and returned with Accepted=false and a nil error.
func (s *ProgressService) SetTopicCompleted(ctx context.Context, topicID string, hours float64) (ProgressUpdate, error) {
	topic, err := s.catalog.SetTopicCompleted(topicID, hours)
	return s.finish(ctx, topicID, hours, topic, err)
}

// AdjustTopic moves the completed counter by delta hours.
func (s *ProgressService) AdjustTopic(ctx context.Context, topicID string, delta float64) (ProgressUpdate, error) {
	_, before, err := s.catalog.Topic(topicID)
	if err != nil {
		return ProgressUpdate{}, err
	}
	topic, err := s.catalog.AdjustTopic(topicID, delta)
	return s.finish(ctx, topicID, before.Completed+delta, topic, err)
}

func (s *ProgressService) finish(ctx context.Context, topicID string, requested float64, topic model.Topic, err error) (ProgressUpdate, error) {
	accepted := true
	switch {
	case err == nil:
	case math.IsNaN(requested) || math.IsInf(requested, 0):
		return ProgressUpdate{}, err
	case errors.Is(err, catalog.ErrInvalidProgressValue) && topic.ID != "":
		accepted = false
		s.log.Info("progress value clamped", "topic", topicID, "requested", requested, "stored", topic.Completed)
	default:
		return ProgressUpdate{}, err
	}

	course, _, lookupErr := s.catalog.Topic(topicID)
	if lookupErr != nil {
		return ProgressUpdate{}, lookupErr
	}

	if saveErr := s.Save(ctx); saveErr != nil {
		s.log.Error("persist progress", "topic", topicID, "error", saveErr)
	}

	return ProgressUpdate{Course: course, Topic: topic, Requested: requested, Accepted: accepted}, nil
}
