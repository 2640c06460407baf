package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-planner/internal/model"
)

// CatalogRepository stores courses and topics in SQL tables.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadCatalog returns all courses with their topics in display order.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	return courses, nil
}

// SaveCatalog upserts every course and topic in one transaction and removes
// rows no longer present in courses.
func (r *CatalogRepository) SaveCatalog(ctx context.Context, courses []model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courseIDs := make([]string, 0, len(courses))
		var topicIDs []string

		for i, course := range courses {
			row := course
			row.Position = i
			row.Topics = nil
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "code", "total_marks", "position", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("upsert course %s: %w", course.ID, err)
			}
			courseIDs = append(courseIDs, course.ID)

			for j, topic := range course.Topics {
				trow := topic
				trow.CourseID = course.ID
				trow.Position = j
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{"course_id", "position", "name", "credit_hours", "completed", "notes", "updated_at"}),
				}).Create(&trow).Error; err != nil {
					return fmt.Errorf("upsert topic %s: %w", topic.ID, err)
				}
				topicIDs = append(topicIDs, topic.ID)
			}
		}

		topicQuery := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(topicIDs) > 0 {
			topicQuery = topicQuery.Where("id NOT IN ?", topicIDs)
		}
		if err := topicQuery.Delete(&model.Topic{}).Error; err != nil {
			return fmt.Errorf("prune topics: %w", err)
		}

		courseQuery := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(courseIDs) > 0 {
			courseQuery = courseQuery.Where("id NOT IN ?", courseIDs)
		}
		if err := courseQuery.Delete(&model.Course{}).Error; err != nil {
			return fmt.Errorf("prune courses: %w", err)
		}
		return nil
	})
}
