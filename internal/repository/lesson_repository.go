package repository

import (
	"classroom_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, id).Error
	return &lesson, err
}

// ListPublishedByCourse 按 position 排序返回已发布课时
func (r *LessonRepository) ListPublishedByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("position ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) ListIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *LessonRepository) Save(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Save(lesson).Error
}
