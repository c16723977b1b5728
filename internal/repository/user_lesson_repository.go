package repository

import (
	"classroom_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserLessonRepository struct {
	DB *gorm.DB
}

func NewUserLessonRepository(db *gorm.DB) *UserLessonRepository {
	return &UserLessonRepository{DB: db}
}

// Upsert 按 (user_id, lesson_id) 插入或更新进度记录。
// 冲突时只更新 columns 中列出的字段，其余字段保持原值。
func (r *UserLessonRepository) Upsert(ctx context.Context, record *model.UserLesson, columns []string) error {
	if len(columns) == 0 {
		return errors.New("upsert requires at least one update column")
	}

	row := *record
	row.ID = 0

	updates := make([]string, 0, len(columns)+1)
	updates = append(updates, columns...)
	updates = append(updates, "updated_at")

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	record.ID = row.ID
	record.CreatedAt = row.CreatedAt
	record.UpdatedAt = row.UpdatedAt
	return nil
}

// Find 返回学生在某课时的进度，不存在时返回 nil
func (r *UserLessonRepository) Find(ctx context.Context, userID, lessonID uint) (*model.UserLesson, error) {
	var rows []model.UserLesson
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *UserLessonRepository) ListByUser(ctx context.Context, userID uint, lessonIDs []uint) ([]model.UserLesson, error) {
	var rows []model.UserLesson
	if len(lessonIDs) == 0 {
		return rows, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&rows).Error
	return rows, err
}

func (r *UserLessonRepository) ListByLessons(ctx context.Context, lessonIDs []uint) ([]model.UserLesson, error) {
	var rows []model.UserLesson
	if len(lessonIDs) == 0 {
		return rows, nil
	}
	err := r.DB.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Order("user_id ASC, lesson_id ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteByLessons 重置进度。userID 为 0 时删除所有学生的记录
func (r *UserLessonRepository) DeleteByLessons(ctx context.Context, lessonIDs []uint, userID uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	q := r.DB.WithContext(ctx).Where("lesson_id IN ?", lessonIDs)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Delete(&model.UserLesson{})
	return res.RowsAffected, res.Error
}
