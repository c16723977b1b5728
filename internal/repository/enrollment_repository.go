package repository

import (
	"classroom_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Enroll 幂等选课，返回是否新建了记录
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&model.CourseEnrollment{UserID: userID, CourseID: courseID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	var rows []model.CourseEnrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// SetCompleted 更新选课的完成标记，userID 为 0 时作用于课程下所有学生
func (r *EnrollmentRepository) SetCompleted(ctx context.Context, courseID, userID uint, completed bool) error {
	q := r.DB.WithContext(ctx).Model(&model.CourseEnrollment{}).Where("course_id = ?", courseID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	return q.Update("is_completed", completed).Error
}

// ListStudents 返回选了该课程的用户，按 id 升序
func (r *EnrollmentRepository) ListStudents(ctx context.Context, courseID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Select("users.*").
		Joins("JOIN course_enrollments ON course_enrollments.user_id = users.id").
		Where("course_enrollments.course_id = ?", courseID).
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}
