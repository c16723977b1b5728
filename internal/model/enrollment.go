package model

import "time"

// CourseEnrollment 选课记录，(user_id, course_id) 唯一
type CourseEnrollment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"userId"`
	CourseID    uint      `gorm:"uniqueIndex:idx_enrollment_user_course;index;not null" json:"courseId"`
	IsCompleted bool      `gorm:"not null;default:false" json:"isCompleted"` // 所有已发布课时都完成
	CreatedAt   time.Time `json:"createdAt"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
