package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserLesson 学习进度记录，每个 (user_id, lesson_id) 只有一行。
// 不使用软删除，否则被重置的行仍会占用唯一索引。
type UserLesson struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint           `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID          uint           `gorm:"uniqueIndex:idx_user_lesson;index;not null" json:"lessonId"`
	Completed         bool           `gorm:"not null;default:false" json:"completed"`
	Answers           datatypes.JSON `json:"answers" swaggertype:"array,object"`
	Score             *float64       `json:"score"`
	PersonalityScores datatypes.JSON `json:"personalityScores" swaggertype:"object"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (UserLesson) TableName() string {
	return "user_lessons"
}

// 上游每次提交实际计算出的字段
var (
	StandardQuizColumns    = []string{"completed", "score", "answers"}
	PersonalityQuizColumns = []string{"completed", "score", "answers", "personality_scores"}
	CompletionColumns      = []string{"completed"}
)
