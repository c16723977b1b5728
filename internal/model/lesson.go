package model

import "gorm.io/datatypes"

type LessonType string

const (
	LessonTypeDefault         LessonType = "default"
	LessonTypeStandardQuiz    LessonType = "standard_quiz"
	LessonTypePersonalityQuiz LessonType = "personality_quiz"
)

func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeDefault, LessonTypeStandardQuiz, LessonTypePersonalityQuiz:
		return true
	}
	return false
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint           `gorm:"index;not null" json:"courseId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Slug        string         `gorm:"size:255" json:"slug"`
	Type        LessonType     `gorm:"size:32;default:'default'" json:"type"`
	Content     string         `gorm:"type:text" json:"content"`
	ContentJSON datatypes.JSON `json:"contentJson" swaggertype:"object"` // 测验文档
	Position    int            `gorm:"default:0" json:"position"`
	IsPublished bool           `gorm:"default:false" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
