package model

// swagger:model Course
type Course struct {
	BaseModel
	OrganisationID uint     `gorm:"index" json:"organisationId"`
	Title          string   `gorm:"size:255;not null" json:"title"`
	Slug           string   `gorm:"size:255;index" json:"slug"`
	Description    string   `gorm:"type:text" json:"description"`
	IsPublished    bool     `gorm:"default:false" json:"isPublished"`
	Lessons        []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
