package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name  string   `gorm:"size:100;not null" json:"name"`
	Email string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role  UserRole `gorm:"size:20;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
