package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrNotStandardQuiz    = errors.New("lesson is not a standard quiz")
	ErrNotPersonalityQuiz = errors.New("lesson is not a personality quiz")
	ErrNotDefaultLesson   = errors.New("lesson is a quiz and is completed by submitting answers")
	ErrValidation         = errors.New("validation failed")
)
