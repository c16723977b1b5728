package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/scoring"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"
	"classroom_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Definition 解析后的课时测验定义，评分只读使用
type Definition struct {
	LessonID    uint                    `json:"lessonId"`
	CourseID    uint                    `json:"courseId"`
	Type        model.LessonType        `json:"type"`
	IsPublished bool                    `json:"isPublished"`
	Questions   []scoring.Question      `json:"questions,omitempty"`
	Personality scoring.PersonalityQuiz `json:"personality"`
}

type LessonService struct {
	Repo    *repository.LessonRepository
	Courses *repository.CourseRepository
	Cache   DefinitionCache
}

// LessonRequest 教师创建或修改课时
type LessonRequest struct {
	Title       string           `json:"title" binding:"required"`
	Slug        string           `json:"slug"`
	Type        model.LessonType `json:"type"`
	Content     string           `json:"content"`
	ContentJSON datatypes.JSON   `json:"contentJson" swaggertype:"object"`
	Position    int              `json:"position"`
	IsPublished bool             `json:"isPublished"`
}

func (r LessonRequest) apply(lesson *model.Lesson) {
	lesson.Title = r.Title
	lesson.Slug = r.Slug
	lesson.Type = r.Type
	lesson.Content = r.Content
	lesson.ContentJSON = r.ContentJSON
	lesson.Position = r.Position
	lesson.IsPublished = r.IsPublished
}

// NewLessonService cache 可以为 nil，此时每次都从数据库读取
func NewLessonService(repo *repository.LessonRepository, courses *repository.CourseRepository, cache DefinitionCache) *LessonService {
	return &LessonService{Repo: repo, Courses: courses, Cache: cache}
}

func (s *LessonService) FindLesson(ctx context.Context, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.Repo.FindByID(ctx, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lesson %d: %w", lessonID, err)
	}
	return lesson, nil
}

// LoadDefinition 先查缓存，未命中时读库并回填。缓存异常只记录日志
func (s *LessonService) LoadDefinition(ctx context.Context, lessonID uint) (*Definition, error) {
	ctx, span := tracing.Start(ctx, "LessonService.LoadDefinition")
	defer span.End()

	if s.Cache != nil {
		def, err := s.Cache.Get(ctx, lessonID)
		switch {
		case err != nil:
			monitoring.DefinitionCacheLookups.WithLabelValues("error").Inc()
			logger.Log.Warn("Lesson definition cache read failed", zap.Uint("lessonId", lessonID), zap.Error(err))
		case def != nil:
			monitoring.DefinitionCacheLookups.WithLabelValues("hit").Inc()
			return def, nil
		default:
			monitoring.DefinitionCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	lesson, err := s.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	def := BuildDefinition(lesson)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, def); err != nil {
			logger.Log.Warn("Lesson definition cache write failed", zap.Uint("lessonId", lessonID), zap.Error(err))
		}
	}
	return def, nil
}

// BuildDefinition 解析课时文档。文档损坏时返回空题目列表，评分结果随之为零
func BuildDefinition(lesson *model.Lesson) *Definition {
	def := &Definition{
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		Type:        lesson.Type,
		IsPublished: lesson.IsPublished,
	}

	switch lesson.Type {
	case model.LessonTypeStandardQuiz:
		questions, err := scoring.ParseStandardQuiz(lesson.ContentJSON)
		if err != nil {
			logger.Log.Warn("Malformed standard quiz definition", zap.Uint("lessonId", lesson.ID), zap.Error(err))
		}
		def.Questions = questions
	case model.LessonTypePersonalityQuiz:
		quiz, err := scoring.ParsePersonalityQuiz(lesson.ContentJSON)
		if err != nil {
			logger.Log.Warn("Malformed personality quiz definition", zap.Uint("lessonId", lesson.ID), zap.Error(err))
		}
		def.Personality = quiz
	}
	return def
}

// SaveLesson 校验测验文档后保存，并使缓存失效
func (s *LessonService) SaveLesson(ctx context.Context, lesson *model.Lesson) error {
	if lesson.Type == "" {
		lesson.Type = model.LessonTypeDefault
	}
	if !lesson.Type.Valid() {
		return fmt.Errorf("%w: unknown lesson type %q", util.ErrValidation, lesson.Type)
	}

	switch lesson.Type {
	case model.LessonTypeStandardQuiz:
		questions, err := scoring.ParseStandardQuiz(lesson.ContentJSON)
		if err == nil {
			err = scoring.ValidateStandardQuiz(questions)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", util.ErrValidation, err)
		}
	case model.LessonTypePersonalityQuiz:
		quiz, err := scoring.ParsePersonalityQuiz(lesson.ContentJSON)
		if err == nil {
			err = scoring.ValidatePersonalityQuiz(quiz)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", util.ErrValidation, err)
		}
	}

	if err := s.Repo.Save(ctx, lesson); err != nil {
		return err
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, lesson.ID); err != nil {
			logger.Log.Warn("Lesson definition cache invalidation failed", zap.Uint("lessonId", lesson.ID), zap.Error(err))
		}
	}
	return nil
}

// CreateLesson 在课程下新建课时
func (s *LessonService) CreateLesson(ctx context.Context, courseID uint, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.Courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	lesson := &model.Lesson{CourseID: courseID}
	req.apply(lesson)
	if err := s.SaveLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson 整体替换课时内容，课时必须属于该课程
func (s *LessonService) UpdateLesson(ctx context.Context, courseID, lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotFound
	}

	req.apply(lesson)
	if err := s.SaveLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// LearnerContent 返回给学生看的文档：标准测验在完成前去掉正确答案
func LearnerContent(lesson *model.Lesson, completed bool) datatypes.JSON {
	if lesson.Type != model.LessonTypeStandardQuiz || completed {
		return lesson.ContentJSON
	}

	questions, err := scoring.ParseStandardQuiz(lesson.ContentJSON)
	if err != nil {
		return datatypes.JSON("[]")
	}
	stripped, err := json.Marshal(scoring.StripCorrectOptions(questions))
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(stripped)
}
