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
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type SubmitQuizRequest struct {
	Answers []scoring.Answer `json:"answers" binding:"required,dive"`
}

type QuizResult struct {
	Score      float64 `json:"score"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
}

type PersonalityResult struct {
	PersonalityResults scoring.Profile `json:"personality_results"`
	PersonalityTraits  []scoring.Trait `json:"personality_traits"`
	Message            string          `json:"message"`
}

// LearnerLesson 学生视角的课时详情
type LearnerLesson struct {
	Lesson   model.Lesson      `json:"lesson"`
	Progress *model.UserLesson `json:"progress"`
}

type LessonProgress struct {
	LessonID  uint             `json:"lessonId"`
	Title     string           `json:"title"`
	Type      model.LessonType `json:"type"`
	Position  int              `json:"position"`
	Completed bool             `json:"completed"`
	Score     *float64         `json:"score"`
}

type CourseProgress struct {
	CourseID         uint             `json:"courseId"`
	Lessons          []LessonProgress `json:"lessons"`
	CompletedLessons int              `json:"completedLessons"`
	TotalLessons     int              `json:"totalLessons"`
	Progress         float64          `json:"progress"`
	IsCompleted      bool             `json:"isCompleted"`
	TotalScore       float64          `json:"totalScore"`
}

// ClassroomService 学生侧：查看课时、提交测验、标记完成
type ClassroomService struct {
	Lessons     *LessonService
	LessonRepo  *repository.LessonRepository
	Progress    *repository.UserLessonRepository
	Enrollments *repository.EnrollmentRepository
}

func NewClassroomService(
	lessons *LessonService,
	lessonRepo *repository.LessonRepository,
	progress *repository.UserLessonRepository,
	enrollments *repository.EnrollmentRepository,
) *ClassroomService {
	return &ClassroomService{
		Lessons:     lessons,
		LessonRepo:  lessonRepo,
		Progress:    progress,
		Enrollments: enrollments,
	}
}

func (s *ClassroomService) ensureEnrolled(ctx context.Context, userID, courseID uint) error {
	ok, err := s.Enrollments.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

// loadForCourse 加载定义并确认课时属于该课程且学生已选课
func (s *ClassroomService) loadForCourse(ctx context.Context, userID, courseID, lessonID uint) (*Definition, error) {
	def, err := s.Lessons.LoadDefinition(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if def.CourseID != courseID || !def.IsPublished {
		return nil, util.ErrLessonNotFound
	}
	if err := s.ensureEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return def, nil
}

func countSkippedStandard(questions []scoring.Question, answers []scoring.Answer) int {
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	skipped := 0
	for _, a := range answers {
		if !known[a.QuestionID] {
			skipped++
		}
	}
	return skipped
}

// SubmitQuiz 标准测验评分并写入进度，重复提交覆盖 completed/score/answers
func (s *ClassroomService) SubmitQuiz(ctx context.Context, userID, courseID, lessonID uint, req SubmitQuizRequest) (res *QuizResult, err error) {
	ctx, span := tracing.Start(ctx, "ClassroomService.SubmitQuiz")
	defer func() { tracing.End(span, err) }()

	if req.Answers == nil {
		return nil, fmt.Errorf("%w: answers is required", util.ErrValidation)
	}
	for i, a := range req.Answers {
		if a.QuestionID == "" {
			return nil, fmt.Errorf("%w: answers[%d].question_id is required", util.ErrValidation, i)
		}
	}

	def, err := s.loadForCourse(ctx, userID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if def.Type != model.LessonTypeStandardQuiz {
		return nil, util.ErrNotStandardQuiz
	}

	result := scoring.ScoreStandard(def.Questions, req.Answers)
	if skipped := countSkippedStandard(def.Questions, req.Answers); skipped > 0 {
		monitoring.SkippedAnswers.WithLabelValues(string(def.Type)).Add(float64(skipped))
		logger.Log.Debug("Skipped answers with unknown question ids",
			zap.Uint("userId", userID), zap.Uint("lessonId", lessonID), zap.Int("skipped", skipped))
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	percentage := result.Percentage
	record := &model.UserLesson{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
		Answers:   datatypes.JSON(answers),
		Score:     &percentage,
	}
	if err := s.Progress.Upsert(ctx, record, model.StandardQuizColumns); err != nil {
		monitoring.ObserveSubmission(string(def.Type), "store_error")
		logger.Log.Error("Failed to save quiz progress",
			zap.Uint("userId", userID), zap.Uint("lessonId", lessonID), zap.Error(err))
		return nil, fmt.Errorf("save progress: %w", err)
	}

	monitoring.ObserveSubmission(string(def.Type), "scored")
	monitoring.ScorePercentage.Observe(result.Percentage)
	s.refreshCompletion(ctx, userID, courseID)

	return &QuizResult{
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		Message:    fmt.Sprintf("You scored %g out of %g", result.Score, result.Total),
	}, nil
}

// SubmitPersonalityQuiz 性格测验评分，score 保持为空，结果写入 personality_scores
func (s *ClassroomService) SubmitPersonalityQuiz(ctx context.Context, userID, courseID, lessonID uint, req SubmitQuizRequest) (res *PersonalityResult, err error) {
	ctx, span := tracing.Start(ctx, "ClassroomService.SubmitPersonalityQuiz")
	defer func() { tracing.End(span, err) }()

	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", util.ErrValidation)
	}
	for i, a := range req.Answers {
		if a.QuestionID == "" {
			return nil, fmt.Errorf("%w: answers[%d].question_id is required", util.ErrValidation, i)
		}
		if a.SelectedOptionID == nil || *a.SelectedOptionID == "" {
			return nil, fmt.Errorf("%w: answers[%d].selected_option_id is required", util.ErrValidation, i)
		}
	}

	def, err := s.loadForCourse(ctx, userID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if def.Type != model.LessonTypePersonalityQuiz {
		return nil, util.ErrNotPersonalityQuiz
	}

	quiz := def.Personality
	profile := scoring.ScorePersonality(quiz.Traits, quiz.Questions, req.Answers)

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	scores, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	record := &model.UserLesson{
		UserID:            userID,
		LessonID:          lessonID,
		Completed:         true,
		Answers:           datatypes.JSON(answers),
		PersonalityScores: datatypes.JSON(scores),
	}
	if err := s.Progress.Upsert(ctx, record, model.PersonalityQuizColumns); err != nil {
		monitoring.ObserveSubmission(string(def.Type), "store_error")
		logger.Log.Error("Failed to save personality progress",
			zap.Uint("userId", userID), zap.Uint("lessonId", lessonID), zap.Error(err))
		return nil, fmt.Errorf("save progress: %w", err)
	}

	monitoring.ObserveSubmission(string(def.Type), "scored")
	s.refreshCompletion(ctx, userID, courseID)

	traits := quiz.Traits
	if traits == nil {
		traits = []scoring.Trait{}
	}
	return &PersonalityResult{
		PersonalityResults: profile,
		PersonalityTraits:  traits,
		Message:            "Personality quiz completed!",
	}, nil
}

// MarkComplete 普通课时标记完成，只更新 completed 字段
func (s *ClassroomService) MarkComplete(ctx context.Context, userID, courseID, lessonID uint) error {
	def, err := s.loadForCourse(ctx, userID, courseID, lessonID)
	if err != nil {
		return err
	}
	if def.Type != model.LessonTypeDefault {
		return util.ErrNotDefaultLesson
	}

	record := &model.UserLesson{UserID: userID, LessonID: lessonID, Completed: true}
	if err := s.Progress.Upsert(ctx, record, model.CompletionColumns); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	s.refreshCompletion(ctx, userID, courseID)
	return nil
}

// ShowLesson 返回学生视角的课时，未完成的标准测验不包含正确答案
func (s *ClassroomService) ShowLesson(ctx context.Context, userID, courseID, lessonID uint) (*LearnerLesson, error) {
	lesson, err := s.Lessons.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID || !lesson.IsPublished {
		return nil, util.ErrLessonNotFound
	}
	if err := s.ensureEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}

	progress, err := s.Progress.Find(ctx, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	view := *lesson
	view.ContentJSON = LearnerContent(lesson, progress != nil && progress.Completed)
	return &LearnerLesson{Lesson: view, Progress: progress}, nil
}

// CourseProgress 已发布课时的完成情况，全部完成时同时标记选课完成
func (s *ClassroomService) CourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	if err := s.ensureEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}

	progress, err := s.buildProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.syncCompletion(ctx, userID, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ClassroomService) buildProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	lessons, err := s.LessonRepo.ListPublishedByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	rows, err := s.Progress.ListByUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uint]model.UserLesson, len(rows))
	for _, r := range rows {
		byLesson[r.LessonID] = r
	}

	out := &CourseProgress{
		CourseID:     courseID,
		Lessons:      make([]LessonProgress, 0, len(lessons)),
		TotalLessons: len(lessons),
	}
	for _, l := range lessons {
		row, ok := byLesson[l.ID]
		lp := LessonProgress{LessonID: l.ID, Title: l.Title, Type: l.Type, Position: l.Position}
		if ok {
			lp.Completed = row.Completed
			lp.Score = row.Score
		}
		if lp.Completed {
			out.CompletedLessons++
		}
		if lp.Score != nil {
			out.TotalScore += *lp.Score
		}
		out.Lessons = append(out.Lessons, lp)
	}
	if out.TotalLessons > 0 {
		out.Progress = float64(out.CompletedLessons) / float64(out.TotalLessons) * 100
	}
	out.IsCompleted = out.TotalLessons > 0 && out.CompletedLessons == out.TotalLessons
	return out, nil
}

// syncCompletion 课程全部完成后把选课标记为完成，已完成的不会被撤销
func (s *ClassroomService) syncCompletion(ctx context.Context, userID uint, progress *CourseProgress) error {
	enrollment, err := s.Enrollments.Find(ctx, userID, progress.CourseID)
	if err != nil {
		return fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil
	}
	if enrollment.IsCompleted {
		progress.IsCompleted = true
		return nil
	}
	if !progress.IsCompleted {
		return nil
	}

	if err := s.Enrollments.SetCompleted(ctx, progress.CourseID, userID, true); err != nil {
		return fmt.Errorf("mark enrollment completed: %w", err)
	}
	logger.Log.Info("Course completed", zap.Uint("userId", userID), zap.Uint("courseId", progress.CourseID))
	return nil
}

// refreshCompletion 提交成功后调用，失败只记录日志，不影响已保存的成绩
func (s *ClassroomService) refreshCompletion(ctx context.Context, userID, courseID uint) {
	progress, err := s.buildProgress(ctx, userID, courseID)
	if err == nil {
		err = s.syncCompletion(ctx, userID, progress)
	}
	if err != nil {
		logger.Log.Warn("Failed to refresh course completion",
			zap.Uint("userId", userID), zap.Uint("courseId", courseID), zap.Error(err))
	}
}
