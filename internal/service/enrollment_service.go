package service

import (
	"bytes"
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/tracing"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeaderboardEntry struct {
	Rank         int              `json:"rank"`
	UserID       uint             `json:"userId"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	TotalScore   float64          `json:"totalScore"`
	LessonScores map[uint]float64 `json:"lessonScores"`
}

type Leaderboard struct {
	CourseID uint               `json:"courseId"`
	Entries  []LeaderboardEntry `json:"entries"`
}

type ExportResult struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Entries int    `json:"entries"`
}

// EnrollmentService 选课，以及教师侧的排行榜、进度重置和导出
type EnrollmentService struct {
	Users       *repository.UserRepository
	Courses     *repository.CourseRepository
	Lessons     *repository.LessonRepository
	Enrollments *repository.EnrollmentRepository
	Progress    *repository.UserLessonRepository
	Storage     *StorageService
}

func NewEnrollmentService(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	lessons *repository.LessonRepository,
	enrollments *repository.EnrollmentRepository,
	progress *repository.UserLessonRepository,
	storage *StorageService,
) *EnrollmentService {
	return &EnrollmentService{
		Users:       users,
		Courses:     courses,
		Lessons:     lessons,
		Enrollments: enrollments,
		Progress:    progress,
		Storage:     storage,
	}
}

func (s *EnrollmentService) findCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return course, nil
}

// Enroll 只能选已发布课程，重复选课不报错，返回是否新建
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (bool, error) {
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	if !course.IsPublished {
		return false, util.ErrCourseNotPublished
	}
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrUserNotFound
		}
		return false, fmt.Errorf("load user %d: %w", userID, err)
	}

	created, err := s.Enrollments.Enroll(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("enroll: %w", err)
	}
	if created {
		logger.Log.Info("User enrolled", zap.Uint("userId", userID), zap.Uint("courseId", courseID))
	}
	return created, nil
}

// Leaderboard 按标准测验总分降序排列，同分按用户 id 升序
func (s *EnrollmentService) Leaderboard(ctx context.Context, courseID uint) (board *Leaderboard, err error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.Leaderboard")
	defer func() { tracing.End(span, err) }()

	if _, err := s.findCourse(ctx, courseID); err != nil {
		return nil, err
	}

	students, err := s.Enrollments.ListStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessonIDs, err := s.Lessons.ListIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Progress.ListByLessons(ctx, lessonIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*LeaderboardEntry, len(students))
	entries := make([]*LeaderboardEntry, 0, len(students))
	for _, u := range students {
		e := &LeaderboardEntry{UserID: u.ID, Name: u.Name, Email: u.Email, LessonScores: map[uint]float64{}}
		byUser[u.ID] = e
		entries = append(entries, e)
	}
	for _, r := range rows {
		e, ok := byUser[r.UserID]
		if !ok || r.Score == nil {
			continue
		}
		e.LessonScores[r.LessonID] = *r.Score
		e.TotalScore += *r.Score
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})

	board = &Leaderboard{CourseID: courseID, Entries: make([]LeaderboardEntry, len(entries))}
	for i, e := range entries {
		e.Rank = i + 1
		board.Entries[i] = *e
	}
	return board, nil
}

// ResetProgress 删除课程下的进度记录并清除完成标记，userID 为 0 时重置所有学生
func (s *EnrollmentService) ResetProgress(ctx context.Context, courseID, userID uint) (int64, error) {
	if _, err := s.findCourse(ctx, courseID); err != nil {
		return 0, err
	}
	lessonIDs, err := s.Lessons.ListIDsByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}

	n, err := s.Progress.DeleteByLessons(ctx, lessonIDs, userID)
	if err != nil {
		return 0, fmt.Errorf("reset progress: %w", err)
	}
	if err := s.Enrollments.SetCompleted(ctx, courseID, userID, false); err != nil {
		return 0, fmt.Errorf("reset completion: %w", err)
	}
	logger.Log.Info("Course progress reset",
		zap.Uint("courseId", courseID), zap.Uint("userId", userID), zap.Int64("rows", n))
	return n, nil
}

func renderLeaderboardCSV(board *Leaderboard) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Rank", "UserID", "Name", "Email", "TotalScore"}); err != nil {
		return nil, err
	}
	for _, e := range board.Entries {
		record := []string{
			strconv.Itoa(e.Rank),
			strconv.FormatUint(uint64(e.UserID), 10),
			e.Name,
			e.Email,
			strconv.FormatFloat(e.TotalScore, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportLeaderboard 生成 CSV 并上传到配置的存储
func (s *EnrollmentService) ExportLeaderboard(ctx context.Context, courseID uint) (*ExportResult, error) {
	board, err := s.Leaderboard(ctx, courseID)
	if err != nil {
		return nil, err
	}
	data, err := renderLeaderboardCSV(board)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/course-%d/leaderboard-%s-%s.csv",
		courseID, time.Now().Format("20060102150405"), uuid.NewString()[:8])
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), util.MimeCSV)
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	return &ExportResult{URL: url, Key: key, Entries: len(board.Entries)}, nil
}
