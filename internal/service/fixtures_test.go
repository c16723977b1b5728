package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/scoring"
	"classroom_backend/internal/testutil"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const standardDoc = `[
	{"id":"q1","text":"2+2?","type":"single_choice","options":[{"id":"a","text":"4"},{"id":"b","text":"5"}],"correct_option":"a"},
	{"id":"q2","text":"3+3?","type":"single_choice","options":[{"id":"a","text":"5"},{"id":"b","text":"6"}],"correct_option":"b"}
]`

const personalityDoc = `{
	"traits":[{"id":"T1","name":"Openness","description":""},{"id":"T2","name":"Focus","description":""}],
	"questions":[
		{"id":"p1","text":"?","options":[{"id":"o1","text":"x","scores":{"T1":100}}]},
		{"id":"p2","text":"?","options":[{"id":"o1","text":"y","scores":{"T1":0,"T2":50}}]}
	]
}`

type fixture struct {
	db          *gorm.DB
	student     *model.User
	other       *model.User
	course      *model.Course
	standard    *model.Lesson
	personality *model.Lesson
	reading     *model.Lesson
	classroom   *ClassroomService
	lessons     *LessonService
	enrollment  *EnrollmentService
	progress    *repository.UserLessonRepository
}

func newFixture(t *testing.T, cache DefinitionCache) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	progress := repository.NewUserLessonRepository(db)

	f := &fixture{db: db, progress: progress}
	f.lessons = NewLessonService(lessonRepo, courses, cache)
	f.classroom = NewClassroomService(f.lessons, lessonRepo, progress, enrollments)
	f.enrollment = NewEnrollmentService(users, courses, lessonRepo, enrollments, progress,
		&StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}})

	f.student = &model.User{Name: "Student", Email: "student@example.com", Role: model.Student}
	f.other = &model.User{Name: "Other", Email: "other@example.com", Role: model.Student}
	require.NoError(t, users.Create(ctx, f.student))
	require.NoError(t, users.Create(ctx, f.other))

	f.course = &model.Course{Title: "Go 101", IsPublished: true}
	require.NoError(t, courses.Create(ctx, f.course))

	f.standard = &model.Lesson{CourseID: f.course.ID, Title: "Quiz", Type: model.LessonTypeStandardQuiz,
		ContentJSON: datatypes.JSON(standardDoc), Position: 2, IsPublished: true}
	f.personality = &model.Lesson{CourseID: f.course.ID, Title: "Who are you", Type: model.LessonTypePersonalityQuiz,
		ContentJSON: datatypes.JSON(personalityDoc), Position: 3, IsPublished: true}
	f.reading = &model.Lesson{CourseID: f.course.ID, Title: "Intro", Type: model.LessonTypeDefault,
		Content: "hello", Position: 1, IsPublished: true}
	for _, l := range []*model.Lesson{f.standard, f.personality, f.reading} {
		require.NoError(t, f.lessons.SaveLesson(ctx, l))
	}

	_, err := enrollments.Enroll(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	return f
}

func sel(id string) *string { return &id }

func answers(pairs ...string) []scoring.Answer {
	out := make([]scoring.Answer, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, scoring.Answer{QuestionID: pairs[i], SelectedOptionID: sel(pairs[i+1])})
	}
	return out
}

type memoryCache struct {
	mu   sync.Mutex
	defs map[uint]Definition
	hits int
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{defs: map[uint]Definition{}}
}

func (c *memoryCache) Get(ctx context.Context, lessonID uint) (*Definition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.defs[lessonID]
	if !ok {
		return nil, nil
	}
	c.hits++
	return &def, nil
}

func (c *memoryCache) Set(ctx context.Context, def *Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.defs[def.LessonID] = *def
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, lessonID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.defs, lessonID)
	return nil
}
