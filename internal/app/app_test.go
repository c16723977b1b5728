package app

import (
	"bytes"
	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/internal/testutil"
	"classroom_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const testSecret = "app-test-secret"

type testEnv struct {
	app         *App
	storage     string
	student     string
	other       string
	teacher     string
	course      model.Course
	standard    model.Lesson
	personality model.Lesson
	reading     model.Lesson
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	storage := t.TempDir()

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test"},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: storage},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	a, err := New(cfg, db, nil)
	require.NoError(t, err)

	users := []*model.User{
		{Name: "Student", Email: "student@example.com", Role: model.Student},
		{Name: "Other", Email: "other@example.com", Role: model.Student},
		{Name: "Teacher", Email: "teacher@example.com", Role: model.Teacher},
	}
	tokens := make([]string, len(users))
	for i, u := range users {
		require.NoError(t, db.Create(u).Error)
		tokens[i], err = util.GenerateJWT(u, testSecret, time.Hour)
		require.NoError(t, err)
	}

	env := &testEnv{app: a, storage: storage, student: tokens[0], other: tokens[1], teacher: tokens[2]}
	env.course = model.Course{Title: "Go 101", IsPublished: true}
	require.NoError(t, db.Create(&env.course).Error)

	env.standard = model.Lesson{CourseID: env.course.ID, Title: "Quiz", Type: model.LessonTypeStandardQuiz, IsPublished: true, Position: 1,
		ContentJSON: datatypes.JSON(`[{"id":"q1","type":"single_choice","options":[{"id":"a"},{"id":"b"}],"correct_option":"a"}]`)}
	env.personality = model.Lesson{CourseID: env.course.ID, Title: "Traits", Type: model.LessonTypePersonalityQuiz, IsPublished: true, Position: 2,
		ContentJSON: datatypes.JSON(`{"traits":[{"id":"T1","name":"One"}],"questions":[{"id":"p1","options":[{"id":"o1","scores":{"T1":"80"}}]}]}`)}
	env.reading = model.Lesson{CourseID: env.course.ID, Title: "Read", Type: model.LessonTypeDefault, IsPublished: true, Position: 3}
	for _, l := range []*model.Lesson{&env.standard, &env.personality, &env.reading} {
		require.NoError(t, db.Create(l).Error)
	}
	return env
}

func (e *testEnv) call(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func (e *testEnv) lessonPath(lesson model.Lesson, action string) string {
	p := "/api/classroom/courses/" + itoa(e.course.ID) + "/lessons/" + itoa(lesson.ID)
	if action != "" {
		p += "/" + action
	}
	return p
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func quizBody(pairs ...string) map[string]interface{} {
	answers := make([]map[string]interface{}, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		answers = append(answers, map[string]interface{}{"question_id": pairs[i], "selected_option_id": pairs[i+1]})
	}
	return map[string]interface{}{"answers": answers}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.call(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"database":"up"`)
}

func TestEnrollAndSubmitQuiz(t *testing.T) {
	env := newTestEnv(t)
	enrollPath := "/api/courses/" + itoa(env.course.ID) + "/enroll"

	code, _ := env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-quiz"), "", quizBody("q1", "a"))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-quiz"), env.student, quizBody("q1", "a"))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.call(t, http.MethodPost, enrollPath, env.student, nil)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = env.call(t, http.MethodPost, enrollPath, env.student, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp := env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-quiz"), env.student, quizBody("q1", "a"))
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"score":1,"total":1,"percentage":100,"message":"You scored 1 out of 1"}`, string(resp.Data))

	code, _ = env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-quiz"), env.student, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-personality-quiz"), env.student, quizBody("q1", "a"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	wrongCourse := "/api/classroom/courses/" + itoa(env.course.ID+1) + "/lessons/" + itoa(env.standard.ID) + "/answer-quiz"
	code, _ = env.call(t, http.MethodPatch, wrongCourse, env.student, quizBody("q1", "a"))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmitPersonalityQuizAndProgress(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.call(t, http.MethodPost, "/api/courses/"+itoa(env.course.ID)+"/enroll", env.student, nil)
	require.Equal(t, http.StatusCreated, code)

	code, resp := env.call(t, http.MethodPatch, env.lessonPath(env.personality, "answer-personality-quiz"), env.student, quizBody("p1", "o1"))
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"personality_results":{"T1":80}`)
	assert.Contains(t, string(resp.Data), `"message":"Personality quiz completed!"`)

	code, _ = env.call(t, http.MethodPatch, env.lessonPath(env.reading, "complete"), env.student, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = env.call(t, http.MethodGet, "/api/classroom/courses/"+itoa(env.course.ID)+"/progress", env.student, nil)
	require.Equal(t, http.StatusOK, code)
	var progress struct {
		CompletedLessons int `json:"completedLessons"`
		TotalLessons     int `json:"totalLessons"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &progress))
	assert.Equal(t, 2, progress.CompletedLessons)
	assert.Equal(t, 3, progress.TotalLessons)

	code, resp = env.call(t, http.MethodGet, env.lessonPath(env.standard, ""), env.student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(resp.Data), "correct_option")
}

func TestTeacherRoutes(t *testing.T) {
	env := newTestEnv(t)
	base := "/api/teacher/courses/" + itoa(env.course.ID)

	code, _ := env.call(t, http.MethodPost, "/api/courses/"+itoa(env.course.ID)+"/enroll", env.student, nil)
	require.Equal(t, http.StatusCreated, code)
	code, _ = env.call(t, http.MethodPatch, env.lessonPath(env.standard, "answer-quiz"), env.student, quizBody("q1", "a"))
	require.Equal(t, http.StatusOK, code)

	code, _ = env.call(t, http.MethodGet, base+"/leaderboard", env.student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := env.call(t, http.MethodGet, base+"/leaderboard", env.teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"totalScore":100`)

	code, resp = env.call(t, http.MethodPost, base+"/leaderboard/export", env.teacher, nil)
	require.Equal(t, http.StatusCreated, code)
	var export struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &export))
	csv, err := os.ReadFile(filepath.Join(env.storage, filepath.FromSlash(export.Key)))
	require.NoError(t, err)
	assert.Contains(t, string(csv), "student@example.com,100")

	code, _ = env.call(t, http.MethodPost, base+"/lessons", env.teacher, map[string]interface{}{
		"title": "Broken", "type": "standard_quiz", "contentJson": []map[string]interface{}{{"id": "q", "type": "single_choice", "correct_option": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.call(t, http.MethodDelete, base+"/progress/"+itoa(1), env.teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"deleted":1}`, string(resp.Data))
}
