package routes

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillnexis/backend/config"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/store"
	"skillnexis/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app  *fiber.App
	data *services.AdminDataManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithMailer(t, nil)
}

// newTestEnvWithMailer uses a logging mailer when mailer is nil.
func newTestEnvWithMailer(t *testing.T, mailer services.Mailer) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		CORSOrigins:   "*",
		AdminEmail:    "admin@skillnexis.com",
		AdminPassword: "admin123",
	}
	logger := utils.DiscardLogger()
	st := store.NewMemoryStore()
	data := services.NewAdminDataManager(st, logger)
	if mailer == nil {
		mailer = &services.LogMailer{Logger: logger}
	}

	auth, err := services.NewAuthService(data, services.NewSessionStore(st), cfg.AdminEmail, cfg.AdminPassword, logger)
	require.NoError(t, err)

	practice, err := services.NewPracticeService(st, logger)
	require.NoError(t, err)

	svc := &Services{
		Data:     data,
		Auth:     auth,
		Progress: services.NewProgressService(data, logger, "SN"),
		Catalog:  services.NewCourseCatalog(data, st, logger),
		Contact: services.NewContactService(mailer, services.ContactConfig{
			FromName: "SkillNexis", FromEmail: "from@x.com", ContactEmail: "team@x.com",
		}, logger),
		Practice: practice,
	}
	return &testEnv{app: NewApp(cfg, svc, logger), data: data}
}

type response struct {
	Status int
	Body   map[string]interface{}
}

func (r response) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{Status: resp.StatusCode, Body: map[string]interface{}{}}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)
	token, _ := resp.Body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Jane", "email": "jane@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	assert.Equal(t, "/dashboard", resp.Body["redirect"])

	again := env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Jane", "email": "jane@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, again.Status)

	token := env.login(t, "jane@x.com", "anything")
	me := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Status)
	assert.Equal(t, "jane@x.com", me.data()["email"])
	assert.Equal(t, "Jane", me.data()["name"])

	out := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, "/", out.Body["redirect"])

	after := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, after.Status)
}

func TestLoginValidationAndAdminPassword(t *testing.T) {
	env := newTestEnv(t)

	bad := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "bad", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, bad.Status)
	assert.Equal(t, "Please enter a valid email address", bad.Body["message"])

	wrong := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@skillnexis.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Status)

	admin := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@skillnexis.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, admin.Status)
	assert.Equal(t, "/admin", admin.Body["redirect"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/admin/stats", "", nil).Status)

	student := env.login(t, "jane@x.com", "pw")
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/admin/stats", student, nil).Status)

	admin := env.login(t, "admin@skillnexis.com", "admin123")
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/admin/stats", admin, nil).Status)

	created := env.do(t, http.MethodPost, "/api/admin/users", admin, fiber.Map{"name": "Ops", "email": "ops@x.com", "role": "admin"})
	require.Equal(t, http.StatusCreated, created.Status, created.Body)
	ops := env.login(t, "ops@x.com", "not-the-admin-password")
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/admin/stats", ops, nil).Status)
}

func TestAdminCourseAndQuizManagement(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@skillnexis.com", "admin123")

	created := env.do(t, http.MethodPost, "/api/admin/courses", admin, fiber.Map{
		"title": "Go Basics", "category": "Programming", "description": "Learn Go",
	})
	require.Equal(t, http.StatusCreated, created.Status, created.Body)
	courseID, _ := created.data()["id"].(string)
	require.NotEmpty(t, courseID)
	assert.Equal(t, "go-basics", created.data()["slug"])

	dup := env.do(t, http.MethodPost, "/api/admin/courses", admin, fiber.Map{
		"title": "Go Basics", "category": "Programming",
	})
	assert.Equal(t, http.StatusConflict, dup.Status)

	invalid := env.do(t, http.MethodPost, "/api/admin/courses", admin, fiber.Map{
		"title": "Cooking", "category": "Cooking",
	})
	assert.Equal(t, http.StatusBadRequest, invalid.Status)

	quiz := env.do(t, http.MethodPost, "/api/admin/quizzes", admin, fiber.Map{
		"courseSlug": "go-basics",
		"questions": []fiber.Map{{
			"question": "Which keyword starts a goroutine?", "options": []string{"go", "async", "spawn", "run"},
			"correctAnswer": 0, "explanation": "go f() starts a goroutine",
		}},
	})
	require.Equal(t, http.StatusCreated, quiz.Status, quiz.Body)

	renamed := env.do(t, http.MethodPut, "/api/admin/courses/"+courseID, admin, fiber.Map{"slug": "golang"})
	require.Equal(t, http.StatusOK, renamed.Status, renamed.Body)
	assert.Equal(t, "golang", renamed.data()["slug"])

	_, ok := env.data.GetQuiz(context.Background(), "golang")
	assert.True(t, ok)

	stats := env.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, stats.Status)
	assert.EqualValues(t, 1, stats.data()["totalCourses"])
	assert.EqualValues(t, 1, stats.data()["totalQuizzes"])

	refreshed := env.do(t, http.MethodPost, "/api/admin/stats/refresh", admin, nil)
	require.Equal(t, http.StatusOK, refreshed.Status)
	assert.Equal(t, "Stats refreshed", refreshed.Body["message"])
	assert.EqualValues(t, 1, refreshed.data()["totalCourses"])

	deleted := env.do(t, http.MethodDelete, "/api/admin/courses/"+courseID, admin, nil)
	assert.Equal(t, http.StatusNoContent, deleted.Status)
	assert.Empty(t, env.data.GetQuizzes(context.Background()))

	missing := env.do(t, http.MethodDelete, "/api/admin/courses/"+courseID, admin, nil)
	assert.Equal(t, http.StatusNoContent, missing.Status)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@skillnexis.com", "admin123")
	ctx := context.Background()

	course, err := env.data.AddCourse(ctx, models.CourseInput{Title: "Go Basics", Category: models.CategoryProgramming})
	require.NoError(t, err)

	created := env.do(t, http.MethodPost, "/api/admin/users", admin, fiber.Map{"name": "John", "email": "john@x.com"})
	require.Equal(t, http.StatusCreated, created.Status, created.Body)
	userID, _ := created.data()["id"].(string)

	enrolled := env.do(t, http.MethodPost, "/api/admin/users/"+userID+"/enroll/"+course.ID, admin, nil)
	require.Equal(t, http.StatusOK, enrolled.Status)

	completed := env.do(t, http.MethodPost, "/api/admin/users/"+userID+"/complete/"+course.ID, admin, nil)
	require.Equal(t, http.StatusOK, completed.Status)
	assert.Equal(t, []interface{}{course.ID}, completed.data()["certificates"])

	unknown := env.do(t, http.MethodPost, "/api/admin/users/nope/enroll/"+course.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, unknown.Status)

	updated := env.do(t, http.MethodPut, "/api/admin/users/"+userID, admin, fiber.Map{"name": "John Smith"})
	require.Equal(t, http.StatusOK, updated.Status)
	assert.Equal(t, "John Smith", updated.data()["name"])

	list := env.do(t, http.MethodGet, "/api/admin/users?q=smith", admin, nil)
	require.Equal(t, http.StatusOK, list.Status)
	users, _ := list.Body["data"].([]interface{})
	assert.Len(t, users, 1)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/admin/users/"+userID, admin, nil).Status)
	assert.Empty(t, env.data.GetUsers(ctx))
}

func TestStudentCourseFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course, err := env.data.AddCourse(ctx, models.CourseInput{Title: "Go Basics", Category: models.CategoryProgramming})
	require.NoError(t, err)
	_, err = env.data.AddQuiz(ctx, models.QuizInput{CourseSlug: course.Slug, Questions: []models.Question{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
	}})
	require.NoError(t, err)

	token := env.login(t, "jane@x.com", "pw")
	base := "/api/courses/" + course.Slug

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/enroll", token, nil).Status)

	denied := env.do(t, http.MethodGet, "/api/quizzes/"+course.Slug, token, nil)
	require.Equal(t, http.StatusForbidden, denied.Status)
	assert.Equal(t, "/courses/"+course.Slug, denied.Body["redirect"])

	video := env.do(t, http.MethodPost, base+"/video", token, nil)
	require.Equal(t, http.StatusOK, video.Status)
	assert.EqualValues(t, 33, video.data()["progress"])

	quiz := env.do(t, http.MethodGet, "/api/quizzes/"+course.Slug, token, nil)
	require.Equal(t, http.StatusOK, quiz.Status)
	assert.EqualValues(t, 600, quiz.data()["timeLimitSeconds"])
	questions, _ := quiz.data()["questions"].([]interface{})
	require.Len(t, questions, 2)
	first, _ := questions[0].(map[string]interface{})
	assert.NotContains(t, first, "correctAnswer")

	earlyAssessment := env.do(t, http.MethodPost, "/api/assessments/"+course.Slug, token, fiber.Map{"recordingUrl": "blob:x"})
	require.Equal(t, http.StatusForbidden, earlyAssessment.Status)
	assert.Equal(t, "/quiz/"+course.Slug, earlyAssessment.Body["redirect"])

	result := env.do(t, http.MethodPost, "/api/quizzes/"+course.Slug+"/submit", token, fiber.Map{"answers": []int{0, 1}})
	require.Equal(t, http.StatusOK, result.Status, result.Body)
	assert.Equal(t, true, result.data()["passed"])
	assert.EqualValues(t, 66, result.data()["progress"])

	cert := env.do(t, http.MethodPost, "/api/assessments/"+course.Slug, token, fiber.Map{"recordingUrl": "blob:x", "durationSeconds": 60})
	require.Equal(t, http.StatusOK, cert.Status, cert.Body)
	userID, _ := cert.data()["userId"].(string)
	assert.Equal(t, services.CertificateID("SN", course.ID, userID), cert.data()["id"])

	certs := env.do(t, http.MethodGet, "/api/certificates", token, nil)
	require.Equal(t, http.StatusOK, certs.Status)
	list, _ := certs.Body["data"].([]interface{})
	assert.Len(t, list, 1)

	overview := env.do(t, http.MethodGet, "/api/progress", token, nil)
	require.Equal(t, http.StatusOK, overview.Status)
	assert.EqualValues(t, 100, overview.data()["averageProgress"])

	state := env.do(t, http.MethodGet, "/api/progress/"+course.Slug, token, nil)
	require.Equal(t, http.StatusOK, state.Status)
	assert.Equal(t, string(models.StateCompleted), state.data()["state"])
}

func TestPublicCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.data.AddCourse(ctx, models.CourseInput{Title: "Go Basics", Category: models.CategoryProgramming})
	require.NoError(t, err)
	_, err = env.data.AddCourse(ctx, models.CourseInput{Title: "Flutter", Category: models.CategoryMobile})
	require.NoError(t, err)

	all := env.do(t, http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, all.Status)
	courses, _ := all.Body["data"].([]interface{})
	assert.Len(t, courses, 2)

	mobile := env.do(t, http.MethodGet, "/api/courses?category=Mobile", "", nil)
	require.Equal(t, http.StatusOK, mobile.Status)
	courses, _ = mobile.Body["data"].([]interface{})
	assert.Len(t, courses, 1)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/courses?category=Cooking", "", nil).Status)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/courses/flutter", "", nil).Status)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/courses/nope", "", nil).Status)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/courses/flutter/enroll", "", nil).Status)
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)

	invalid := env.do(t, http.MethodPost, "/api/contact", "", fiber.Map{"name": "Jane", "email": "jane", "subject": "Hi", "message": "Hello"})
	assert.Equal(t, http.StatusBadRequest, invalid.Status)
	assert.Equal(t, "Invalid email format", invalid.Body["message"])
	assert.Equal(t, "Bad Request", invalid.Body["error"])
	assert.Equal(t, false, invalid.Body["success"])

	missing := env.do(t, http.MethodPost, "/api/contact", "", fiber.Map{"name": "Jane", "email": "jane@x.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Status)
	assert.Equal(t, "All fields are required", missing.Body["message"])

	ok := env.do(t, http.MethodPost, "/api/contact", "", fiber.Map{"name": "Jane", "email": "jane@x.com", "subject": "Hi", "message": "Hello"})
	require.Equal(t, http.StatusOK, ok.Status)
	assert.Equal(t, "Email sent successfully", ok.Body["message"])
	assert.NotEmpty(t, ok.Body["messageId"])
}

func TestOverviewSearchAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goCourse, err := env.data.AddCourse(ctx, models.CourseInput{Title: "Go Basics", Description: "Goroutines and channels", Category: models.CategoryProgramming})
	require.NoError(t, err)
	_, err = env.data.AddCourse(ctx, models.CourseInput{Title: "Rust", Category: models.CategoryProgramming})
	require.NoError(t, err)
	_, err = env.data.AddCourse(ctx, models.CourseInput{Title: "Flutter", Category: models.CategoryMobile})
	require.NoError(t, err)

	search := env.do(t, http.MethodGet, "/api/overview/courses?search=CHANNELS", "", nil)
	require.Equal(t, http.StatusOK, search.Status)
	found, _ := search.Body["data"].([]interface{})
	require.Len(t, found, 1)
	assert.Equal(t, goCourse.Slug, found[0].(map[string]interface{})["slug"])

	sorted := env.do(t, http.MethodGet, "/api/overview/courses?sort=title", "", nil)
	require.Equal(t, http.StatusOK, sorted.Status)
	found, _ = sorted.Body["data"].([]interface{})
	require.Len(t, found, 3)
	assert.Equal(t, "flutter", found[0].(map[string]interface{})["slug"])

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/overview/courses?sort=random", "", nil).Status)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/overview", "", nil).Status)

	token := env.login(t, "jane@x.com", "pw")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/courses/"+goCourse.Slug+"/enroll", token, nil).Status)

	dashboard := env.do(t, http.MethodGet, "/api/overview", token, nil)
	require.Equal(t, http.StatusOK, dashboard.Status, dashboard.Body)
	active, _ := dashboard.data()["activeCourses"].([]interface{})
	assert.Len(t, active, 1)
	recs, _ := dashboard.data()["recommendations"].([]interface{})
	require.Len(t, recs, 2)
	assert.Equal(t, "rust", recs[0].(map[string]interface{})["slug"])
}

type downMailer struct{}

func (downMailer) Send(ctx context.Context, email services.Email) (string, error) {
	return "", &services.UpstreamError{Status: http.StatusBadGateway, Body: "down"}
}

func TestContactUpstreamFailure(t *testing.T) {
	env := newTestEnvWithMailer(t, downMailer{})

	resp := env.do(t, http.MethodPost, "/api/contact", "", fiber.Map{"name": "Jane", "email": "jane@x.com", "subject": "Hi", "message": "Hello"})
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "Internal Server Error", resp.Body["error"])
	assert.Equal(t, "Failed to send email. Please try again later.", resp.Body["message"])
	assert.Equal(t, false, resp.Body["success"])
}

func TestPracticeDraftsAndChecks(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/practice", "", nil).Status)

	token := env.login(t, "jane@x.com", "pw")
	list := env.do(t, http.MethodGet, "/api/practice", token, nil)
	require.Equal(t, http.StatusOK, list.Status)
	challenges, _ := list.Body["data"].([]interface{})
	assert.Len(t, challenges, 4)

	saved := env.do(t, http.MethodPut, "/api/practice/3/draft", token, fiber.Map{"code": "console.log('olleh')"})
	require.Equal(t, http.StatusOK, saved.Status, saved.Body)

	got := env.do(t, http.MethodGet, "/api/practice/3", token, nil)
	require.Equal(t, http.StatusOK, got.Status)
	draft, _ := got.data()["draft"].(map[string]interface{})
	assert.Equal(t, "console.log('olleh')", draft["code"])
	assert.Equal(t, true, draft["saved"])

	other := env.login(t, "john@x.com", "pw")
	theirs := env.do(t, http.MethodGet, "/api/practice/3", other, nil)
	require.Equal(t, http.StatusOK, theirs.Status)
	draft, _ = theirs.data()["draft"].(map[string]interface{})
	assert.Equal(t, false, draft["saved"])

	passed := env.do(t, http.MethodPost, "/api/practice/3/check", token, fiber.Map{"output": " olleh\n"})
	require.Equal(t, http.StatusOK, passed.Status)
	assert.Equal(t, true, passed.data()["passed"])

	failed := env.do(t, http.MethodPost, "/api/practice/3/check", token, fiber.Map{"output": "hello"})
	require.Equal(t, http.StatusOK, failed.Status)
	assert.Equal(t, false, failed.data()["passed"])

	reset := env.do(t, http.MethodDelete, "/api/practice/3/draft", token, nil)
	require.Equal(t, http.StatusOK, reset.Status)
	assert.Equal(t, false, reset.data()["saved"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/practice/99", token, nil).Status)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/practice/abc", token, nil).Status)

	malformed := env.do(t, http.MethodPut, "/api/practice/3/draft", token, "not an object")
	assert.Equal(t, http.StatusBadRequest, malformed.Status)
	assert.Equal(t, "Cannot parse JSON", malformed.Body["message"])
	got = env.do(t, http.MethodGet, "/api/practice/3", token, nil)
	draft, _ = got.data()["draft"].(map[string]interface{})
	assert.Equal(t, false, draft["saved"])

	unknown := env.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, unknown.Status)
	assert.Equal(t, false, unknown.Body["success"])
}
