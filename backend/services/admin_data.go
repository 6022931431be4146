package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"skillnexis/backend/models"
	"skillnexis/backend/store"

	"github.com/google/uuid"
)

// AdminDataManager owns the users, courses, quizzes and stats collections.
//
// Reads fail soft: a missing or unreadable collection is logged and reported
// as empty. Writes load every collection strictly, apply the change and
// commit the touched collections together with recomputed stats in a single
// SetMany, so a failed read never overwrites stored data.
type AdminDataManager struct {
	store  store.Store
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location

	mu     sync.Mutex
	lastID int64
}

type ManagerOption func(*AdminDataManager)

// WithClock replaces the wall clock used for timestamps, ids and stats.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *AdminDataManager) {
		m.now = now
	}
}

// WithStatsLocation sets the timezone in which "this month" is evaluated.
func WithStatsLocation(loc *time.Location) ManagerOption {
	return func(m *AdminDataManager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func NewAdminDataManager(s store.Store, logger *log.Logger, opts ...ManagerOption) *AdminDataManager {
	m := &AdminDataManager{
		store:  s,
		logger: logger,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type dataset struct {
	users   []models.User
	courses []models.Course
	quizzes []models.Quiz
}

func loadList[T any](ctx context.Context, s store.Store, key string) ([]T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var out []T
	if err := store.Decode(data, &out); err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (m *AdminDataManager) loadUsers(ctx context.Context) ([]models.User, error) {
	users, err := loadList[models.User](ctx, m.store, store.UsersKey)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

func (m *AdminDataManager) loadCourses(ctx context.Context) ([]models.Course, error) {
	return loadList[models.Course](ctx, m.store, store.CoursesKey)
}

func (m *AdminDataManager) loadQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return loadList[models.Quiz](ctx, m.store, store.QuizzesKey)
}

func (m *AdminDataManager) load(ctx context.Context) (*dataset, error) {
	users, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := m.loadCourses(ctx)
	if err != nil {
		return nil, err
	}
	quizzes, err := m.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	return &dataset{users: users, courses: courses, quizzes: quizzes}, nil
}

// commit writes the touched collections and the recomputed stats atomically.
func (m *AdminDataManager) commit(ctx context.Context, ds *dataset, touched ...string) error {
	entries := make(map[string][]byte, len(touched)+1)
	for _, key := range touched {
		var value any
		switch key {
		case store.UsersKey:
			value = ds.users
		case store.CoursesKey:
			value = ds.courses
		case store.QuizzesKey:
			value = ds.quizzes
		default:
			return fmt.Errorf("unknown collection %q", key)
		}
		data, err := store.Encode(value)
		if err != nil {
			return err
		}
		entries[key] = data
	}

	stats := CalculateStats(ds.users, ds.courses, ds.quizzes, m.now(), m.loc)
	data, err := store.Encode(stats)
	if err != nil {
		return err
	}
	entries[store.StatsKey] = data

	if err := m.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("commit %s: %w", strings.Join(touched, ","), err)
	}
	return nil
}

// update runs fn against a freshly loaded dataset under the write lock. fn
// returns the collections it changed; none means nothing is written.
func (m *AdminDataManager) update(ctx context.Context, fn func(ds *dataset) ([]string, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds, err := m.load(ctx)
	if err != nil {
		return err
	}
	touched, err := fn(ds)
	if err != nil {
		return err
	}
	if len(touched) == 0 {
		return nil
	}
	return m.commit(ctx, ds, touched...)
}

// nextCourseID returns a strictly increasing millisecond timestamp that is
// not yet taken by any course. Callers hold m.mu.
func (m *AdminDataManager) nextCourseID(courses []models.Course) string {
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	for courseIndexByID(courses, strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	m.lastID = id
	return strconv.FormatInt(id, 10)
}

func userIndexByID(users []models.User, id string) int {
	return slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
}

func userIndexByEmail(users []models.User, email string) int {
	email = normalizeEmail(email)
	return slices.IndexFunc(users, func(u models.User) bool { return normalizeEmail(u.Email) == email })
}

func courseIndexByID(courses []models.Course, id string) int {
	return slices.IndexFunc(courses, func(c models.Course) bool { return c.ID == id })
}

func courseIndexBySlug(courses []models.Course, slug string) int {
	return slices.IndexFunc(courses, func(c models.Course) bool { return c.Slug == slug })
}

func quizIndexBySlug(quizzes []models.Quiz, slug string) int {
	return slices.IndexFunc(quizzes, func(q models.Quiz) bool { return q.CourseSlug == slug })
}

// GetUsers returns every stored user, or an empty list when the collection
// cannot be read.
func (m *AdminDataManager) GetUsers(ctx context.Context) []models.User {
	users, err := m.loadUsers(ctx)
	if err != nil {
		m.logger.Printf("[ADMIN] Error reading users: %v", err)
		return []models.User{}
	}
	return users
}

func (m *AdminDataManager) GetCourses(ctx context.Context) []models.Course {
	courses, err := m.loadCourses(ctx)
	if err != nil {
		m.logger.Printf("[ADMIN] Error reading courses: %v", err)
		return []models.Course{}
	}
	return courses
}

// LoadCourses is the strict variant of GetCourses for callers that fall back
// to their own data on failure.
func (m *AdminDataManager) LoadCourses(ctx context.Context) ([]models.Course, error) {
	return m.loadCourses(ctx)
}

func (m *AdminDataManager) GetQuizzes(ctx context.Context) []models.Quiz {
	quizzes, err := m.loadQuizzes(ctx)
	if err != nil {
		m.logger.Printf("[ADMIN] Error reading quizzes: %v", err)
		return []models.Quiz{}
	}
	return quizzes
}

// GetStats returns the stored stats. When none are stored they are computed
// from the current collections and persisted.
func (m *AdminDataManager) GetStats(ctx context.Context) models.Stats {
	data, err := m.store.Get(ctx, store.StatsKey)
	if err == nil {
		var stats models.Stats
		if err := store.Decode(data, &stats); err == nil {
			return stats
		}
		m.logger.Printf("[ADMIN] Stored stats are unreadable, recomputing")
	} else if !errors.Is(err, store.ErrNotFound) {
		m.logger.Printf("[ADMIN] Error reading stats: %v", err)
	}

	stats, err := m.RefreshStats(ctx)
	if err != nil {
		m.logger.Printf("[ADMIN] Error refreshing stats: %v", err)
		return CalculateStats(m.GetUsers(ctx), m.GetCourses(ctx), m.GetQuizzes(ctx), m.now(), m.loc)
	}
	return stats
}

// RefreshStats recomputes the stats from the stored collections and persists them.
func (m *AdminDataManager) RefreshStats(ctx context.Context) (models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds, err := m.load(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	stats := CalculateStats(ds.users, ds.courses, ds.quizzes, m.now(), m.loc)
	data, err := store.Encode(stats)
	if err != nil {
		return models.Stats{}, err
	}
	if err := m.store.Set(ctx, store.StatsKey, data); err != nil {
		return models.Stats{}, fmt.Errorf("write stats: %w", err)
	}
	return stats, nil
}

func (m *AdminDataManager) GetUser(ctx context.Context, id string) (models.User, bool) {
	users := m.GetUsers(ctx)
	if i := userIndexByID(users, id); i >= 0 {
		return users[i], true
	}
	return models.User{}, false
}

func (m *AdminDataManager) FindUserByEmail(ctx context.Context, email string) (models.User, bool) {
	users := m.GetUsers(ctx)
	if i := userIndexByEmail(users, email); i >= 0 {
		return users[i], true
	}
	return models.User{}, false
}

func (m *AdminDataManager) GetCourse(ctx context.Context, id string) (models.Course, bool) {
	courses := m.GetCourses(ctx)
	if i := courseIndexByID(courses, id); i >= 0 {
		return courses[i], true
	}
	return models.Course{}, false
}

func (m *AdminDataManager) GetCourseBySlug(ctx context.Context, slug string) (models.Course, bool) {
	courses := m.GetCourses(ctx)
	if i := courseIndexBySlug(courses, slug); i >= 0 {
		return courses[i], true
	}
	return models.Course{}, false
}

func (m *AdminDataManager) GetQuiz(ctx context.Context, slug string) (models.Quiz, bool) {
	quizzes := m.GetQuizzes(ctx)
	if i := quizIndexBySlug(quizzes, slug); i >= 0 {
		return quizzes[i], true
	}
	return models.Quiz{}, false
}

// AddUser stores a new user. A missing id is generated and missing dates are
// set to now. Ids and emails are unique.
func (m *AdminDataManager) AddUser(ctx context.Context, user models.User) (models.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = normalizeEmail(user.Email)
	if user.Name == "" {
		return models.User{}, newValidationError("name", "Name is required")
	}
	if !ValidEmail(user.Email) {
		return models.User{}, newValidationError("email", "Please enter a valid email address")
	}
	if user.Role != "" && user.Role != models.RoleStudent && user.Role != models.RoleAdmin {
		return models.User{}, newValidationError("role", "role must be one of: student admin")
	}

	user = user.Clone()
	now := m.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.JoinedDate.IsZero() {
		user.JoinedDate = now
	}
	if user.LastActive.IsZero() {
		user.LastActive = now
	}

	err := m.update(ctx, func(ds *dataset) ([]string, error) {
		if userIndexByID(ds.users, user.ID) >= 0 || userIndexByEmail(ds.users, user.Email) >= 0 {
			return nil, ErrUserExists
		}
		ds.users = append(ds.users, user)
		return []string{store.UsersKey}, nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser applies a profile patch. An unknown id is a no-op.
func (m *AdminDataManager) UpdateUser(ctx context.Context, id string, patch models.UserPatch) error {
	if err := validateStruct(patch); err != nil {
		return err
	}

	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := userIndexByID(ds.users, id)
		if i < 0 {
			return nil, nil
		}
		u := &ds.users[i]

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return nil, newValidationError("name", "Name is required")
			}
			u.Name = name
		}
		if patch.Email != nil {
			email := normalizeEmail(*patch.Email)
			if j := userIndexByEmail(ds.users, email); j >= 0 && j != i {
				return nil, ErrUserExists
			}
			u.Email = email
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		if patch.LastActive != nil {
			u.LastActive = *patch.LastActive
		}
		return []string{store.UsersKey}, nil
	})
}

// TouchUser marks a user as active now.
func (m *AdminDataManager) TouchUser(ctx context.Context, id string) error {
	now := m.now()
	return m.UpdateUser(ctx, id, models.UserPatch{LastActive: &now})
}

// DeleteUser removes a user. An unknown id is a no-op.
func (m *AdminDataManager) DeleteUser(ctx context.Context, id string) error {
	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := userIndexByID(ds.users, id)
		if i < 0 {
			return nil, nil
		}
		ds.users = slices.Delete(ds.users, i, i+1)
		return []string{store.UsersKey}, nil
	})
}

// AddCourse stores a new course with a generated id, zero counters and a
// unique slug derived from the input slug or title.
func (m *AdminDataManager) AddCourse(ctx context.Context, in models.CourseInput) (models.Course, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	in.PDFURL = strings.TrimSpace(in.PDFURL)
	if err := validateStruct(in); err != nil {
		return models.Course{}, err
	}

	slug := in.Slug
	if strings.TrimSpace(slug) == "" {
		slug = in.Title
	}
	slug = Slugify(slug)

	var course models.Course
	err := m.update(ctx, func(ds *dataset) ([]string, error) {
		if courseIndexBySlug(ds.courses, slug) >= 0 {
			return nil, ErrDuplicateSlug
		}
		now := m.now()
		course = models.Course{
			ID:          m.nextCourseID(ds.courses),
			Title:       in.Title,
			Slug:        slug,
			Description: in.Description,
			VideoURL:    in.VideoURL,
			PDFURL:      in.PDFURL,
			Category:    in.Category,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		ds.courses = append(ds.courses, course)
		return []string{store.CoursesKey}, nil
	})
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// UpdateCourse applies a patch and refreshes updatedAt. A slug change moves
// the course's quiz along with it. An unknown id is a no-op.
func (m *AdminDataManager) UpdateCourse(ctx context.Context, id string, patch models.CoursePatch) error {
	if err := validateStruct(patch); err != nil {
		return err
	}

	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := courseIndexByID(ds.courses, id)
		if i < 0 {
			return nil, nil
		}
		c := &ds.courses[i]
		touched := []string{store.CoursesKey}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return nil, newValidationError("title", "title is required")
			}
			c.Title = title
		}
		if patch.Slug != nil {
			slug := Slugify(*patch.Slug)
			if slug != c.Slug {
				if courseIndexBySlug(ds.courses, slug) >= 0 {
					return nil, ErrDuplicateSlug
				}
				if q := quizIndexBySlug(ds.quizzes, c.Slug); q >= 0 {
					ds.quizzes[q].CourseSlug = slug
					touched = append(touched, store.QuizzesKey)
				}
				c.Slug = slug
			}
		}
		if patch.Description != nil {
			c.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.VideoURL != nil {
			c.VideoURL = strings.TrimSpace(*patch.VideoURL)
		}
		if patch.PDFURL != nil {
			c.PDFURL = strings.TrimSpace(*patch.PDFURL)
		}
		if patch.Category != nil {
			c.Category = *patch.Category
		}
		c.UpdatedAt = m.now()
		return touched, nil
	})
}

// DeleteCourse removes a course together with the quiz that shares its slug.
// An unknown id is a no-op.
func (m *AdminDataManager) DeleteCourse(ctx context.Context, id string) error {
	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := courseIndexByID(ds.courses, id)
		if i < 0 {
			return nil, nil
		}
		slug := ds.courses[i].Slug
		ds.courses = slices.Delete(ds.courses, i, i+1)

		touched := []string{store.CoursesKey}
		if q := quizIndexBySlug(ds.quizzes, slug); q >= 0 {
			ds.quizzes = slices.DeleteFunc(ds.quizzes, func(quiz models.Quiz) bool { return quiz.CourseSlug == slug })
			touched = append(touched, store.QuizzesKey)
		}
		return touched, nil
	})
}

func numberQuestions(questions []models.Question) []models.Question {
	out := slices.Clone(questions)
	for i := range out {
		out[i].Options = slices.Clone(out[i].Options)
		if out[i].ID == 0 {
			out[i].ID = i + 1
		}
	}
	return out
}

// AddQuiz stores the quiz of a course, replacing any quiz with the same
// course slug. The course must exist.
func (m *AdminDataManager) AddQuiz(ctx context.Context, in models.QuizInput) (models.Quiz, error) {
	in.CourseSlug = strings.TrimSpace(in.CourseSlug)
	if err := validateStruct(in); err != nil {
		return models.Quiz{}, err
	}

	var quiz models.Quiz
	err := m.update(ctx, func(ds *dataset) ([]string, error) {
		if courseIndexBySlug(ds.courses, in.CourseSlug) < 0 {
			return nil, ErrCourseNotFound
		}
		now := m.now()
		quiz = models.Quiz{
			CourseSlug: in.CourseSlug,
			Questions:  numberQuestions(in.Questions),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		ds.quizzes = slices.DeleteFunc(ds.quizzes, func(q models.Quiz) bool { return q.CourseSlug == in.CourseSlug })
		ds.quizzes = append(ds.quizzes, quiz)
		return []string{store.QuizzesKey}, nil
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// UpdateQuiz replaces the questions of a quiz. An unknown slug is a no-op.
func (m *AdminDataManager) UpdateQuiz(ctx context.Context, slug string, patch models.QuizPatch) error {
	if err := validateStruct(patch); err != nil {
		return err
	}

	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := quizIndexBySlug(ds.quizzes, slug)
		if i < 0 {
			return nil, nil
		}
		if patch.Questions != nil {
			ds.quizzes[i].Questions = numberQuestions(patch.Questions)
		}
		ds.quizzes[i].UpdatedAt = m.now()
		return []string{store.QuizzesKey}, nil
	})
}

func (m *AdminDataManager) DeleteQuiz(ctx context.Context, slug string) error {
	return m.update(ctx, func(ds *dataset) ([]string, error) {
		i := quizIndexBySlug(ds.quizzes, slug)
		if i < 0 {
			return nil, nil
		}
		ds.quizzes = slices.Delete(ds.quizzes, i, i+1)
		return []string{store.QuizzesKey}, nil
	})
}

func recordAttempt(q *models.Quiz, score int) {
	total := float64(q.AverageScore*q.TotalAttempts + score)
	q.TotalAttempts++
	q.AverageScore = int(math.Round(total / float64(q.TotalAttempts)))
}

// advance moves u forward to pct. Completion is never reached here.
func advance(u *models.User, courseID string, pct int) bool {
	if pct >= models.ProgressCompleted || pct <= u.ProgressFor(courseID) {
		return false
	}
	u.Progress[courseID] = pct
	return true
}

// RecordQuizResult folds a quiz score into the quiz's attempt counters and,
// when the attempt passed, advances the user to the quiz step. Both changes
// are committed together. It returns the user's resulting progress.
func (m *AdminDataManager) RecordQuizResult(ctx context.Context, slug, userID, courseID string, score int, passed bool) (int, error) {
	var result int
	err := m.update(ctx, func(ds *dataset) ([]string, error) {
		ui := userIndexByID(ds.users, userID)
		if ui < 0 {
			return nil, ErrUserNotFound
		}
		u := &ds.users[ui]
		if !u.IsEnrolled(courseID) {
			return nil, ErrNotEnrolled
		}
		result = u.ProgressFor(courseID)
		if u.HasCompleted(courseID) {
			result = models.ProgressCompleted
		}

		var touched []string
		if qi := quizIndexBySlug(ds.quizzes, slug); qi >= 0 {
			recordAttempt(&ds.quizzes[qi], score)
			touched = append(touched, store.QuizzesKey)
		}
		if passed && advance(u, courseID, models.ProgressQuizDone) {
			u.LastActive = m.now()
			result = models.ProgressQuizDone
			touched = append(touched, store.UsersKey)
		}
		return touched, nil
	})
	return result, err
}

func enroll(u *models.User, c *models.Course) bool {
	if u.IsEnrolled(c.ID) {
		return false
	}
	u.EnrolledCourses = append(u.EnrolledCourses, c.ID)
	u.Progress[c.ID] = models.ProgressEnrolled
	c.EnrolledCount++
	return true
}

// EnrollUserInCourse enrolls a user at progress 0 and bumps the course's
// enrolled count. Repeated enrollment and unknown ids are no-ops.
func (m *AdminDataManager) EnrollUserInCourse(ctx context.Context, userID, courseID string) error {
	return m.update(ctx, func(ds *dataset) ([]string, error) {
		u := userIndexByID(ds.users, userID)
		c := courseIndexByID(ds.courses, courseID)
		if u < 0 || c < 0 {
			return nil, nil
		}
		if !enroll(&ds.users[u], &ds.courses[c]) {
			return nil, nil
		}
		ds.users[u].LastActive = m.now()
		return []string{store.UsersKey, store.CoursesKey}, nil
	})
}

// CompleteCourse records a completion with progress 100 and a certificate.
// A user who is not enrolled yet is enrolled first. Repeated completion and
// unknown ids are no-ops.
func (m *AdminDataManager) CompleteCourse(ctx context.Context, userID, courseID string) error {
	return m.update(ctx, func(ds *dataset) ([]string, error) {
		ui := userIndexByID(ds.users, userID)
		ci := courseIndexByID(ds.courses, courseID)
		if ui < 0 || ci < 0 {
			return nil, nil
		}
		u, c := &ds.users[ui], &ds.courses[ci]
		if u.HasCompleted(c.ID) {
			return nil, nil
		}

		now := m.now()
		enroll(u, c)
		u.CompletedCourses = append(u.CompletedCourses, c.ID)
		u.Progress[c.ID] = models.ProgressCompleted
		if !slices.Contains(u.Certificates, c.ID) {
			u.Certificates = append(u.Certificates, c.ID)
		}
		if u.CompletedAt == nil {
			u.CompletedAt = map[string]time.Time{}
		}
		u.CompletedAt[c.ID] = now
		u.LastActive = now
		c.CompletedCount++
		return []string{store.UsersKey, store.CoursesKey}, nil
	})
}

// AdvanceProgress raises an enrolled user's progress to pct. Progress never
// moves backwards and never reaches 100 here; completion goes through
// CompleteCourse. It returns the resulting progress.
func (m *AdminDataManager) AdvanceProgress(ctx context.Context, userID, courseID string, pct int) (int, error) {
	var result int
	err := m.update(ctx, func(ds *dataset) ([]string, error) {
		ui := userIndexByID(ds.users, userID)
		if ui < 0 {
			return nil, ErrUserNotFound
		}
		u := &ds.users[ui]
		if !u.IsEnrolled(courseID) {
			return nil, ErrNotEnrolled
		}

		result = u.ProgressFor(courseID)
		if !advance(u, courseID, pct) {
			return nil, nil
		}
		u.LastActive = m.now()
		result = pct
		return []string{store.UsersKey}, nil
	})
	return result, err
}

// Import replaces all three collections at once. It is used to seed an empty
// store with records that already carry ids and counters.
func (m *AdminDataManager) Import(ctx context.Context, users []models.User, courses []models.Course, quizzes []models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds := &dataset{
		users:   make([]models.User, 0, len(users)),
		courses: slices.Clone(courses),
		quizzes: slices.Clone(quizzes),
	}
	for _, u := range users {
		u.Email = normalizeEmail(u.Email)
		ds.users = append(ds.users, u.Clone())
	}
	if ds.courses == nil {
		ds.courses = []models.Course{}
	}
	if ds.quizzes == nil {
		ds.quizzes = []models.Quiz{}
	}
	return m.commit(ctx, ds, store.UsersKey, store.CoursesKey, store.QuizzesKey)
}
