package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillnexis/backend/models"
	"skillnexis/backend/store"
	"skillnexis/backend/utils"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T) (*AdminDataManager, *store.MemoryStore, *fakeClock) {
	t.Helper()
	st := store.NewMemoryStore()
	clock := &fakeClock{t: testNow}
	m := NewAdminDataManager(st, utils.DiscardLogger(), WithClock(clock.Now))
	return m, st, clock
}

// failingStore wraps a store and fails the selected operations.
type failingStore struct {
	store.Store
	getErr map[string]error
	setErr error
}

var errBoom = errors.New("boom")

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err, ok := f.getErr[key]; ok {
		return nil, err
	}
	return f.Store.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func (f *failingStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.SetMany(ctx, entries)
}

func addCourse(t *testing.T, m *AdminDataManager, title string) models.Course {
	t.Helper()
	c, err := m.AddCourse(context.Background(), models.CourseInput{
		Title:    title,
		Category: models.CategoryProgramming,
	})
	require.NoError(t, err)
	return c
}

func addStudent(t *testing.T, m *AdminDataManager, name, email string) models.User {
	t.Helper()
	u, err := m.AddUser(context.Background(), models.User{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func sampleQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Question:      "Question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % models.OptionsPerQuestion,
			Explanation:   "because",
		}
	}
	return qs
}
