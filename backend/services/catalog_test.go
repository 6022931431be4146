package services

import (
	"context"
	"testing"
	"time"

	"skillnexis/backend/models"
	"skillnexis/backend/seeds"
	"skillnexis/backend/store"
	"skillnexis/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogInvalidatesOnCourseChange(t *testing.T) {
	m, st, _ := newTestManager(t)
	ctx := context.Background()
	catalog := NewCourseCatalog(m, st, utils.DiscardLogger())

	assert.Empty(t, catalog.Courses(ctx))

	c := addCourse(t, m, "Go Basics")
	courses := catalog.Courses(ctx)
	require.Len(t, courses, 1)

	got, ok := catalog.BySlug(ctx, c.Slug)
	require.True(t, ok)
	assert.Equal(t, c.ID, got.ID)

	require.NoError(t, m.DeleteCourse(ctx, c.ID))
	assert.Empty(t, catalog.Courses(ctx))
}

func TestCatalogByCategory(t *testing.T) {
	m, st, _ := newTestManager(t)
	ctx := context.Background()
	catalog := NewCourseCatalog(m, st, utils.DiscardLogger())

	addCourse(t, m, "Go Basics")
	_, err := m.AddCourse(ctx, models.CourseInput{Title: "Flutter", Category: models.CategoryMobile})
	require.NoError(t, err)

	assert.Len(t, catalog.ByCategory(ctx, ""), 2)
	mobile := catalog.ByCategory(ctx, models.CategoryMobile)
	require.Len(t, mobile, 1)
	assert.Equal(t, "flutter", mobile[0].Slug)
}

func TestCatalogFallsBackToStaticCourses(t *testing.T) {
	fs := &failingStore{
		Store:  store.NewMemoryStore(),
		getErr: map[string]error{store.CoursesKey: errBoom},
	}
	m := NewAdminDataManager(fs, utils.DiscardLogger())
	catalog := NewCourseCatalog(m, nil, utils.DiscardLogger())

	courses := catalog.Courses(context.Background())
	assert.Len(t, courses, len(seeds.StaticCourses()))

	_, ok := catalog.BySlug(context.Background(), "c-programming")
	assert.True(t, ok)
}

func TestCatalogSearch(t *testing.T) {
	m, st, clock := newTestManager(t)
	ctx := context.Background()
	catalog := NewCourseCatalog(m, st, utils.DiscardLogger())

	goCourse := addCourse(t, m, "Go Basics")
	clock.Advance(time.Minute)
	_, err := m.AddCourse(ctx, models.CourseInput{Title: "Flutter", Description: "Build apps with Go-like speed", Category: models.CategoryMobile})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	addCourse(t, m, "Algorithms")

	student := addStudent(t, m, "Jane", "jane@x.com")
	require.NoError(t, m.EnrollUserInCourse(ctx, student.ID, goCourse.ID))

	found := catalog.Search(ctx, "  GO ", "", SortPopularity)
	require.Len(t, found, 2)
	assert.Equal(t, "go-basics", found[0].Slug)
	assert.Equal(t, "flutter", found[1].Slug)

	found = catalog.Search(ctx, "go", models.CategoryMobile, SortPopularity)
	require.Len(t, found, 1)
	assert.Equal(t, "flutter", found[0].Slug)

	found = catalog.Search(ctx, "", "", SortNewest)
	require.Len(t, found, 3)
	assert.Equal(t, "algorithms", found[0].Slug)

	found = catalog.Search(ctx, "", "", SortTitle)
	assert.Equal(t, []string{"algorithms", "flutter", "go-basics"}, courseSlugs(found))

	assert.Empty(t, catalog.Search(ctx, "haskell", "", SortPopularity))
}

func TestCatalogRecommend(t *testing.T) {
	m, st, _ := newTestManager(t)
	ctx := context.Background()
	catalog := NewCourseCatalog(m, st, utils.DiscardLogger())

	goCourse := addCourse(t, m, "Go Basics")
	rust := addCourse(t, m, "Rust")
	_, err := m.AddCourse(ctx, models.CourseInput{Title: "Flutter", Category: models.CategoryMobile})
	require.NoError(t, err)
	_, err = m.AddCourse(ctx, models.CourseInput{Title: "Swift", Category: models.CategoryMobile})
	require.NoError(t, err)

	fan := addStudent(t, m, "Fan", "fan@x.com")
	require.NoError(t, m.EnrollUserInCourse(ctx, fan.ID, rust.ID))

	jane := addStudent(t, m, "Jane", "jane@x.com")
	require.NoError(t, m.EnrollUserInCourse(ctx, jane.ID, goCourse.ID))
	jane, _ = m.GetUser(ctx, jane.ID)

	recs := catalog.Recommend(ctx, jane, 2)
	require.Len(t, recs, 2)
	assert.Equal(t, "rust", recs[0].Slug)
	assert.Equal(t, models.CategoryMobile, recs[1].Category)

	assert.Len(t, catalog.Recommend(ctx, jane, 0), 3)
}

func courseSlugs(courses []models.Course) []string {
	slugs := make([]string, len(courses))
	for i, c := range courses {
		slugs[i] = c.Slug
	}
	return slugs
}
