package services

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"

	"skillnexis/backend/models"
	"skillnexis/backend/seeds"
	"skillnexis/backend/store"
)

// CourseCatalog is the read side of the course collection used by the public
// pages. It caches the list until the store reports a change and falls back
// to the built-in catalog when the store cannot be read.
type CourseCatalog struct {
	data   *AdminDataManager
	logger *log.Logger

	mu     sync.RWMutex
	cached []models.Course
	valid  bool
	gen    uint64
}

func NewCourseCatalog(data *AdminDataManager, watcher store.Watcher, logger *log.Logger) *CourseCatalog {
	c := &CourseCatalog{data: data, logger: logger}
	if watcher != nil {
		watcher.Watch(func(key string) {
			if key == store.CoursesKey {
				c.Invalidate()
			}
		})
	}
	return c
}

func (c *CourseCatalog) Invalidate() {
	c.mu.Lock()
	c.cached, c.valid = nil, false
	c.gen++
	c.mu.Unlock()
}

// Courses returns every course.
func (c *CourseCatalog) Courses(ctx context.Context) []models.Course {
	c.mu.RLock()
	if c.valid {
		out := slices.Clone(c.cached)
		c.mu.RUnlock()
		return out
	}
	gen := c.gen
	c.mu.RUnlock()

	courses, err := c.data.LoadCourses(ctx)
	if err != nil {
		c.logger.Printf("[CATALOG] Error reading courses, serving built-in catalog: %v", err)
		return seeds.StaticCourses()
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cached, c.valid = courses, true
	}
	c.mu.Unlock()
	return slices.Clone(courses)
}

// ByCategory filters the catalog. An empty category returns every course.
func (c *CourseCatalog) ByCategory(ctx context.Context, category models.Category) []models.Course {
	courses := c.Courses(ctx)
	if category == "" {
		return courses
	}
	return slices.DeleteFunc(courses, func(course models.Course) bool { return course.Category != category })
}

func (c *CourseCatalog) BySlug(ctx context.Context, slug string) (models.Course, bool) {
	courses := c.Courses(ctx)
	if i := courseIndexBySlug(courses, slug); i >= 0 {
		return courses[i], true
	}
	return models.Course{}, false
}

func (c *CourseCatalog) ByID(ctx context.Context, id string) (models.Course, bool) {
	courses := c.Courses(ctx)
	if i := courseIndexByID(courses, id); i >= 0 {
		return courses[i], true
	}
	return models.Course{}, false
}

type CourseSort string

const (
	SortPopularity CourseSort = "popularity"
	SortNewest     CourseSort = "newest"
	SortTitle      CourseSort = "title"
)

// Search matches the query case-insensitively against title and description.
// Popularity orders by enrolled count.
func (c *CourseCatalog) Search(ctx context.Context, query string, category models.Category, sort CourseSort) []models.Course {
	query = strings.ToLower(strings.TrimSpace(query))
	courses := slices.DeleteFunc(c.ByCategory(ctx, category), func(course models.Course) bool {
		if query == "" {
			return false
		}
		return !strings.Contains(strings.ToLower(course.Title), query) &&
			!strings.Contains(strings.ToLower(course.Description), query)
	})

	switch sort {
	case SortNewest:
		slices.SortStableFunc(courses, func(a, b models.Course) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case SortTitle:
		slices.SortStableFunc(courses, func(a, b models.Course) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	case SortPopularity:
		slices.SortStableFunc(courses, func(a, b models.Course) int { return b.EnrolledCount - a.EnrolledCount })
	}
	return courses
}

// Recommend suggests courses the user is not enrolled in. Courses sharing a
// category with the user's enrollments come first, then by popularity.
func (c *CourseCatalog) Recommend(ctx context.Context, user models.User, limit int) []models.Course {
	courses := c.Courses(ctx)

	interests := map[models.Category]bool{}
	for _, course := range courses {
		if user.IsEnrolled(course.ID) {
			interests[course.Category] = true
		}
	}

	candidates := slices.DeleteFunc(courses, func(course models.Course) bool { return user.IsEnrolled(course.ID) })
	slices.SortStableFunc(candidates, func(a, b models.Course) int {
		if ia, ib := interests[a.Category], interests[b.Category]; ia != ib {
			if ia {
				return -1
			}
			return 1
		}
		return b.EnrolledCount - a.EnrolledCount
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
