// Package seeds holds the sample catalog, students and quizzes a fresh
// installation starts with.
package seeds

import (
	"embed"
	"fmt"
	"slices"
	"sync"

	"skillnexis/backend/models"

	"github.com/bytedance/sonic"
)

//go:embed data/*.json
var files embed.FS

type Sample struct {
	Users   []models.User
	Courses []models.Course
	Quizzes []models.Quiz
}

func decodeFile(name string, v any) error {
	data, err := files.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", name, err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode seed %s: %w", name, err)
	}
	return nil
}

// Load decodes the embedded sample data.
func Load() (*Sample, error) {
	var s Sample
	if err := decodeFile("users.json", &s.Users); err != nil {
		return nil, err
	}
	if err := decodeFile("courses.json", &s.Courses); err != nil {
		return nil, err
	}
	if err := decodeFile("quizzes.json", &s.Quizzes); err != nil {
		return nil, err
	}
	for i := range s.Users {
		s.Users[i].Normalize()
	}
	return &s, nil
}

var (
	staticOnce    sync.Once
	staticCourses []models.Course
)

// StaticCourses is the built-in catalog served when the store cannot be read.
func StaticCourses() []models.Course {
	staticOnce.Do(func() {
		if err := decodeFile("courses.json", &staticCourses); err != nil {
			staticCourses = []models.Course{}
		}
	})
	return slices.Clone(staticCourses)
}

// Challenges decodes the practice challenge catalog.
func Challenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := decodeFile("challenges.json", &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}
