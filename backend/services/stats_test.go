package services

import (
	"testing"
	"time"

	"skillnexis/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStats(t *testing.T) {
	users := []models.User{
		{
			ID: "1", Role: models.RoleStudent,
			EnrolledCourses: []string{"a", "b"}, CompletedCourses: []string{"a"}, Certificates: []string{"a"},
			JoinedDate: testNow.AddDate(0, 0, -3), LastActive: testNow.Add(-time.Hour),
		},
		{
			ID: "2", Role: models.RoleStudent,
			EnrolledCourses: []string{"a"},
			JoinedDate:      testNow.AddDate(0, -2, 0), LastActive: testNow.AddDate(0, 0, -8),
		},
		{
			ID: "3", Role: models.RoleAdmin,
			EnrolledCourses: []string{"b"}, CompletedCourses: []string{"b"}, Certificates: []string{"b"},
			JoinedDate: testNow.AddDate(-1, 0, 0), LastActive: testNow.AddDate(0, 0, -7),
		},
	}
	courses := []models.Course{{ID: "a"}, {ID: "b"}}
	quizzes := []models.Quiz{{CourseSlug: "a"}}

	stats := CalculateStats(users, courses, quizzes, testNow, time.UTC)

	assert.Equal(t, models.Stats{
		TotalStudents:     2,
		TotalCourses:      2,
		TotalCertificates: 2,
		CompletionRate:    50,
		TotalQuizzes:      1,
		TotalEnrollments:  4,
		TotalCompletions:  2,
		ActiveUsers:       2,
		NewUsersThisMonth: 1,
	}, stats)
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil, nil, nil, testNow, nil)
	assert.Equal(t, models.Stats{}, stats)
}

func TestCalculateStatsRoundsCompletionRate(t *testing.T) {
	users := []models.User{{
		Role:             models.RoleStudent,
		EnrolledCourses:  []string{"a", "b", "c"},
		CompletedCourses: []string{"a", "b"},
	}}
	stats := CalculateStats(users, nil, nil, testNow, time.UTC)
	assert.Equal(t, 2, stats.TotalCompletions)
	assert.Equal(t, 67, stats.CompletionRate)
}

func TestCalculateStatsMonthUsesLocation(t *testing.T) {
	// 23:30 UTC on the last day of February is already March in UTC+2.
	joined := time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC)
	users := []models.User{{Role: models.RoleStudent, JoinedDate: joined}}

	utc := CalculateStats(users, nil, nil, testNow, time.UTC)
	assert.Equal(t, 0, utc.NewUsersThisMonth)

	plusTwo := CalculateStats(users, nil, nil, testNow, time.FixedZone("UTC+2", 2*60*60))
	assert.Equal(t, 1, plusTwo.NewUsersThisMonth)
}
