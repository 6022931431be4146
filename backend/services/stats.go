package services

import (
	"math"
	"time"

	"skillnexis/backend/models"
)

// activeWindow is how recent lastActive must be for a user to count as active.
const activeWindow = 7 * 24 * time.Hour

// CalculateStats derives the admin statistics from the full collections.
// The calendar month of newUsersThisMonth is evaluated in loc.
func CalculateStats(users []models.User, courses []models.Course, quizzes []models.Quiz, now time.Time, loc *time.Location) models.Stats {
	if loc == nil {
		loc = time.UTC
	}

	var stats models.Stats

	localNow := now.In(loc)
	activeSince := now.Add(-activeWindow)

	for _, u := range users {
		if u.Role == models.RoleStudent {
			stats.TotalStudents++
		}
		stats.TotalCertificates += len(u.Certificates)
		stats.TotalEnrollments += len(u.EnrolledCourses)
		stats.TotalCompletions += len(u.CompletedCourses)

		joined := u.JoinedDate.In(loc)
		if !u.JoinedDate.IsZero() && joined.Year() == localNow.Year() && joined.Month() == localNow.Month() {
			stats.NewUsersThisMonth++
		}
		if !u.LastActive.IsZero() && !u.LastActive.Before(activeSince) {
			stats.ActiveUsers++
		}
	}

	stats.TotalCourses = len(courses)
	stats.TotalQuizzes = len(quizzes)
	if stats.TotalEnrollments > 0 {
		stats.CompletionRate = int(math.Round(100 * float64(stats.TotalCompletions) / float64(stats.TotalEnrollments)))
	}

	return stats
}
