package models

// Stats are derived from users, courses and quizzes and never authored directly.
type Stats struct {
	TotalStudents     int `json:"totalStudents"`
	TotalCourses      int `json:"totalCourses"`
	TotalCertificates int `json:"totalCertificates"`
	CompletionRate    int `json:"completionRate"`
	TotalQuizzes      int `json:"totalQuizzes"`
	TotalEnrollments  int `json:"totalEnrollments"`
	TotalCompletions  int `json:"totalCompletions"`
	ActiveUsers       int `json:"activeUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
}
