package models

import "time"

// Progress percentages. They are the only values a course progress can take.
const (
	ProgressEnrolled  = 0
	ProgressVideoDone = 33
	ProgressQuizDone  = 66
	ProgressCompleted = 100
)

type ProgressState string

const (
	StateNotEnrolled ProgressState = "not_enrolled"
	StateEnrolled    ProgressState = "enrolled"
	StateVideoDone   ProgressState = "video_done"
	StateQuizPassed  ProgressState = "quiz_passed"
	StateCompleted   ProgressState = "completed"
)

// StateOf derives the state of a (user, course) pair.
func StateOf(u *User, courseID string) ProgressState {
	if u.HasCompleted(courseID) {
		return StateCompleted
	}
	if !u.IsEnrolled(courseID) {
		return StateNotEnrolled
	}
	switch p := u.ProgressFor(courseID); {
	case p >= ProgressCompleted:
		return StateCompleted
	case p >= ProgressQuizDone:
		return StateQuizPassed
	case p >= ProgressVideoDone:
		return StateVideoDone
	default:
		return StateEnrolled
	}
}

type CourseProgress struct {
	CourseID string        `json:"courseId"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Progress int           `json:"progress"`
	State    ProgressState `json:"state"`
}

type ProgressOverview struct {
	Courses          []CourseProgress `json:"courses"`
	AverageProgress  int              `json:"averageProgress"`
	CompletedCourses int              `json:"completedCourses"`
	Certificates     int              `json:"certificates"`
}

// AssessmentSubmission references a recording produced by the client's media capture.
type AssessmentSubmission struct {
	RecordingURL    string `json:"recordingUrl" validate:"required"`
	DurationSeconds int    `json:"durationSeconds" validate:"min=0"`
}

type Certificate struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	CourseID    string    `json:"courseId"`
	CourseSlug  string    `json:"courseSlug"`
	CourseTitle string    `json:"courseTitle"`
	IssuedAt    time.Time `json:"issuedAt"`
}
