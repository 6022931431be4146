package models

import (
	"slices"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Role             Role           `json:"role"`
	EnrolledCourses  []string       `json:"enrolledCourses"`
	CompletedCourses []string       `json:"completedCourses"`
	Certificates     []string       `json:"certificates"`
	Progress         map[string]int `json:"progress"`
	JoinedDate       time.Time      `json:"joinedDate"`
	LastActive       time.Time      `json:"lastActive"`

	// CompletedAt records when each course was completed. Older records may
	// lack an entry.
	CompletedAt map[string]time.Time `json:"completedAt,omitempty"`
}

// UserPatch carries the profile fields an admin may overwrite.
// Enrollment collections and progress change only through enrollment and completion.
type UserPatch struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=2"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Role       *Role      `json:"role,omitempty" validate:"omitempty,oneof=student admin"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// Session is the persisted login state: a snapshot of the user taken at login.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsEnrolled(courseID string) bool {
	return slices.Contains(u.EnrolledCourses, courseID)
}

func (u *User) HasCompleted(courseID string) bool {
	return slices.Contains(u.CompletedCourses, courseID)
}

func (u *User) ProgressFor(courseID string) int {
	if u.Progress == nil {
		return 0
	}
	return u.Progress[courseID]
}

// Normalize replaces nil collections with empty ones so the stored JSON
// always carries arrays and objects.
func (u *User) Normalize() {
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	if u.CompletedCourses == nil {
		u.CompletedCourses = []string{}
	}
	if u.Certificates == nil {
		u.Certificates = []string{}
	}
	if u.Progress == nil {
		u.Progress = map[string]int{}
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
}

// Clone returns a deep copy so snapshots never share slices with the store view.
func (u User) Clone() User {
	out := u
	out.EnrolledCourses = slices.Clone(u.EnrolledCourses)
	out.CompletedCourses = slices.Clone(u.CompletedCourses)
	out.Certificates = slices.Clone(u.Certificates)
	out.Progress = make(map[string]int, len(u.Progress))
	for k, v := range u.Progress {
		out.Progress[k] = v
	}
	if u.CompletedAt != nil {
		out.CompletedAt = make(map[string]time.Time, len(u.CompletedAt))
		for k, v := range u.CompletedAt {
			out.CompletedAt[k] = v
		}
	}
	out.Normalize()
	return out
}
