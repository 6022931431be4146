package models

import "time"

type Category string

const (
	CategoryProgramming    Category = "Programming"
	CategoryWebDevelopment Category = "Web Development"
	CategoryDataScience    Category = "Data Science"
	CategoryCloudIoT       Category = "Cloud & IoT"
	CategoryMobile         Category = "Mobile"
)

var Categories = []Category{
	CategoryProgramming,
	CategoryWebDevelopment,
	CategoryDataScience,
	CategoryCloudIoT,
	CategoryMobile,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Course struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	VideoURL       string    `json:"videoUrl,omitempty"`
	PDFURL         string    `json:"pdfUrl,omitempty"`
	Category       Category  `json:"category"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	EnrolledCount  int       `json:"enrolledCount"`
	CompletedCount int       `json:"completedCount"`
}

// CourseInput is a course without the fields the data manager assigns.
type CourseInput struct {
	Title       string   `json:"title" validate:"required"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	VideoURL    string   `json:"videoUrl" validate:"omitempty,url"`
	PDFURL      string   `json:"pdfUrl" validate:"omitempty,url"`
	Category    Category `json:"category" validate:"required,course_category"`
}

type CoursePatch struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Slug        *string   `json:"slug,omitempty"`
	Description *string   `json:"description,omitempty"`
	VideoURL    *string   `json:"videoUrl,omitempty" validate:"omitempty,url"`
	PDFURL      *string   `json:"pdfUrl,omitempty" validate:"omitempty,url"`
	Category    *Category `json:"category,omitempty" validate:"omitempty,course_category"`
}
