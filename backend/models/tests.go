package models

import "time"

// OptionsPerQuestion is the fixed number of answer options of a quiz question.
const OptionsPerQuestion = 4

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"min=0,max=3"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	CourseSlug    string     `json:"courseSlug"`
	Questions     []Question `json:"questions"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	TotalAttempts int        `json:"totalAttempts"`
	AverageScore  int        `json:"averageScore"`
}

// QuizInput is a quiz without the fields the data manager assigns.
type QuizInput struct {
	CourseSlug string     `json:"courseSlug" validate:"required"`
	Questions  []Question `json:"questions" validate:"required,min=1,dive"`
}

type QuizPatch struct {
	Questions []Question `json:"questions,omitempty" validate:"omitempty,min=1,dive"`
}

// PublicQuestion is a question as shown to a student before submission.
type PublicQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuestionReview is the per-question outcome returned after a quiz submission.
type QuestionReview struct {
	ID            int    `json:"id"`
	Selected      int    `json:"selected"`
	CorrectAnswer int    `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

type QuizResult struct {
	CourseSlug string           `json:"courseSlug"`
	Total      int              `json:"total"`
	Correct    int              `json:"correct"`
	Score      int              `json:"score"`
	Passed     bool             `json:"passed"`
	Progress   int              `json:"progress"`
	Review     []QuestionReview `json:"review"`
}
