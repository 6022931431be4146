package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Challenge is a coding exercise of the practice area. The code runs in the
// browser; the server only compares its output.
type Challenge struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Language       string     `json:"language"`
	StarterCode    string     `json:"starterCode"`
	ExpectedOutput string     `json:"expectedOutput"`
	Difficulty     Difficulty `json:"difficulty"`
}

// PracticeDraft is the code a user saved for a challenge.
type PracticeDraft struct {
	ChallengeID int       `json:"challengeId"`
	Code        string    `json:"code"`
	Saved       bool      `json:"saved"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type PracticeDraftInput struct {
	Code string `json:"code" validate:"max=20000"`
}

// PracticeRun is what the client produced by running the code.
type PracticeRun struct {
	Output string `json:"output" validate:"max=20000"`
	Error  string `json:"error,omitempty"`
}

type PracticeResult struct {
	ChallengeID int    `json:"challengeId"`
	Passed      bool   `json:"passed"`
	Output      string `json:"output"`
	Expected    string `json:"expected"`
	Message     string `json:"message"`
}
