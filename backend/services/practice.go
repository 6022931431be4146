package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"skillnexis/backend/models"
	"skillnexis/backend/seeds"
	"skillnexis/backend/store"
)

const (
	practicePassedMessage = "Test passed! Great job!"
	practiceFailedMessage = "Output doesn't match expected result."
	practiceErrorMessage  = "Code execution failed. Check for syntax errors."
)

// PracticeService serves the coding challenges and keeps one saved draft per
// user and challenge.
type PracticeService struct {
	store      store.Store
	logger     *log.Logger
	now        func() time.Time
	challenges []models.Challenge
}

func NewPracticeService(s store.Store, logger *log.Logger) (*PracticeService, error) {
	challenges, err := seeds.Challenges()
	if err != nil {
		return nil, err
	}
	return &PracticeService{store: s, logger: logger, now: time.Now, challenges: challenges}, nil
}

func (p *PracticeService) Challenges() []models.Challenge {
	return slices.Clone(p.challenges)
}

func (p *PracticeService) Challenge(id int) (models.Challenge, error) {
	i := slices.IndexFunc(p.challenges, func(c models.Challenge) bool { return c.ID == id })
	if i < 0 {
		return models.Challenge{}, ErrChallengeNotFound
	}
	return p.challenges[i], nil
}

// Draft returns the saved code of a challenge, or its starter code when
// nothing was saved yet.
func (p *PracticeService) Draft(ctx context.Context, userID string, id int) (*models.PracticeDraft, error) {
	challenge, err := p.Challenge(id)
	if err != nil {
		return nil, err
	}

	data, err := p.store.Get(ctx, store.PracticeKey(userID, id))
	if errors.Is(err, store.ErrNotFound) {
		return &models.PracticeDraft{ChallengeID: id, Code: challenge.StarterCode}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft models.PracticeDraft
	if err := store.Decode(data, &draft); err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	draft.Saved = true
	return &draft, nil
}

func (p *PracticeService) SaveDraft(ctx context.Context, userID string, id int, in models.PracticeDraftInput) (*models.PracticeDraft, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := p.Challenge(id); err != nil {
		return nil, err
	}

	draft := models.PracticeDraft{ChallengeID: id, Code: in.Code, Saved: true, UpdatedAt: p.now()}
	data, err := store.Encode(draft)
	if err != nil {
		return nil, err
	}
	if err := p.store.Set(ctx, store.PracticeKey(userID, id), data); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return &draft, nil
}

// ResetDraft drops the saved code so the starter code shows again.
func (p *PracticeService) ResetDraft(ctx context.Context, userID string, id int) (*models.PracticeDraft, error) {
	challenge, err := p.Challenge(id)
	if err != nil {
		return nil, err
	}
	if err := p.store.Delete(ctx, store.PracticeKey(userID, id)); err != nil {
		return nil, fmt.Errorf("reset draft: %w", err)
	}
	return &models.PracticeDraft{ChallengeID: id, Code: challenge.StarterCode}, nil
}

// Check compares the output of a run with the expected output. Both sides
// are trimmed and CRLF line endings are accepted. A run that failed never
// passes.
func (p *PracticeService) Check(userID string, id int, run models.PracticeRun) (*models.PracticeResult, error) {
	if err := validateStruct(run); err != nil {
		return nil, err
	}
	challenge, err := p.Challenge(id)
	if err != nil {
		return nil, err
	}

	result := &models.PracticeResult{
		ChallengeID: id,
		Output:      strings.TrimSpace(strings.ReplaceAll(run.Output, "\r\n", "\n")),
		Expected:    strings.TrimSpace(challenge.ExpectedOutput),
	}
	switch {
	case run.Error != "":
		result.Output = "Error: " + run.Error
		result.Message = practiceErrorMessage
	case result.Output == result.Expected:
		result.Passed = true
		result.Message = practicePassedMessage
	default:
		result.Message = practiceFailedMessage
	}

	p.logger.Printf("[PRACTICE] user=%s challenge=%d passed=%t", userID, id, result.Passed)
	return result, nil
}
