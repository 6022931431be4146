package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"skillnexis/backend/models"
)

const (
	// PassingScore is the minimum rounded quiz score that counts as a pass.
	PassingScore = 80
	// QuizTimeLimit is advertised to clients, which auto-submit when it runs out.
	QuizTimeLimit = 10 * time.Minute
)

// ProgressService drives a student through a course: enrollment, video,
// quiz, assessment and certificate. Every step is gated on the stored
// progress of the previous one.
type ProgressService struct {
	data              *AdminDataManager
	logger            *log.Logger
	certificatePrefix string
}

func NewProgressService(data *AdminDataManager, logger *log.Logger, certificatePrefix string) *ProgressService {
	if certificatePrefix == "" {
		certificatePrefix = DefaultCertificatePrefix
	}
	return &ProgressService{
		data:              data,
		logger:            logger,
		certificatePrefix: certificatePrefix,
	}
}

func (p *ProgressService) resolve(ctx context.Context, userID, slug string) (models.User, models.Course, error) {
	course, ok := p.data.GetCourseBySlug(ctx, slug)
	if !ok {
		return models.User{}, models.Course{}, ErrCourseNotFound
	}
	user, ok := p.data.GetUser(ctx, userID)
	if !ok {
		return models.User{}, models.Course{}, ErrUserNotFound
	}
	return user, course, nil
}

// State reports where a user stands in a course.
func (p *ProgressService) State(ctx context.Context, userID, slug string) (models.CourseProgress, error) {
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return models.CourseProgress{}, err
	}
	return courseProgress(&user, course), nil
}

func courseProgress(u *models.User, c models.Course) models.CourseProgress {
	progress := u.ProgressFor(c.ID)
	if u.HasCompleted(c.ID) {
		progress = models.ProgressCompleted
	}
	return models.CourseProgress{
		CourseID: c.ID,
		Slug:     c.Slug,
		Title:    c.Title,
		Progress: progress,
		State:    models.StateOf(u, c.ID),
	}
}

// Enroll enrolls the user in the course. Enrolling twice changes nothing.
func (p *ProgressService) Enroll(ctx context.Context, userID, slug string) (models.CourseProgress, error) {
	_, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return models.CourseProgress{}, err
	}
	if err := p.data.EnrollUserInCourse(ctx, userID, course.ID); err != nil {
		return models.CourseProgress{}, err
	}
	return p.State(ctx, userID, slug)
}

// MarkVideoWatched moves an enrolled user to 33%.
func (p *ProgressService) MarkVideoWatched(ctx context.Context, userID, slug string) (models.CourseProgress, error) {
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return models.CourseProgress{}, err
	}
	if !user.IsEnrolled(course.ID) {
		return models.CourseProgress{}, &AccessDeniedError{
			Reason:   "enroll in the course before watching the video",
			Redirect: coursePath(slug),
		}
	}
	if _, err := p.data.AdvanceProgress(ctx, userID, course.ID, models.ProgressVideoDone); err != nil {
		return models.CourseProgress{}, err
	}
	return p.State(ctx, userID, slug)
}

func coursePath(slug string) string { return "/courses/" + slug }
func quizPath(slug string) string   { return "/quiz/" + slug }

func checkQuizAccess(u *models.User, c models.Course) error {
	if u.HasCompleted(c.ID) || u.ProgressFor(c.ID) >= models.ProgressVideoDone {
		return nil
	}
	return &AccessDeniedError{
		Reason:   "watch the course video before taking the quiz",
		Redirect: coursePath(c.Slug),
	}
}

func checkAssessmentAccess(u *models.User, c models.Course) error {
	if u.HasCompleted(c.ID) || u.ProgressFor(c.ID) >= models.ProgressQuizDone {
		return nil
	}
	return &AccessDeniedError{
		Reason:   "pass the quiz before starting the assessment",
		Redirect: quizPath(c.Slug),
	}
}

// QuizFor returns the questions of a course's quiz without the answers.
func (p *ProgressService) QuizFor(ctx context.Context, userID, slug string) ([]models.PublicQuestion, error) {
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if err := checkQuizAccess(&user, course); err != nil {
		return nil, err
	}
	quiz, ok := p.data.GetQuiz(ctx, slug)
	if !ok {
		return nil, ErrQuizNotFound
	}

	out := make([]models.PublicQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		out = append(out, models.PublicQuestion{ID: q.ID, Question: q.Question, Options: q.Options})
	}
	return out, nil
}

// ScoreQuiz grades answers against the questions. A missing or negative
// answer counts as wrong. The score is the rounded percentage of correct
// answers.
func ScoreQuiz(questions []models.Question, answers []int) (correct, score int, review []models.QuestionReview) {
	review = make([]models.QuestionReview, 0, len(questions))
	for i, q := range questions {
		selected := -1
		if i < len(answers) {
			selected = answers[i]
		}
		ok := selected >= 0 && selected == q.CorrectAnswer
		if ok {
			correct++
		}
		review = append(review, models.QuestionReview{
			ID:            q.ID,
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       ok,
			Explanation:   q.Explanation,
		})
	}
	if len(questions) > 0 {
		score = int(math.Round(100 * float64(correct) / float64(len(questions))))
	}
	return correct, score, review
}

// SubmitQuiz grades a quiz attempt. Passing moves the user to 66%; every
// attempt is folded into the quiz's attempt counters.
func (p *ProgressService) SubmitQuiz(ctx context.Context, userID, slug string, answers []int) (*models.QuizResult, error) {
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if err := checkQuizAccess(&user, course); err != nil {
		return nil, err
	}
	quiz, ok := p.data.GetQuiz(ctx, slug)
	if !ok {
		return nil, ErrQuizNotFound
	}
	if len(answers) > len(quiz.Questions) {
		return nil, newValidationError("answers", fmt.Sprintf("expected at most %d answers", len(quiz.Questions)))
	}

	correct, score, review := ScoreQuiz(quiz.Questions, answers)
	result := &models.QuizResult{
		CourseSlug: slug,
		Total:      len(quiz.Questions),
		Correct:    correct,
		Score:      score,
		Passed:     score >= PassingScore,
		Progress:   user.ProgressFor(course.ID),
		Review:     review,
	}

	progress, err := p.data.RecordQuizResult(ctx, slug, userID, course.ID, score, result.Passed)
	if err != nil {
		return nil, err
	}
	result.Progress = progress

	p.logger.Printf("[QUIZ] user=%s course=%s score=%d passed=%t", userID, slug, score, result.Passed)
	return result, nil
}

// SubmitAssessment accepts the recorded video assessment and completes the
// course. Submitting again for a completed course returns the existing
// certificate.
func (p *ProgressService) SubmitAssessment(ctx context.Context, userID, slug string, sub models.AssessmentSubmission) (*models.Certificate, error) {
	if err := validateStruct(sub); err != nil {
		return nil, err
	}
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if err := checkAssessmentAccess(&user, course); err != nil {
		return nil, err
	}

	if !user.HasCompleted(course.ID) {
		if err := p.data.CompleteCourse(ctx, userID, course.ID); err != nil {
			return nil, err
		}
		p.logger.Printf("[ASSESSMENT] user=%s course=%s recording=%s duration=%ds", userID, slug, sub.RecordingURL, sub.DurationSeconds)
	}
	return p.Certificate(ctx, userID, slug)
}

func (p *ProgressService) certificateFor(u *models.User, c models.Course) models.Certificate {
	issued := u.CompletedAt[c.ID]
	if issued.IsZero() {
		issued = u.LastActive
	}
	return models.Certificate{
		ID:          CertificateID(p.certificatePrefix, c.ID, u.ID),
		UserID:      u.ID,
		UserName:    u.Name,
		CourseID:    c.ID,
		CourseSlug:  c.Slug,
		CourseTitle: c.Title,
		IssuedAt:    issued,
	}
}

// Certificate returns the certificate of a completed course. An unfinished
// course redirects to the assessment.
func (p *ProgressService) Certificate(ctx context.Context, userID, slug string) (*models.Certificate, error) {
	user, course, err := p.resolve(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if !user.HasCompleted(course.ID) {
		return nil, &AccessDeniedError{
			Reason:   "complete the assessment to receive the certificate",
			Redirect: "/assessment/" + slug,
		}
	}
	cert := p.certificateFor(&user, course)
	return &cert, nil
}

// Certificates lists the certificates a user holds for courses that still exist.
func (p *ProgressService) Certificates(ctx context.Context, userID string) ([]models.Certificate, error) {
	user, ok := p.data.GetUser(ctx, userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	courses := p.data.GetCourses(ctx)

	out := []models.Certificate{}
	for _, courseID := range user.Certificates {
		i := courseIndexByID(courses, courseID)
		if i < 0 {
			continue
		}
		out = append(out, p.certificateFor(&user, courses[i]))
	}
	return out, nil
}

// Overview summarizes every enrolled course of a user for the dashboard.
func (p *ProgressService) Overview(ctx context.Context, userID string) (*models.ProgressOverview, error) {
	user, ok := p.data.GetUser(ctx, userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	courses := p.data.GetCourses(ctx)

	overview := &models.ProgressOverview{
		Courses:          []models.CourseProgress{},
		CompletedCourses: len(user.CompletedCourses),
		Certificates:     len(user.Certificates),
	}
	var sum int
	for _, courseID := range user.EnrolledCourses {
		i := courseIndexByID(courses, courseID)
		if i < 0 {
			continue
		}
		cp := courseProgress(&user, courses[i])
		sum += cp.Progress
		overview.Courses = append(overview.Courses, cp)
	}
	if len(overview.Courses) > 0 {
		overview.AverageProgress = int(math.Round(float64(sum) / float64(len(overview.Courses))))
	}
	return overview, nil
}
