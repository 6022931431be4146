package controllers

import (
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/middleware"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// QuizzesController serves course quizzes to students and manages them for admins.
type QuizzesController struct {
	Data     *services.AdminDataManager
	Progress *services.ProgressService
	Cfg      *config.Config
	Logger   *log.Logger
}

func NewQuizzesController(data *services.AdminDataManager, progress *services.ProgressService, cfg *config.Config, logger *log.Logger) *QuizzesController {
	return &QuizzesController{Data: data, Progress: progress, Cfg: cfg, Logger: logger}
}

type quizSubmission struct {
	Answers []int `json:"answers"`
}

// GetQuiz returns the questions without answers together with the time limit.
func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	slug := c.Params("slug")

	questions, err := qc.Progress.QuizFor(c.UserContext(), session.User.ID, slug)
	if err != nil {
		return respondError(c, qc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"courseSlug":       slug,
		"questions":        questions,
		"timeLimitSeconds": int(services.QuizTimeLimit.Seconds()),
		"passingScore":     services.PassingScore,
	})
}

// [+] SubmitQuiz godoc
// @Summary Grade a quiz attempt
// @Description Unanswered questions are sent as -1 and count as wrong
// @Tags quizzes
// @Accept json
// @Produce json
// @Success 200 {object} models.QuizResult
// @Failure 403 {object} utils.ErrorResponse
// @Router /quizzes/{slug}/submit [post]
func (qc *QuizzesController) SubmitQuiz(c *fiber.Ctx) error {
	var input quizSubmission
	if err := parseBody(c, &input); err != nil {
		return err
	}

	session := middleware.CurrentSession(c)
	result, err := qc.Progress.SubmitQuiz(c.UserContext(), session.User.ID, c.Params("slug"), input.Answers)
	if err != nil {
		return respondError(c, qc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, result)
}

func (qc *QuizzesController) GetAllQuizzes(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, qc.Data.GetQuizzes(c.UserContext()))
}

// CreateQuiz stores the quiz of a course, replacing an existing one.
func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	var input models.QuizInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	quiz, err := qc.Data.AddQuiz(c.UserContext(), input)
	if err != nil {
		return respondError(c, qc.Logger, err)
	}
	return utils.Created(c, quiz)
}

func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	var patch models.QuizPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	slug := c.Params("slug")
	if err := qc.Data.UpdateQuiz(c.UserContext(), slug, patch); err != nil {
		return respondError(c, qc.Logger, err)
	}

	quiz, ok := qc.Data.GetQuiz(c.UserContext(), slug)
	if !ok {
		return utils.NotFound(c, "Quiz not found")
	}
	return utils.Success(c, fiber.StatusOK, quiz)
}

func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	if err := qc.Data.DeleteQuiz(c.UserContext(), c.Params("slug")); err != nil {
		return respondError(c, qc.Logger, err)
	}
	return utils.NoContent(c)
}
