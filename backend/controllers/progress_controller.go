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

type ProgressController struct {
	Progress *services.ProgressService
	Cfg      *config.Config
	Logger   *log.Logger
}

func NewProgressController(progress *services.ProgressService, cfg *config.Config, logger *log.Logger) *ProgressController {
	return &ProgressController{Progress: progress, Cfg: cfg, Logger: logger}
}

// GetProgressOverview returns the dashboard summary of the current user.
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	overview, err := pc.Progress.Overview(c.UserContext(), session.User.ID)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, overview)
}

// SubmitAssessment completes the course once the recorded assessment is in.
func (pc *ProgressController) SubmitAssessment(c *fiber.Ctx) error {
	var input models.AssessmentSubmission
	if err := parseBody(c, &input); err != nil {
		return err
	}

	session := middleware.CurrentSession(c)
	cert, err := pc.Progress.SubmitAssessment(c.UserContext(), session.User.ID, c.Params("slug"), input)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, cert)
}

func (pc *ProgressController) GetCertificates(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	certs, err := pc.Progress.Certificates(c.UserContext(), session.User.ID)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, certs)
}

func (pc *ProgressController) GetCertificate(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	cert, err := pc.Progress.Certificate(c.UserContext(), session.User.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, cert)
}

// GetCourseProgress reports where the current user stands in one course.
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	state, err := pc.Progress.State(c.UserContext(), session.User.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, state)
}
