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

type PracticeController struct {
	Practice *services.PracticeService
	Cfg      *config.Config
	Logger   *log.Logger
}

func NewPracticeController(practice *services.PracticeService, cfg *config.Config, logger *log.Logger) *PracticeController {
	return &PracticeController{Practice: practice, Cfg: cfg, Logger: logger}
}

func challengeID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid challenge ID")
	}
	return id, nil
}

func (pc *PracticeController) GetChallenges(c *fiber.Ctx) error {
	challenges := pc.Practice.Challenges()
	return utils.Success(c, fiber.StatusOK, challenges, fiber.Map{"total": len(challenges)})
}

// [+] GetChallenge godoc
// @Summary Challenge with the current user's draft
// @Tags practice
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /practice/{id} [get]
func (pc *PracticeController) GetChallenge(c *fiber.Ctx) error {
	id, err := challengeID(c)
	if err != nil {
		return err
	}
	challenge, err := pc.Practice.Challenge(id)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	draft, err := pc.Practice.Draft(c.UserContext(), middleware.CurrentSession(c).User.ID, id)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"challenge": challenge,
		"draft":     draft,
	})
}

func (pc *PracticeController) SaveDraft(c *fiber.Ctx) error {
	id, err := challengeID(c)
	if err != nil {
		return err
	}
	var input models.PracticeDraftInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	draft, err := pc.Practice.SaveDraft(c.UserContext(), middleware.CurrentSession(c).User.ID, id, input)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, draft)
}

func (pc *PracticeController) ResetDraft(c *fiber.Ctx) error {
	id, err := challengeID(c)
	if err != nil {
		return err
	}
	draft, err := pc.Practice.ResetDraft(c.UserContext(), middleware.CurrentSession(c).User.ID, id)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, draft)
}

// CheckRun compares the output the client produced with the expected output.
func (pc *PracticeController) CheckRun(c *fiber.Ctx) error {
	id, err := challengeID(c)
	if err != nil {
		return err
	}
	var run models.PracticeRun
	if err := parseBody(c, &run); err != nil {
		return err
	}
	result, err := pc.Practice.Check(middleware.CurrentSession(c).User.ID, id, run)
	if err != nil {
		return respondError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, result)
}
