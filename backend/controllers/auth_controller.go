package controllers

import (
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/middleware"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Auth   *services.AuthService
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(auth *services.AuthService, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Auth: auth, Cfg: cfg, Logger: logger}
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) issue(c *fiber.Ctx, status int, res *services.AuthResult) error {
	token, err := utils.GenerateJWTToken(utils.SessionClaims{
		SessionID: res.Session.ID,
		UserID:    res.Session.User.ID,
		Role:      res.Session.User.Role,
	}, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.Status(status).JSON(fiber.Map{
		"success":  true,
		"token":    token,
		"user":     res.Session.User,
		"redirect": res.Redirect,
	})
}

// [+] Register godoc
// @Summary Register a new student
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	res, err := ac.Auth.Register(c.UserContext(), input.Name, input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return ac.issue(c, fiber.StatusCreated, res)
}

// [+] Login godoc
// @Summary Log in
// @Description Unknown addresses are signed up as students on first login
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	res, err := ac.Auth.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return ac.issue(c, fiber.StatusOK, res)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	redirect, err := ac.Auth.Logout(c.UserContext(), session.ID)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Logged out",
		"redirect": redirect,
	})
}

// Me returns the current user after reconciling the session with the stored account.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	synced, err := ac.Auth.Sync(c.UserContext(), session.ID)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, synced.User)
}
