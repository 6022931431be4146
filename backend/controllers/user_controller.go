package controllers

import (
	"context"
	"log"
	"slices"
	"strings"

	"skillnexis/backend/config"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// UserController is the admin view of student accounts.
type UserController struct {
	Data   *services.AdminDataManager
	Cfg    *config.Config
	Logger *log.Logger
}

func NewUserController(data *services.AdminDataManager, cfg *config.Config, logger *log.Logger) *UserController {
	return &UserController{Data: data, Cfg: cfg, Logger: logger}
}

type createUserInput struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// GetUsers lists accounts, optionally filtered by ?q= on name or email and ?role=.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	users := uc.Data.GetUsers(c.UserContext())

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	role := models.Role(c.Query("role"))
	users = slices.DeleteFunc(users, func(u models.User) bool {
		if role != "" && u.Role != role {
			return true
		}
		if q == "" {
			return false
		}
		return !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q)
	})

	return utils.Success(c, fiber.StatusOK, users, fiber.Map{"total": len(users)})
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var input createUserInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	user, err := uc.Data.AddUser(c.UserContext(), models.User{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	})
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	return utils.Created(c, user)
}

// UpdateUser patches name, email, role or lastActive.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	id := c.Params("id")
	if err := uc.Data.UpdateUser(c.UserContext(), id, patch); err != nil {
		return respondError(c, uc.Logger, err)
	}

	user, ok := uc.Data.GetUser(c.UserContext(), id)
	if !ok {
		return utils.NotFound(c, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	if err := uc.Data.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, uc.Logger, err)
	}
	return utils.NoContent(c)
}

func (uc *UserController) EnrollUser(c *fiber.Ctx) error {
	return uc.changeEnrollment(c, uc.Data.EnrollUserInCourse)
}

func (uc *UserController) CompleteCourse(c *fiber.Ctx) error {
	return uc.changeEnrollment(c, uc.Data.CompleteCourse)
}

func (uc *UserController) changeEnrollment(c *fiber.Ctx, apply func(ctx context.Context, userID, courseID string) error) error {
	ctx := c.UserContext()
	userID, courseID := c.Params("id"), c.Params("courseId")

	if _, ok := uc.Data.GetUser(ctx, userID); !ok {
		return utils.NotFound(c, "User not found")
	}
	if _, ok := uc.Data.GetCourse(ctx, courseID); !ok {
		return utils.NotFound(c, "Course not found")
	}
	if err := apply(ctx, userID, courseID); err != nil {
		return respondError(c, uc.Logger, err)
	}

	user, _ := uc.Data.GetUser(ctx, userID)
	return utils.Success(c, fiber.StatusOK, user)
}
