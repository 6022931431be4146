package controllers

import (
	"errors"
	"log"

	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

var errorMessages = map[error]string{
	services.ErrUserExists:         "An account with this email already exists",
	services.ErrDuplicateSlug:      "A course with this slug already exists",
	services.ErrInvalidCredentials: "Invalid credentials. Please check your email and password.",
	services.ErrUserNotFound:       "User not found",
	services.ErrCourseNotFound:     "Course not found",
	services.ErrQuizNotFound:       "Quiz not found",
	services.ErrNotEnrolled:        "You are not enrolled in this course",
	services.ErrSessionNotFound:    "Session expired, please log in again",
	services.ErrChallengeNotFound:  "Challenge not found",
}

func messageFor(err error) string {
	for sentinel, msg := range errorMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}

// respondError maps a service error onto the JSON error envelope. Anything
// unexpected is logged and reported as a 500.
func respondError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var verr *services.ValidationError
	var denied *services.AccessDeniedError

	switch {
	case errors.As(err, &verr):
		return utils.BadRequest(c, verr.Message)
	case errors.As(err, &denied):
		return utils.AccessDenied(c, denied.Reason, denied.Redirect)
	case errors.Is(err, services.ErrUserExists), errors.Is(err, services.ErrDuplicateSlug):
		return utils.Conflict(c, messageFor(err))
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrSessionNotFound):
		return utils.Unauthorized(c, messageFor(err))
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrChallengeNotFound):
		return utils.NotFound(c, messageFor(err))
	case errors.Is(err, services.ErrNotEnrolled):
		return utils.Forbidden(c, messageFor(err))
	}

	logger.Printf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return utils.InternalServerError(c, "Internal server error. Please try again later.")
}

// parseBody decodes the request body into v. The returned error is rendered
// as a 400 by the app's error handler.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return nil
}
