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

type CoursesController struct {
	Catalog  *services.CourseCatalog
	Data     *services.AdminDataManager
	Progress *services.ProgressService
	Cfg      *config.Config
	Logger   *log.Logger
}

func NewCoursesController(catalog *services.CourseCatalog, data *services.AdminDataManager, progress *services.ProgressService, cfg *config.Config, logger *log.Logger) *CoursesController {
	return &CoursesController{Catalog: catalog, Data: data, Progress: progress, Cfg: cfg, Logger: logger}
}

// GetAvailableCourses lists the catalog, optionally narrowed by ?category=.
func (cc *CoursesController) GetAvailableCourses(c *fiber.Ctx) error {
	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		return utils.BadRequest(c, "Unknown category")
	}

	courses := cc.Catalog.ByCategory(c.UserContext(), category)
	return utils.Success(c, fiber.StatusOK, courses, fiber.Map{
		"total":      len(courses),
		"categories": models.Categories,
	})
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	course, ok := cc.Catalog.BySlug(c.UserContext(), c.Params("slug"))
	if !ok {
		return utils.NotFound(c, "Course not found")
	}
	return utils.Success(c, fiber.StatusOK, course)
}

func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	state, err := cc.Progress.Enroll(c.UserContext(), session.User.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, state)
}

// MarkVideoWatched records that the course video was watched to the end.
func (cc *CoursesController) MarkVideoWatched(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	state, err := cc.Progress.MarkVideoWatched(c.UserContext(), session.User.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, state)
}

// GetAllCourses returns the stored courses with their counters for the admin panel.
func (cc *CoursesController) GetAllCourses(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, cc.Data.GetCourses(c.UserContext()))
}

// [+] CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param course body models.CourseInput true "Course"
// @Success 201 {object} models.Course
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /admin/courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input models.CourseInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	course, err := cc.Data.AddCourse(c.UserContext(), input)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	var patch models.CoursePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	id := c.Params("id")
	if err := cc.Data.UpdateCourse(c.UserContext(), id, patch); err != nil {
		return respondError(c, cc.Logger, err)
	}

	course, ok := cc.Data.GetCourse(c.UserContext(), id)
	if !ok {
		return utils.NotFound(c, "Course not found")
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// DeleteCourse removes the course and its quiz. Deleting an unknown course succeeds.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	if err := cc.Data.DeleteCourse(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.NoContent(c)
}
